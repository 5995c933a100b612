package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/akinalp/eihracat/events"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/repository"
	"github.com/akinalp/eihracat/ws"
)

// NewsService, haberler. Yayınlama published_at'i bir kez basar ve bağlı
// tüm kullanıcılara news_published gönderir.
type NewsService interface {
	ListPublished(ctx context.Context, category string, limit, offset int) ([]models.NewsArticle, int, error)
	GetPublished(ctx context.Context, id string) (*models.NewsArticle, error)

	AdminList(ctx context.Context, limit, offset int) ([]models.NewsArticle, int, error)
	AdminGet(ctx context.Context, id string) (*models.NewsArticle, error)
	Create(ctx context.Context, actorID string, req *models.NewsRequest) (*models.NewsArticle, error)
	Update(ctx context.Context, actorID, id string, req *models.NewsRequest) (*models.NewsArticle, error)
	Delete(ctx context.Context, actorID, id string) error
}

// NewsPublishedData, news_published event payload'ı.
type NewsPublishedData struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Category string `json:"category"`
}

type newsService struct {
	repo      repository.NewsRepository
	notifier  ws.Notifier
	publisher events.Publisher
	audit     AuditService
	log       *zap.Logger
	now       clock
}

// NewNewsService, constructor.
func NewNewsService(repo repository.NewsRepository, notifier ws.Notifier, publisher events.Publisher, audit AuditService, log *zap.Logger) NewsService {
	return &newsService{
		repo:      repo,
		notifier:  notifier,
		publisher: publisher,
		audit:     audit,
		log:       log,
		now:       systemClock,
	}
}

func (s *newsService) ListPublished(ctx context.Context, category string, limit, offset int) ([]models.NewsArticle, int, error) {
	if limit <= 0 || limit > pkg.MaxPageLimit {
		limit = pkg.DefaultPageLimit
	}
	return s.repo.List(ctx, true, category, limit, offset)
}

func (s *newsService) GetPublished(ctx context.Context, id string) (*models.NewsArticle, error) {
	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !article.IsPublished {
		return nil, fmt.Errorf("%w: news article", pkg.ErrNotFound)
	}
	return article, nil
}

func (s *newsService) AdminList(ctx context.Context, limit, offset int) ([]models.NewsArticle, int, error) {
	if limit <= 0 || limit > pkg.MaxPageLimit {
		limit = pkg.DefaultPageLimit
	}
	return s.repo.List(ctx, false, "", limit, offset)
}

func (s *newsService) AdminGet(ctx context.Context, id string) (*models.NewsArticle, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *newsService) Create(ctx context.Context, actorID string, req *models.NewsRequest) (*models.NewsArticle, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	article := &models.NewsArticle{AuthorID: actorID}
	firstPublish := s.apply(article, req)

	if err := s.repo.Create(ctx, article); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorID, models.AuditCreate, "news", article.ID, map[string]any{"title": article.Title, "published": article.IsPublished})
	if firstPublish {
		s.announce(ctx, actorID, article)
	}
	return article, nil
}

func (s *newsService) Update(ctx context.Context, actorID, id string, req *models.NewsRequest) (*models.NewsArticle, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	firstPublish := s.apply(article, req)

	if err := s.repo.Update(ctx, article); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorID, models.AuditUpdate, "news", article.ID, map[string]any{"title": article.Title, "published": article.IsPublished})
	if firstPublish {
		s.announce(ctx, actorID, article)
	}
	return article, nil
}

// apply, isteği habere uygular. Haber ilk kez yayınlanıyorsa true döner;
// yayından kaldırılıp tekrar yayınlanan haberin published_at'i değişmez.
func (s *newsService) apply(article *models.NewsArticle, req *models.NewsRequest) bool {
	article.Title = req.Title
	article.Summary = req.Summary
	article.Body = req.Body
	article.Category = req.Category
	article.ImageURL = req.ImageURL
	article.IsPublished = req.IsPublished

	if article.IsPublished && article.PublishedAt == nil {
		now := s.now()
		article.PublishedAt = &now
		return true
	}
	return false
}

func (s *newsService) announce(ctx context.Context, actorID string, article *models.NewsArticle) {
	data := NewsPublishedData{
		ID:       article.ID,
		Title:    article.Title,
		Summary:  article.Summary,
		Category: article.Category,
	}
	s.notifier.Broadcast(ws.Event{Op: ws.OpNewsPublished, Data: data})
	if err := s.publisher.Publish(ctx, events.New(events.NewsPublished, article.ID, actorID, data)); err != nil {
		s.log.Warn("failed to publish event", zap.String("type", events.NewsPublished), zap.Error(err))
	}
}

func (s *newsService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actorID, models.AuditDelete, "news", id, nil)
	return nil
}
