package services

import (
	"context"
	"fmt"

	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/repository"
)

// ForumService, platform geneli forum (forum_konulari).
// Konu ve yanıtları yazarı veya platform admin düzenleyip silebilir.
type ForumService interface {
	ListTopics(ctx context.Context, filter models.ForumTopicFilter) ([]models.ForumTopic, int, error)
	ListCategories(ctx context.Context) ([]string, error)
	GetTopic(ctx context.Context, topicID string) (*models.ForumTopicDetail, error)
	CreateTopic(ctx context.Context, actor *models.User, req *models.CreateTopicRequest) (*models.ForumTopic, error)
	UpdateTopic(ctx context.Context, actor *models.User, topicID string, req *models.UpdateTopicRequest) (*models.ForumTopic, error)
	DeleteTopic(ctx context.Context, actor *models.User, topicID string) error
	// Moderate, admin sabitleme/kilitleme.
	Moderate(ctx context.Context, actorID, topicID string, req *models.ModerateTopicRequest) (*models.ForumTopic, error)

	// CreateReply, kilitli konuya yanıt reddedilir. Sayaçlar aynı transaction'da güncellenir.
	CreateReply(ctx context.Context, actor *models.User, topicID string, req *models.CreateReplyRequest) (*models.ForumReply, error)
	DeleteReply(ctx context.Context, actor *models.User, replyID string) error
}

type forumService struct {
	db      *database.DB
	repo    repository.ForumRepository
	members repository.MemberRepository
	audit   AuditService
}

// NewForumService, constructor.
func NewForumService(db *database.DB, repo repository.ForumRepository, members repository.MemberRepository, audit AuditService) ForumService {
	return &forumService{db: db, repo: repo, members: members, audit: audit}
}

func (s *forumService) ListTopics(ctx context.Context, filter models.ForumTopicFilter) ([]models.ForumTopic, int, error) {
	if filter.Limit <= 0 || filter.Limit > pkg.MaxPageLimit {
		filter.Limit = pkg.DefaultPageLimit
	}
	return s.repo.ListTopics(ctx, filter)
}

func (s *forumService) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}

func (s *forumService) GetTopic(ctx context.Context, topicID string) (*models.ForumTopicDetail, error) {
	topic, err := s.repo.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	replies, err := s.repo.ListReplies(ctx, topicID)
	if err != nil {
		return nil, err
	}
	return &models.ForumTopicDetail{ForumTopic: *topic, Replies: replies}, nil
}

func (s *forumService) CreateTopic(ctx context.Context, actor *models.User, req *models.CreateTopicRequest) (*models.ForumTopic, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	// Firma etiketi sadece üyesi olunan firma için kullanılabilir.
	if req.CompanyID != nil && !actor.IsAdmin() {
		if _, err := s.members.Get(ctx, *req.CompanyID, actor.ID); err != nil {
			return nil, fmt.Errorf("%w: you can only tag your own company", pkg.ErrForbidden)
		}
	}

	topic := &models.ForumTopic{
		AuthorID:   actor.ID,
		AuthorName: actor.FullName,
		CompanyID:  req.CompanyID,
		Title:      req.Title,
		Body:       req.Body,
		Category:   req.Category,
	}
	if err := s.repo.CreateTopic(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *forumService) UpdateTopic(ctx context.Context, actor *models.User, topicID string, req *models.UpdateTopicRequest) (*models.ForumTopic, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	topic, err := s.repo.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if err := requireAuthor(actor, topic.AuthorID); err != nil {
		return nil, err
	}
	if topic.IsLocked && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: topic is locked", pkg.ErrConflict)
	}

	if req.Title != nil {
		topic.Title = *req.Title
	}
	if req.Body != nil {
		topic.Body = *req.Body
	}
	if req.Category != nil {
		topic.Category = *req.Category
	}
	if err := s.repo.UpdateTopic(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *forumService) DeleteTopic(ctx context.Context, actor *models.User, topicID string) error {
	topic, err := s.repo.GetTopic(ctx, topicID)
	if err != nil {
		return err
	}
	if err := requireAuthor(actor, topic.AuthorID); err != nil {
		return err
	}
	if err := s.repo.DeleteTopic(ctx, topicID); err != nil {
		return err
	}
	if actor.ID != topic.AuthorID {
		s.audit.Record(ctx, actor.ID, models.AuditDelete, "forum_topic", topicID, map[string]string{"title": topic.Title})
	}
	return nil
}

func (s *forumService) Moderate(ctx context.Context, actorID, topicID string, req *models.ModerateTopicRequest) (*models.ForumTopic, error) {
	if req.IsPinned == nil && req.IsLocked == nil {
		return nil, fmt.Errorf("%w: nothing to update", pkg.ErrBadRequest)
	}

	topic, err := s.repo.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if req.IsPinned != nil {
		topic.IsPinned = *req.IsPinned
	}
	if req.IsLocked != nil {
		topic.IsLocked = *req.IsLocked
	}
	if err := s.repo.UpdateTopic(ctx, topic); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorID, models.AuditUpdate, "forum_topic", topicID, req)
	return topic, nil
}

func (s *forumService) CreateReply(ctx context.Context, actor *models.User, topicID string, req *models.CreateReplyRequest) (*models.ForumReply, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	reply := &models.ForumReply{
		TopicID:    topicID,
		AuthorID:   actor.ID,
		AuthorName: actor.FullName,
		Body:       req.Body,
	}
	err := database.WithTx(ctx, s.db, func(tx database.TxQuerier) error {
		repo := repository.NewSQLForumRepo(tx)
		topic, err := repo.GetTopic(ctx, topicID)
		if err != nil {
			return err
		}
		if topic.IsLocked {
			return fmt.Errorf("%w: topic is locked", pkg.ErrConflict)
		}
		return repo.CreateReply(ctx, reply)
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *forumService) DeleteReply(ctx context.Context, actor *models.User, replyID string) error {
	return database.WithTx(ctx, s.db, func(tx database.TxQuerier) error {
		repo := repository.NewSQLForumRepo(tx)
		reply, err := repo.GetReply(ctx, replyID)
		if err != nil {
			return err
		}
		if err := requireAuthor(actor, reply.AuthorID); err != nil {
			return err
		}
		return repo.DeleteReply(ctx, reply.TopicID, replyID)
	})
}

func requireAuthor(actor *models.User, authorID string) error {
	if actor.ID == authorID || actor.IsAdmin() {
		return nil
	}
	return fmt.Errorf("%w: only the author or an admin can do this", pkg.ErrForbidden)
}
