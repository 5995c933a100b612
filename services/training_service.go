package services

import (
	"context"
	"fmt"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/repository"
)

// TrainingService, eğitim setleri (egitim_setleri), videolar ve kullanıcı ilerlemesi.
type TrainingService interface {
	// ListForUser, yayınlanmış setleri kullanıcının tamamlama yüzdesiyle döner.
	ListForUser(ctx context.Context, userID string) ([]models.TrainingSetSummary, error)
	GetForUser(ctx context.Context, userID, setID string) (*models.TrainingSetDetail, error)
	// CompleteVideo idempotent'tir; tekrar çağrı hata vermez.
	CompleteVideo(ctx context.Context, userID, videoID string) error
	UncompleteVideo(ctx context.Context, userID, videoID string) error

	AdminListSets(ctx context.Context) ([]models.TrainingSet, error)
	AdminGetSet(ctx context.Context, setID string) (*models.TrainingSet, []models.TrainingVideo, error)
	CreateSet(ctx context.Context, actorID string, req *models.TrainingSetRequest) (*models.TrainingSet, error)
	UpdateSet(ctx context.Context, actorID, setID string, req *models.TrainingSetRequest) (*models.TrainingSet, error)
	DeleteSet(ctx context.Context, actorID, setID string) error

	CreateVideo(ctx context.Context, actorID, setID string, req *models.TrainingVideoRequest) (*models.TrainingVideo, error)
	UpdateVideo(ctx context.Context, actorID, setID, videoID string, req *models.TrainingVideoRequest) (*models.TrainingVideo, error)
	DeleteVideo(ctx context.Context, actorID, setID, videoID string) error
}

type trainingService struct {
	repo  repository.TrainingRepository
	audit AuditService
}

// NewTrainingService, constructor.
func NewTrainingService(repo repository.TrainingRepository, audit AuditService) TrainingService {
	return &trainingService{repo: repo, audit: audit}
}

func (s *trainingService) ListForUser(ctx context.Context, userID string) ([]models.TrainingSetSummary, error) {
	return s.repo.ListSetSummaries(ctx, userID)
}

func (s *trainingService) GetForUser(ctx context.Context, userID, setID string) (*models.TrainingSetDetail, error) {
	set, err := s.repo.GetSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	// Yayınlanmamış set kullanıcıya yokmuş gibi görünür.
	if !set.IsPublished {
		return nil, fmt.Errorf("%w: training set", pkg.ErrNotFound)
	}

	videos, err := s.repo.ListVideoProgress(ctx, userID, setID)
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, v := range videos {
		if v.Completed {
			completed++
		}
	}

	return &models.TrainingSetDetail{
		TrainingSetSummary: models.TrainingSetSummary{
			TrainingSet:     *set,
			VideoCount:      len(videos),
			CompletedCount:  completed,
			ProgressPercent: pkg.Percent(completed, len(videos)),
		},
		Videos: videos,
	}, nil
}

func (s *trainingService) CompleteVideo(ctx context.Context, userID, videoID string) error {
	if err := s.requirePublishedVideo(ctx, videoID); err != nil {
		return err
	}
	return s.repo.MarkCompleted(ctx, userID, videoID)
}

func (s *trainingService) UncompleteVideo(ctx context.Context, userID, videoID string) error {
	if err := s.requirePublishedVideo(ctx, videoID); err != nil {
		return err
	}
	return s.repo.UnmarkCompleted(ctx, userID, videoID)
}

func (s *trainingService) requirePublishedVideo(ctx context.Context, videoID string) error {
	video, err := s.repo.GetVideo(ctx, videoID)
	if err != nil {
		return err
	}
	set, err := s.repo.GetSet(ctx, video.SetID)
	if err != nil {
		return err
	}
	if !set.IsPublished {
		return fmt.Errorf("%w: training video", pkg.ErrNotFound)
	}
	return nil
}

func (s *trainingService) AdminListSets(ctx context.Context) ([]models.TrainingSet, error) {
	return s.repo.ListSets(ctx, false)
}

func (s *trainingService) AdminGetSet(ctx context.Context, setID string) (*models.TrainingSet, []models.TrainingVideo, error) {
	set, err := s.repo.GetSet(ctx, setID)
	if err != nil {
		return nil, nil, err
	}
	videos, err := s.repo.ListVideos(ctx, setID)
	if err != nil {
		return nil, nil, err
	}
	return set, videos, nil
}

func (s *trainingService) CreateSet(ctx context.Context, actorID string, req *models.TrainingSetRequest) (*models.TrainingSet, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	set := &models.TrainingSet{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		IsPublished: req.IsPublished,
		SortOrder:   req.SortOrder,
	}
	if err := s.repo.CreateSet(ctx, set); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorID, models.AuditCreate, "training_set", set.ID, map[string]string{"title": set.Title})
	return set, nil
}

func (s *trainingService) UpdateSet(ctx context.Context, actorID, setID string, req *models.TrainingSetRequest) (*models.TrainingSet, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	set, err := s.repo.GetSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	set.Title = req.Title
	set.Description = req.Description
	set.Category = req.Category
	set.IsPublished = req.IsPublished
	set.SortOrder = req.SortOrder

	if err := s.repo.UpdateSet(ctx, set); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorID, models.AuditUpdate, "training_set", set.ID, req)
	return set, nil
}

func (s *trainingService) DeleteSet(ctx context.Context, actorID, setID string) error {
	if err := s.repo.DeleteSet(ctx, setID); err != nil {
		return err
	}
	s.audit.Record(ctx, actorID, models.AuditDelete, "training_set", setID, nil)
	return nil
}

func (s *trainingService) CreateVideo(ctx context.Context, actorID, setID string, req *models.TrainingVideoRequest) (*models.TrainingVideo, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	if _, err := s.repo.GetSet(ctx, setID); err != nil {
		return nil, err
	}

	video := &models.TrainingVideo{
		SetID:           setID,
		Title:           req.Title,
		Description:     req.Description,
		VideoURL:        req.VideoURL,
		DurationSeconds: req.DurationSeconds,
		SortOrder:       req.SortOrder,
	}
	if err := s.repo.CreateVideo(ctx, video); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorID, models.AuditCreate, "training_video", video.ID, map[string]string{"set_id": setID})
	return video, nil
}

func (s *trainingService) UpdateVideo(ctx context.Context, actorID, setID, videoID string, req *models.TrainingVideoRequest) (*models.TrainingVideo, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	video, err := s.repo.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.SetID != setID {
		return nil, fmt.Errorf("%w: training video", pkg.ErrNotFound)
	}

	video.Title = req.Title
	video.Description = req.Description
	video.VideoURL = req.VideoURL
	video.DurationSeconds = req.DurationSeconds
	video.SortOrder = req.SortOrder

	if err := s.repo.UpdateVideo(ctx, video); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorID, models.AuditUpdate, "training_video", video.ID, req)
	return video, nil
}

func (s *trainingService) DeleteVideo(ctx context.Context, actorID, setID, videoID string) error {
	if err := s.repo.DeleteVideo(ctx, setID, videoID); err != nil {
		return err
	}
	s.audit.Record(ctx, actorID, models.AuditDelete, "training_video", videoID, nil)
	return nil
}
