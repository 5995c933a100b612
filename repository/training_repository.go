package repository

import (
	"context"

	"github.com/akinalp/eihracat/models"
)

// TrainingRepository, eğitim setleri, videolar ve kullanıcı ilerlemesi.
type TrainingRepository interface {
	CreateSet(ctx context.Context, set *models.TrainingSet) error
	GetSet(ctx context.Context, id string) (*models.TrainingSet, error)
	ListSets(ctx context.Context, publishedOnly bool) ([]models.TrainingSet, error)
	UpdateSet(ctx context.Context, set *models.TrainingSet) error
	DeleteSet(ctx context.Context, id string) error

	CreateVideo(ctx context.Context, video *models.TrainingVideo) error
	GetVideo(ctx context.Context, id string) (*models.TrainingVideo, error)
	ListVideos(ctx context.Context, setID string) ([]models.TrainingVideo, error)
	UpdateVideo(ctx context.Context, video *models.TrainingVideo) error
	DeleteVideo(ctx context.Context, setID, id string) error

	// ListSetSummaries, yayınlanmış setleri kullanıcının ilerlemesiyle döner.
	ListSetSummaries(ctx context.Context, userID string) ([]models.TrainingSetSummary, error)
	// ListVideoProgress, setin videolarını kullanıcının tamamlama bilgisiyle döner.
	ListVideoProgress(ctx context.Context, userID, setID string) ([]models.TrainingVideoProgress, error)
	MarkCompleted(ctx context.Context, userID, videoID string) error
	UnmarkCompleted(ctx context.Context, userID, videoID string) error
	// CompanyProgress, firma üyelerinin yayınlanmış videolardaki toplam
	// tamamlama sayısını ve olası toplamı (üye × video) döner.
	CompanyProgress(ctx context.Context, companyID string) (completed, possible int, err error)
}
