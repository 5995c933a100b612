package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
)

func seedTrainingSet(t *testing.T, svc TrainingService, actorID string, published bool, videos int) (*models.TrainingSet, []*models.TrainingVideo) {
	t.Helper()
	ctx := context.Background()
	set, err := svc.CreateSet(ctx, actorID, &models.TrainingSetRequest{Title: "Gümrük Mevzuatı", IsPublished: published})
	require.NoError(t, err)

	var list []*models.TrainingVideo
	for i := 0; i < videos; i++ {
		v, err := svc.CreateVideo(ctx, actorID, set.ID, &models.TrainingVideoRequest{
			Title:     "Bölüm",
			VideoURL:  "https://videos.example.com/gumruk",
			SortOrder: i,
		})
		require.NoError(t, err)
		list = append(list, v)
	}
	return set, list
}

func TestTraining_CompleteIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTrainingService(env.trainings, env.audit)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", models.PlatformRoleAdmin)
	learner := env.seedUser(t, "learner@example.com", models.PlatformRoleCompanyUser)

	set, videos := seedTrainingSet(t, svc, admin.ID, true, 2)

	require.NoError(t, svc.CompleteVideo(ctx, learner.ID, videos[0].ID))
	require.NoError(t, svc.CompleteVideo(ctx, learner.ID, videos[0].ID))

	detail, err := svc.GetForUser(ctx, learner.ID, set.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.VideoCount)
	assert.Equal(t, 1, detail.CompletedCount)
	assert.Equal(t, 50, detail.ProgressPercent)

	require.NoError(t, svc.UncompleteVideo(ctx, learner.ID, videos[0].ID))
	detail, err = svc.GetForUser(ctx, learner.ID, set.ID)
	require.NoError(t, err)
	assert.Zero(t, detail.CompletedCount)
	for _, v := range detail.Videos {
		assert.False(t, v.Completed)
	}

	// İlerleme kullanıcıya özeldir.
	other, err := svc.GetForUser(ctx, admin.ID, set.ID)
	require.NoError(t, err)
	assert.Zero(t, other.CompletedCount)
}

func TestTraining_UnpublishedIsHidden(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTrainingService(env.trainings, env.audit)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", models.PlatformRoleAdmin)
	learner := env.seedUser(t, "learner@example.com", models.PlatformRoleCompanyUser)

	draft, videos := seedTrainingSet(t, svc, admin.ID, false, 1)

	_, err := svc.GetForUser(ctx, learner.ID, draft.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	assert.ErrorIs(t, svc.CompleteVideo(ctx, learner.ID, videos[0].ID), pkg.ErrNotFound)
	assert.ErrorIs(t, svc.UncompleteVideo(ctx, learner.ID, videos[0].ID), pkg.ErrNotFound)

	list, err := svc.ListForUser(ctx, learner.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Admin taslağı görmeye devam eder.
	set, adminVideos, err := svc.AdminGetSet(ctx, draft.ID)
	require.NoError(t, err)
	assert.False(t, set.IsPublished)
	assert.Len(t, adminVideos, 1)
}
