package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/eihracat/events"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/ws"
)

func TestNews_PublishStampsOnceAndBroadcasts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", models.PlatformRoleAdmin)

	svc := NewNewsService(env.news, env.notifier, env.events, env.audit, env.log).(*newsService)
	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = fixedClock(first)

	draft, err := svc.Create(ctx, admin.ID, &models.NewsRequest{
		Title: "Yeni teşvik paketi",
		Body:  "Ayrıntılar yakında.",
	})
	require.NoError(t, err)
	assert.Nil(t, draft.PublishedAt)
	assert.Empty(t, env.notifier.Deliveries())

	_, err = svc.GetPublished(ctx, draft.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	published, err := svc.Update(ctx, admin.ID, draft.ID, &models.NewsRequest{
		Title:       "Yeni teşvik paketi",
		Body:        "E-ihracat desteği yüzde 70'e çıktı.",
		Category:    "destek",
		IsPublished: true,
	})
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	assert.True(t, published.PublishedAt.Equal(first))

	assert.Equal(t, []delivery{{UserID: "*", Op: ws.OpNewsPublished}}, env.notifier.Deliveries())
	assert.Equal(t, []string{events.NewsPublished}, env.events.Types())

	// Yayından kaldırıp tekrar yayınlamak tarihi ve bildirimi tekrarlamaz.
	svc.now = fixedClock(first.Add(48 * time.Hour))
	req := &models.NewsRequest{Title: "Yeni teşvik paketi", Body: "Güncel.", IsPublished: false}
	_, err = svc.Update(ctx, admin.ID, draft.ID, req)
	require.NoError(t, err)
	req = &models.NewsRequest{Title: "Yeni teşvik paketi", Body: "Güncel.", IsPublished: true}
	again, err := svc.Update(ctx, admin.ID, draft.ID, req)
	require.NoError(t, err)
	assert.True(t, again.PublishedAt.Equal(first))
	assert.Len(t, env.notifier.Deliveries(), 1)

	list, total, err := svc.ListPublished(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, draft.ID, list[0].ID)
}

func TestNews_Validation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewNewsService(env.news, env.notifier, env.events, env.audit, env.log)

	_, err := svc.Create(context.Background(), "admin", &models.NewsRequest{Title: "ab", Body: "x"})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	_, err = svc.Create(context.Background(), "admin", &models.NewsRequest{
		Title: "Geçerli başlık", Body: "x", ImageURL: "javascript:alert(1)",
	})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}
