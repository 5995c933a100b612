package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/eihracat/events"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
)

func TestContact_SubmitAndHandle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", models.PlatformRoleAdmin)
	svc := NewContactService(env.contacts, env.mailer, "inbox@example.com", env.events, env.audit, env.log)

	msg, err := svc.Submit(ctx, &models.ContactRequest{
		Name:    "Mehmet Kaya",
		Email:   "Mehmet@Example.com",
		Company: "Kaya Mobilya",
		Message: "Almanya pazarı için danışmanlık almak istiyoruz.",
	}, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "mehmet@example.com", msg.Email)
	assert.Equal(t, "10.0.0.1", msg.IPAddress)

	assert.Equal(t, []sentMail{{Kind: "contact", To: "inbox@example.com"}}, env.mailer.Sent())
	assert.Equal(t, []string{events.ContactSubmitted}, env.events.Types())

	unhandled := false
	list, total, err := svc.List(ctx, &unhandled, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)

	handled, err := svc.SetHandled(ctx, admin.ID, msg.ID, &models.UpdateContactRequest{IsHandled: true})
	require.NoError(t, err)
	assert.True(t, handled.IsHandled)
	require.NotNil(t, handled.HandledBy)
	assert.Equal(t, admin.ID, *handled.HandledBy)

	_, total, err = svc.List(ctx, &unhandled, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestContact_Validation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewContactService(env.contacts, env.mailer, "", env.events, env.audit, env.log)

	_, err := svc.Submit(context.Background(), &models.ContactRequest{
		Name: "A", Email: "not-an-email", Message: "kısa",
	}, "10.0.0.1")
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
	assert.Empty(t, env.events.Types())
}
