package email

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/akinalp/eihracat/pkg/i18n"
)

func newComposer(t *testing.T) *Composer {
	t.Helper()
	cat, err := i18n.Default()
	require.NoError(t, err)
	return NewComposer(cat, "https://app.example.com")
}

func TestPasswordResetMessage(t *testing.T) {
	c := newComposer(t)
	msg := c.PasswordReset("en", "user@example.com", "abc+def", time.Hour)

	assert.Equal(t, "user@example.com", msg.To)
	assert.Equal(t, "Password reset request", msg.Subject)
	assert.Contains(t, msg.HTML, "https://app.example.com/reset-password?token=abc%2Bdef")
	assert.Contains(t, msg.HTML, "60 minutes")
}

func TestContactNotificationEscapesInput(t *testing.T) {
	c := newComposer(t)
	msg := c.ContactNotification("admin@example.com", ContactNotice{
		Name:    "Mehmet",
		Email:   "m@example.com",
		Message: "<script>alert(1)</script>",
	})

	assert.True(t, strings.HasPrefix(msg.Subject, "Yeni iletişim formu mesajı"))
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
}

func TestAppointmentUpdateMessage(t *testing.T) {
	c := newComposer(t)
	at := time.Date(2026, 5, 4, 7, 30, 0, 0, time.UTC)
	msg := c.AppointmentUpdate("tr", "u@example.com", AppointmentNotice{
		Subject:     "Fuar hazırlığı",
		Status:      "approved",
		ScheduledAt: &at,
		Note:        "Zoom linki gönderilecek",
	})

	assert.Contains(t, msg.Subject, "Fuar hazırlığı")
	assert.Contains(t, msg.HTML, "Onaylandı")
	assert.Contains(t, msg.HTML, "04.05.2026 10:30")
	assert.Contains(t, msg.HTML, "Zoom linki")
}

func TestLogSender(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewLogSender(zap.New(core), newComposer(t))

	require.NoError(t, s.SendWelcome(context.Background(), "tr", "a@example.com", "Ayşe", ""))
	require.NoError(t, s.SendContactNotification(context.Background(), "", ContactNotice{Name: "x"}))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "a@example.com", logs.All()[0].ContextMap()["to"])
}
