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
	"github.com/akinalp/eihracat/repository"
	"github.com/akinalp/eihracat/ws"
)

func TestAppointment_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner@example.com", models.PlatformRoleCompanyUser)
	consultant := env.seedUser(t, "consultant@example.com", models.PlatformRoleConsultant)
	other := env.seedUser(t, "other@example.com", models.PlatformRoleConsultant)
	c := env.seedCompany(t, "Ege Gıda", owner)
	require.NoError(t, env.consultants.Assign(ctx, c.ID, consultant.ID))
	svc := env.appointmentService()

	appt, err := svc.Create(ctx, c.ID, owner, &models.CreateAppointmentRequest{
		Subject:       "Pazar araştırması",
		PreferredDate: time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentPending, appt.Status)
	assert.Contains(t, env.notifier.Deliveries(), delivery{UserID: consultant.ID, Op: ws.OpAppointmentRequested})

	// Atanmamış danışman yanıt veremez.
	when := time.Now().Add(96 * time.Hour)
	_, err = svc.Respond(ctx, other, appt.ID, &models.RespondAppointmentRequest{Status: models.AppointmentApproved, ScheduledAt: &when})
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	_, err = svc.Respond(ctx, consultant, appt.ID, &models.RespondAppointmentRequest{Status: models.AppointmentApproved})
	assert.ErrorIs(t, err, pkg.ErrBadRequest, "approval requires scheduled_at")

	approved, err := svc.Respond(ctx, consultant, appt.ID, &models.RespondAppointmentRequest{Status: models.AppointmentApproved, ScheduledAt: &when})
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentApproved, approved.Status)
	require.NotNil(t, approved.ConsultantID)
	assert.Equal(t, consultant.ID, *approved.ConsultantID)

	assert.Contains(t, env.notifier.Deliveries(), delivery{UserID: owner.ID, Op: ws.OpAppointmentUpdated})
	assert.Contains(t, env.mailer.Sent(), sentMail{Kind: "appointment:approved", To: owner.Email})

	_, err = svc.Respond(ctx, consultant, appt.ID, &models.RespondAppointmentRequest{Status: models.AppointmentRejected})
	assert.ErrorIs(t, err, pkg.ErrConflict)

	completed, err := svc.Respond(ctx, consultant, appt.ID, &models.RespondAppointmentRequest{Status: models.AppointmentCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCompleted, completed.Status)

	assert.Equal(t, []string{
		events.AppointmentRequested,
		events.AppointmentStatusChanged,
		events.AppointmentStatusChanged,
	}, env.events.Types())
}

func TestAppointment_PastDateRejected(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner@example.com", models.PlatformRoleCompanyUser)
	c := env.seedCompany(t, "Ege Gıda", owner)

	_, err := env.appointmentService().Create(context.Background(), c.ID, owner, &models.CreateAppointmentRequest{
		Subject:       "Geçmiş",
		PreferredDate: time.Now().Add(-time.Hour),
	})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestAppointment_ListForConsultantScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ownerA := env.seedUser(t, "a@example.com", models.PlatformRoleCompanyUser)
	ownerB := env.seedUser(t, "b@example.com", models.PlatformRoleCompanyUser)
	consultant := env.seedUser(t, "consultant@example.com", models.PlatformRoleConsultant)
	admin := env.seedUser(t, "admin@example.com", models.PlatformRoleAdmin)
	a := env.seedCompany(t, "Firma A", ownerA)
	b := env.seedCompany(t, "Firma B", ownerB)
	require.NoError(t, env.consultants.Assign(ctx, a.ID, consultant.ID))
	svc := env.appointmentService()

	for _, pair := range []struct {
		company string
		actor   *models.User
	}{{a.ID, ownerA}, {b.ID, ownerB}} {
		_, err := svc.Create(ctx, pair.company, pair.actor, &models.CreateAppointmentRequest{
			Subject: "Danışmanlık", PreferredDate: time.Now().Add(48 * time.Hour),
		})
		require.NoError(t, err)
	}

	mine, err := svc.ListForConsultant(ctx, consultant, "")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a.ID, mine[0].CompanyID)

	all, err := svc.ListForConsultant(ctx, admin, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.ListForConsultant(ctx, ownerA, "")
	assert.ErrorIs(t, err, pkg.ErrForbidden)
}

// snapshotAppointments, GetByID için ilk okunan kopyayı döner; başka bir
// isteğin araya girip kaydı değiştirdiği durumu canlandırır.
type snapshotAppointments struct {
	repository.AppointmentRepository
	snapshot models.AppointmentRequest
}

func (r *snapshotAppointments) GetByID(context.Context, string) (*models.AppointmentRequest, error) {
	cp := r.snapshot
	return &cp, nil
}

func TestAppointment_StaleRespondAfterCancel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "owner@example.com", models.PlatformRoleCompanyUser)
	consultant := env.seedUser(t, "consultant@example.com", models.PlatformRoleConsultant)
	c := env.seedCompany(t, "Ege Gıda", owner)
	require.NoError(t, env.consultants.Assign(ctx, c.ID, consultant.ID))
	svc := env.appointmentService()

	appt, err := svc.Create(ctx, c.ID, owner, &models.CreateAppointmentRequest{
		Subject:       "Pazar araştırması",
		PreferredDate: time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)
	pending, err := env.appointments.GetByID(ctx, appt.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, c.ID, appt.ID, owner)
	require.NoError(t, err)

	stale := NewAppointmentService(&snapshotAppointments{AppointmentRepository: env.appointments, snapshot: *pending},
		env.companies, env.consultants, env.users, env.notifier, env.mailer, env.events, env.log)
	when := time.Now().Add(96 * time.Hour)
	_, err = stale.Respond(ctx, consultant, appt.ID, &models.RespondAppointmentRequest{Status: models.AppointmentApproved, ScheduledAt: &when})
	assert.ErrorIs(t, err, pkg.ErrConflict)

	got, err := env.appointments.GetByID(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, got.Status)
}
