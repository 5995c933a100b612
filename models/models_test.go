package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionHas(t *testing.T) {
	assert.True(t, PermDefaultMember.Has(PermViewCompany))
	assert.False(t, PermDefaultMember.Has(PermManageRoles))
	assert.False(t, PermDefaultMember.Has(PermViewCompany|PermManageRoles))
	assert.True(t, PermAdmin.Has(PermManageRoles))
	assert.True(t, PermAll.Has(PermManageCompany|PermManagePersonnel))
	assert.False(t, PermConsultant.Has(PermManagePersonnel))
}

func TestDefaultRoles(t *testing.T) {
	roles := DefaultRoles("c1")
	require.Len(t, roles, 3)

	defaults := 0
	for _, r := range roles {
		assert.Equal(t, "c1", r.CompanyID)
		if r.IsDefault {
			defaults++
			assert.Equal(t, RoleNameMember, r.Name)
		}
	}
	assert.Equal(t, 1, defaults)
	assert.True(t, roles[0].IsOwner())
}

func TestRegisterRequestValidate(t *testing.T) {
	req := RegisterRequest{Email: "  Ali@Firma.COM ", Password: "password1", FullName: " Ali Veli "}
	require.NoError(t, req.Validate())
	assert.Equal(t, "ali@firma.com", req.Email)
	assert.Equal(t, "Ali Veli", req.FullName)

	bad := []RegisterRequest{
		{Email: "nope", Password: "password1", FullName: "Ali"},
		{Email: "a@b.co", Password: "short", FullName: "Ali"},
		{Email: "a@b.co", Password: "password1", FullName: "A"},
		{Email: "a@b.co", Password: "password1", FullName: "Ali", CompanyName: "X"},
	}
	for _, r := range bad {
		assert.Error(t, r.Validate(), "%+v", r)
	}
}

func TestCreateRoleRequestValidate(t *testing.T) {
	req := CreateRoleRequest{Name: "Owner", Position: 10}
	assert.ErrorContains(t, req.Validate(), "reserved")

	req = CreateRoleRequest{Name: "Satış", Permissions: Permission(1 << 20), Position: 10}
	assert.ErrorContains(t, req.Validate(), "unknown permission")

	req = CreateRoleRequest{Name: "Satış", Permissions: PermManageTasks, Position: 100}
	assert.ErrorContains(t, req.Validate(), "position")

	req = CreateRoleRequest{Name: " Satış ", Permissions: PermManageTasks, Position: 10}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Satış", req.Name)
}

func TestNormalizeMarkets(t *testing.T) {
	assert.Equal(t, []string{"DE", "US"}, NormalizeMarkets([]string{" de", "US", "", "De"}))
	assert.Equal(t, []string{}, NormalizeMarkets(nil))
}

func TestTaskSetStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	task := &Task{Status: TaskStatusTodo}

	task.SetStatus(TaskStatusDone, now)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, now, *task.CompletedAt)

	// Zaten done iken tekrar done → zaman damgası korunur.
	task.SetStatus(TaskStatusDone, now.Add(time.Hour))
	assert.Equal(t, now, *task.CompletedAt)

	task.SetStatus(TaskStatusInProgress, now)
	assert.Nil(t, task.CompletedAt)
}

func TestAppointmentTransitions(t *testing.T) {
	assert.True(t, AppointmentPending.CanTransitionTo(AppointmentApproved))
	assert.True(t, AppointmentPending.CanTransitionTo(AppointmentCancelled))
	assert.True(t, AppointmentApproved.CanTransitionTo(AppointmentCompleted))
	assert.False(t, AppointmentPending.CanTransitionTo(AppointmentCompleted))
	assert.False(t, AppointmentRejected.CanTransitionTo(AppointmentApproved))
	assert.False(t, AppointmentCompleted.CanTransitionTo(AppointmentCancelled))
}

func TestCreateAppointmentRequestValidate(t *testing.T) {
	now := time.Now()
	req := CreateAppointmentRequest{Subject: "Pazar analizi", PreferredDate: now.Add(-time.Hour)}
	assert.ErrorContains(t, req.Validate(now), "future")

	req.PreferredDate = now.Add(48 * time.Hour)
	assert.NoError(t, req.Validate(now))
}

func TestRespondAppointmentRequestValidate(t *testing.T) {
	req := RespondAppointmentRequest{Status: AppointmentApproved}
	assert.ErrorContains(t, req.Validate(), "scheduled_at")

	req = RespondAppointmentRequest{Status: AppointmentCancelled}
	assert.Error(t, req.Validate())

	req = RespondAppointmentRequest{Status: AppointmentRejected, Note: " dolu "}
	require.NoError(t, req.Validate())
	assert.Equal(t, "dolu", req.Note)
}

func TestAchievementPercent(t *testing.T) {
	r := PeriodReport{ExportVolume: decimal.RequireFromString("125000"), TargetVolume: decimal.RequireFromString("300000")}
	assert.Equal(t, "41.67", r.AchievementPercent().StringFixed(2))

	r.TargetVolume = decimal.Zero
	assert.True(t, r.AchievementPercent().IsZero())
}

func TestCreateReportRequestValidate(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	req := CreateReportRequest{Title: "Q1 raporu", PeriodStart: start, PeriodEnd: start}
	assert.ErrorContains(t, req.Validate(), "after")

	req.PeriodEnd = start.AddDate(0, 3, 0)
	req.ExportVolume = decimal.NewFromInt(-1)
	assert.ErrorContains(t, req.Validate(), "negative")

	req.ExportVolume = decimal.NewFromInt(10)
	require.NoError(t, req.Validate())
	assert.Equal(t, "USD", req.Currency)
}

func TestQuoteRequestValidate(t *testing.T) {
	req := QuoteRequest{PlanCode: "pro", Users: 0}
	assert.ErrorContains(t, req.Validate(), "users")

	req = QuoteRequest{PlanCode: "pro", Users: 2, BillingCycle: "weekly"}
	assert.Error(t, req.Validate())

	req = QuoteRequest{PlanCode: "pro", Users: 2}
	require.NoError(t, req.Validate())
	assert.Equal(t, BillingMonthly, req.BillingCycle)
}

func TestContactRequestValidate(t *testing.T) {
	req := ContactRequest{Name: "Ayşe", Email: "ayse@example.com", Message: "kısa"}
	assert.ErrorContains(t, req.Validate(), "message")

	req.Message = "Fuar desteği hakkında bilgi almak istiyorum."
	assert.NoError(t, req.Validate())
}

func TestTrainingVideoRequestValidate(t *testing.T) {
	req := TrainingVideoRequest{Title: "Giriş", VideoURL: "ftp://x"}
	assert.ErrorContains(t, req.Validate(), "video_url")

	req.VideoURL = "https://video.example.com/1"
	assert.NoError(t, req.Validate())
}
