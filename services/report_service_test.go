package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/akinalp/eihracat/events"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/repository"
	"github.com/akinalp/eihracat/ws"
)

type reportFixture struct {
	env        *testEnv
	svc        ReportService
	owner      *models.User
	consultant *models.User
	company    *models.Company
	report     *models.PeriodReportWithStats
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "owner@example.com", models.PlatformRoleCompanyUser)
	consultant := env.seedUser(t, "consultant@example.com", models.PlatformRoleConsultant)
	c := env.seedCompany(t, "Ege Gıda", owner)
	require.NoError(t, env.consultants.Assign(ctx, c.ID, consultant.ID))

	projects := env.projectService()
	p, err := projects.CreateProject(ctx, c.ID, owner.ID, &models.CreateProjectRequest{Name: "Fuar", Status: models.ProjectStatusActive})
	require.NoError(t, err)
	for _, title := range []string{"Katalog", "Numune", "Vize", "Stand"} {
		_, err := projects.CreateTask(ctx, c.ID, p.ID, owner.ID, &models.CreateTaskRequest{Title: title})
		require.NoError(t, err)
	}
	_, err = projects.CreateTask(ctx, c.ID, p.ID, owner.ID, &models.CreateTaskRequest{Title: "Bitti", Status: models.TaskStatusDone})
	require.NoError(t, err)

	set := &models.TrainingSet{Title: "İhracata giriş", IsPublished: true}
	require.NoError(t, env.trainings.CreateSet(ctx, set))
	var videos []*models.TrainingVideo
	for _, title := range []string{"Gümrük", "Lojistik"} {
		v := &models.TrainingVideo{SetID: set.ID, Title: title, VideoURL: "https://video.example.com/" + title}
		require.NoError(t, env.trainings.CreateVideo(ctx, v))
		videos = append(videos, v)
	}
	require.NoError(t, env.trainings.MarkCompleted(ctx, owner.ID, videos[0].ID))

	svc := env.reportService()
	now := time.Now().UTC()
	report, err := svc.Create(ctx, c.ID, owner.ID, &models.CreateReportRequest{
		Title:        "2026 Q3",
		PeriodStart:  now.Add(-24 * time.Hour),
		PeriodEnd:    now.Add(24 * time.Hour),
		ExportVolume: decimal.RequireFromString("75000"),
		TargetVolume: decimal.RequireFromString("200000"),
	})
	require.NoError(t, err)

	return &reportFixture{env: env, svc: svc, owner: owner, consultant: consultant, company: c, report: report}
}

func TestReport_Stats(t *testing.T) {
	f := newReportFixture(t)
	st := f.report.Stats

	assert.Equal(t, models.ReportDraft, f.report.Status)
	assert.Equal(t, "USD", f.report.Currency)
	assert.Equal(t, 1, st.ProjectsTotal)
	assert.Equal(t, 1, st.ProjectsActive)
	assert.Equal(t, 5, st.TasksTotal)
	assert.Equal(t, 1, st.TasksDone)
	assert.Equal(t, 20, st.TaskCompletionPercent)
	assert.Equal(t, 50, st.TrainingProgress)
	assert.True(t, decimal.RequireFromString("37.5").Equal(st.TargetAchievement), "got %s", st.TargetAchievement)
}

func TestReport_SubmitReviewFlow(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	cid, rid := f.company.ID, f.report.ID

	// Gönderilmemiş rapor incelenemez.
	_, err := f.svc.Review(ctx, f.consultant, cid, rid, &models.ReviewReportRequest{Feedback: "İyi"})
	assert.ErrorIs(t, err, pkg.ErrConflict)

	submitted, err := f.svc.Submit(ctx, cid, rid, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportSubmitted, submitted.Status)
	assert.NotNil(t, submitted.SubmittedAt)

	title := "Değişti"
	_, err = f.svc.Update(ctx, cid, rid, &models.UpdateReportRequest{Title: &title})
	assert.ErrorIs(t, err, pkg.ErrConflict, "only drafts are editable")

	_, err = f.svc.Review(ctx, f.owner, cid, rid, &models.ReviewReportRequest{Feedback: "Kendi raporum"})
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	reviewed, err := f.svc.Review(ctx, f.consultant, cid, rid, &models.ReviewReportRequest{Feedback: "Hedefin gerisinde, Q4 için plan yapalım."})
	require.NoError(t, err)
	assert.Equal(t, models.ReportReviewed, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, f.consultant.ID, *reviewed.ReviewedBy)

	assert.ErrorIs(t, f.svc.Delete(ctx, cid, rid), pkg.ErrConflict)

	deliveries := f.env.notifier.Deliveries()
	assert.Contains(t, deliveries, delivery{UserID: f.consultant.ID, Op: ws.OpReportSubmitted})
	assert.Contains(t, deliveries, delivery{UserID: f.owner.ID, Op: ws.OpReportReviewed})
	assert.Equal(t, []string{events.ReportSubmitted, events.ReportReviewed}, f.env.events.Types())
}

func TestReport_UpdateRejectsInvertedPeriod(t *testing.T) {
	f := newReportFixture(t)
	end := f.report.PeriodStart.Add(-time.Hour)
	_, err := f.svc.Update(context.Background(), f.company.ID, f.report.ID, &models.UpdateReportRequest{PeriodEnd: &end})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestReport_Export(t *testing.T) {
	f := newReportFixture(t)

	data, filename, err := f.svc.Export(context.Background(), f.company.ID, f.report.ID)
	require.NoError(t, err)
	assert.Contains(t, filename, ".xlsx")

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{summarySheet, tasksSheet}, wb.GetSheetList())

	name, err := wb.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Ege Gıda", name)

	rows, err := wb.GetRows(tasksSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 6, "header + five tasks")
	assert.Equal(t, "Başlık", rows[0][0])
}

// snapshotReports, GetByID için sabit bir kopya döner.
type snapshotReports struct {
	repository.ReportRepository
	snapshot models.PeriodReport
}

func (r *snapshotReports) GetByID(context.Context, string, string) (*models.PeriodReport, error) {
	cp := r.snapshot
	return &cp, nil
}

func TestReport_StaleWritesConflict(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	env := f.env
	cid, rid := f.company.ID, f.report.ID

	draft, err := env.reports.GetByID(ctx, cid, rid)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, cid, rid, f.owner.ID)
	require.NoError(t, err)

	stale := NewReportService(&snapshotReports{ReportRepository: env.reports, snapshot: *draft},
		env.projects, env.tasks, env.appointments, env.trainings,
		env.consultants, env.companies, env.notifier, env.events, env.log)

	title := "Eski kopya"
	_, err = stale.Update(ctx, cid, rid, &models.UpdateReportRequest{Title: &title})
	assert.ErrorIs(t, err, pkg.ErrConflict)
	_, err = stale.Submit(ctx, cid, rid, f.owner.ID)
	assert.ErrorIs(t, err, pkg.ErrConflict)

	submitted, err := env.reports.GetByID(ctx, cid, rid)
	require.NoError(t, err)
	_, err = f.svc.Review(ctx, f.consultant, cid, rid, &models.ReviewReportRequest{Feedback: "Tamam"})
	require.NoError(t, err)

	staleReview := NewReportService(&snapshotReports{ReportRepository: env.reports, snapshot: *submitted},
		env.projects, env.tasks, env.appointments, env.trainings,
		env.consultants, env.companies, env.notifier, env.events, env.log)
	_, err = staleReview.Review(ctx, f.consultant, cid, rid, &models.ReviewReportRequest{Feedback: "İkinci inceleme"})
	assert.ErrorIs(t, err, pkg.ErrConflict)

	got, err := env.reports.GetByID(ctx, cid, rid)
	require.NoError(t, err)
	assert.Equal(t, models.ReportReviewed, got.Status)
	assert.Equal(t, "2026 Q3", got.Title)
	assert.Equal(t, "Tamam", got.ConsultantFeedback)
}

func TestReport_ExportOnlyPeriodTasks(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	// Fixture görevleri bugün oluşturuldu; 2020 dönemi hiçbirini kapsamaz.
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	past, err := f.svc.Create(ctx, f.company.ID, f.owner.ID, &models.CreateReportRequest{
		Title:        "2020 Q1",
		PeriodStart:  start,
		PeriodEnd:    start.AddDate(0, 3, 0),
		ExportVolume: decimal.RequireFromString("1000"),
		TargetVolume: decimal.RequireFromString("2000"),
	})
	require.NoError(t, err)
	assert.Zero(t, past.Stats.TasksTotal)

	data, _, err := f.svc.Export(ctx, f.company.ID, past.ID)
	require.NoError(t, err)
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(tasksSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
