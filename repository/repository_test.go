package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background(), database.Migrations()))
	return db
}

func seedUser(t *testing.T, db *database.DB, email string, role models.PlatformRole) *models.User {
	t.Helper()
	u := &models.User{
		Email:        email,
		PasswordHash: "hash",
		FullName:     "Test " + email,
		PlatformRole: role,
		IsActive:     true,
	}
	require.NoError(t, NewSQLUserRepo(db).Create(context.Background(), u))
	return u
}

func seedCompany(t *testing.T, db *database.DB, name string) (*models.Company, map[string]*models.CompanyRole) {
	t.Helper()
	ctx := context.Background()
	c := &models.Company{Name: name, Country: "TR", Status: models.CompanyStatusActive, ExportMarkets: []string{"DE", "FR"}}
	require.NoError(t, NewSQLCompanyRepo(db).Create(ctx, c))

	roles := map[string]*models.CompanyRole{}
	roleRepo := NewSQLRoleRepo(db)
	for _, role := range models.DefaultRoles(c.ID) {
		role := role
		require.NoError(t, roleRepo.Create(ctx, &role))
		roles[role.Name] = &role
	}
	return c, roles
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "a@example.com", models.PlatformRoleCompanyUser)

	err := NewSQLUserRepo(db).Create(context.Background(), &models.User{
		Email: "a@example.com", PasswordHash: "x", FullName: "Dup", PlatformRole: models.PlatformRoleCompanyUser,
	})
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)
}

func TestUserRepo_GetMissing(t *testing.T) {
	db := newTestDB(t)
	_, err := NewSQLUserRepo(db).GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestSessionRepo_DeleteExpired(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "s@example.com", models.PlatformRoleCompanyUser)
	repo := NewSQLSessionRepo(db)

	old := &models.Session{UserID: u.ID, RefreshToken: "old", ExpiresAt: time.Now().Add(-time.Hour)}
	fresh := &models.Session{UserID: u.ID, RefreshToken: "fresh", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, fresh))

	n, err := repo.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetByRefreshToken(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, got.ID)
}

func TestMemberRepo_PermissionsAndMemberships(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "m@example.com", models.PlatformRoleCompanyUser)
	c, roles := seedCompany(t, db, "Acme")
	members := NewSQLMemberRepo(db)

	require.NoError(t, members.Add(ctx, &models.CompanyMember{CompanyID: c.ID, UserID: u.ID, RoleID: roles[models.RoleNameManager].ID}))
	err := members.Add(ctx, &models.CompanyMember{CompanyID: c.ID, UserID: u.ID, RoleID: roles[models.RoleNameMember].ID})
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)

	perms, err := members.GetPermissions(ctx, c.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PermDefaultManager, perms)

	list, err := members.ListMemberships(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme", list[0].Company.Name)

	_, err = members.GetPermissions(ctx, c.ID, "stranger")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestConsultantRepo_Assign(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	cons := seedUser(t, db, "c@example.com", models.PlatformRoleConsultant)
	c, _ := seedCompany(t, db, "Beta")
	repo := NewSQLConsultantRepo(db)

	require.NoError(t, repo.Assign(ctx, c.ID, cons.ID))
	ok, err := repo.IsAssigned(ctx, c.ID, cons.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	companies, err := repo.ListCompanies(ctx, cons.ID)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, c.ID, companies[0].ID)

	require.NoError(t, repo.Unassign(ctx, c.ID, cons.ID))
	ok, err = repo.IsAssigned(ctx, c.ID, cons.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProjectAndTaskCounts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "p@example.com", models.PlatformRoleCompanyUser)
	c, _ := seedCompany(t, db, "Gamma")

	projects := NewSQLProjectRepo(db)
	tasks := NewSQLTaskRepo(db)

	p := &models.Project{CompanyID: c.ID, Name: "Almanya fuarı", Status: models.ProjectStatusActive, CreatedBy: u.ID}
	require.NoError(t, projects.Create(ctx, p))

	for i, status := range []models.TaskStatus{models.TaskStatusTodo, models.TaskStatusDone, models.TaskStatusDone} {
		task := &models.Task{
			ProjectID: p.ID, CompanyID: c.ID, Title: "görev", Priority: models.TaskPriorityMedium,
			Status: models.TaskStatusTodo, CreatedBy: u.ID,
		}
		task.SetStatus(status, time.Now().UTC())
		require.NoError(t, tasks.Create(ctx, task), "task %d", i)
	}

	list, err := projects.List(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].TaskTotal)
	assert.Equal(t, 2, list[0].TaskDone)
	assert.Equal(t, 67, list[0].ProgressPercent)

	counts, err := tasks.Counts(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Total)
	assert.Equal(t, 2, counts.Done)

	// Başka firmanın projesi görünmez.
	other, _ := seedCompany(t, db, "Delta")
	_, err = projects.GetByID(ctx, other.ID, p.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestTrainingProgress(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "t@example.com", models.PlatformRoleCompanyUser)
	repo := NewSQLTrainingRepo(db)

	set := &models.TrainingSet{Title: "İhracata giriş", IsPublished: true}
	require.NoError(t, repo.CreateSet(ctx, set))
	hidden := &models.TrainingSet{Title: "Taslak"}
	require.NoError(t, repo.CreateSet(ctx, hidden))

	v1 := &models.TrainingVideo{SetID: set.ID, Title: "1", VideoURL: "https://example.com/1", SortOrder: 1}
	v2 := &models.TrainingVideo{SetID: set.ID, Title: "2", VideoURL: "https://example.com/2", SortOrder: 2}
	require.NoError(t, repo.CreateVideo(ctx, v1))
	require.NoError(t, repo.CreateVideo(ctx, v2))

	require.NoError(t, repo.MarkCompleted(ctx, u.ID, v1.ID))
	require.NoError(t, repo.MarkCompleted(ctx, u.ID, v1.ID))

	summaries, err := repo.ListSetSummaries(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].VideoCount)
	assert.Equal(t, 1, summaries[0].CompletedCount)
	assert.Equal(t, 50, summaries[0].ProgressPercent)

	videos, err := repo.ListVideoProgress(ctx, u.ID, set.ID)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.True(t, videos[0].Completed)
	assert.False(t, videos[1].Completed)

	require.NoError(t, repo.UnmarkCompleted(ctx, u.ID, v1.ID))
	summaries, err = repo.ListSetSummaries(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, summaries[0].CompletedCount)

	err = repo.MarkCompleted(ctx, u.ID, "missing")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestForumReplyCounters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "f@example.com", models.PlatformRoleCompanyUser)
	repo := NewSQLForumRepo(db)

	first := &models.ForumTopic{AuthorID: u.ID, Title: "Gümrük", Body: "soru", Category: "genel"}
	pinned := &models.ForumTopic{AuthorID: u.ID, Title: "Kurallar", Body: "oku", Category: "duyuru", IsPinned: true}
	require.NoError(t, repo.CreateTopic(ctx, first))
	require.NoError(t, repo.CreateTopic(ctx, pinned))

	reply := &models.ForumReply{TopicID: first.ID, AuthorID: u.ID, Body: "cevap"}
	require.NoError(t, repo.CreateReply(ctx, reply))

	got, err := repo.GetTopic(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ReplyCount)
	assert.NotNil(t, got.LastReplyAt)
	assert.Equal(t, u.FullName, got.AuthorName)

	topics, total, err := repo.ListTopics(ctx, models.ForumTopicFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, pinned.ID, topics[0].ID)

	topics, _, err = repo.ListTopics(ctx, models.ForumTopicFilter{Query: "gümrük"})
	require.NoError(t, err)
	require.Len(t, topics, 1)

	require.NoError(t, repo.DeleteReply(ctx, first.ID, reply.ID))
	got, err = repo.GetTopic(ctx, first.ID)
	require.NoError(t, err)
	assert.Zero(t, got.ReplyCount)
	assert.Nil(t, got.LastReplyAt)
}

func TestAppointmentConsultantScope(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "a@example.com", models.PlatformRoleCompanyUser)
	cons := seedUser(t, db, "c@example.com", models.PlatformRoleConsultant)
	assigned, _ := seedCompany(t, db, "Assigned")
	other, _ := seedCompany(t, db, "Other")
	require.NoError(t, NewSQLConsultantRepo(db).Assign(ctx, assigned.ID, cons.ID))

	repo := NewSQLAppointmentRepo(db)
	when := time.Now().Add(48 * time.Hour)
	a1 := &models.AppointmentRequest{CompanyID: assigned.ID, RequestedBy: u.ID, Subject: "Fuar", PreferredDate: when}
	a2 := &models.AppointmentRequest{CompanyID: other.ID, RequestedBy: u.ID, Subject: "Lojistik", PreferredDate: when}
	require.NoError(t, repo.Create(ctx, a1))
	require.NoError(t, repo.Create(ctx, a2))

	list, err := repo.List(ctx, models.AppointmentFilter{ConsultantID: cons.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a1.ID, list[0].ID)
	assert.Equal(t, "Assigned", list[0].CompanyName)

	pending, approved, err := repo.CountOpen(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, pending)
	assert.Zero(t, approved)
}

func TestReportDecimalRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "r@example.com", models.PlatformRoleCompanyUser)
	c, _ := seedCompany(t, db, "Epsilon")
	repo := NewSQLReportRepo(db)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	report := &models.PeriodReport{
		CompanyID: c.ID, Title: "Q1", PeriodStart: start, PeriodEnd: start.AddDate(0, 3, 0),
		ExportVolume: decimal.RequireFromString("1250.50"), TargetVolume: decimal.RequireFromString("2500"),
		Currency: "USD", CreatedBy: u.ID,
	}
	require.NoError(t, repo.Create(ctx, report))

	got, err := repo.GetByID(ctx, c.ID, report.ID)
	require.NoError(t, err)
	assert.True(t, got.ExportVolume.Equal(decimal.RequireFromString("1250.5")))
	assert.Equal(t, models.ReportDraft, got.Status)
	assert.Equal(t, "50.02", got.AchievementPercent().StringFixed(2))
}

func TestPricingUpsertByCode(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewSQLPricingRepo(db)

	plan := &models.PricingPlan{
		Code: "baslangic", Name: "Başlangıç", MonthlyPrice: decimal.NewFromInt(1000),
		Currency: "TRY", IncludedUsers: 3, Features: []string{"forum", "egitim"}, IsActive: true,
	}
	created, err := repo.UpsertByCode(ctx, plan)
	require.NoError(t, err)
	assert.True(t, created)

	plan2 := &models.PricingPlan{Code: "baslangic", Name: "Başlangıç+", Currency: "TRY", IncludedUsers: 5, IsActive: true}
	created, err = repo.UpsertByCode(ctx, plan2)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, plan.ID, plan2.ID)

	got, err := repo.GetByCode(ctx, "baslangic")
	require.NoError(t, err)
	assert.Equal(t, "Başlangıç+", got.Name)
	assert.Equal(t, []string{}, got.Features)

	err = repo.Create(ctx, &models.PricingPlan{Code: "baslangic", Name: "x", Currency: "TRY", IncludedUsers: 1})
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)
}

func TestContactSetHandled(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	admin := seedUser(t, db, "admin@example.com", models.PlatformRoleAdmin)
	repo := NewSQLContactRepo(db)

	msg := &models.ContactMessage{Name: "Ali", Email: "ali@example.com", Message: "Bilgi almak istiyorum"}
	require.NoError(t, repo.Create(ctx, msg))

	n, err := repo.CountUnhandled(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, repo.SetHandled(ctx, msg.ID, true, admin.ID))
	got, err := repo.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, got.IsHandled)
	require.NotNil(t, got.HandledBy)
	assert.Equal(t, admin.ID, *got.HandledBy)

	assert.ErrorIs(t, repo.SetHandled(ctx, "missing", true, admin.ID), pkg.ErrNotFound)
}

func TestWithTxRollsBackCompany(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	err := database.WithTx(ctx, db, func(tx database.TxQuerier) error {
		c := &models.Company{Name: "Geçici", Country: "TR", Status: models.CompanyStatusActive}
		if err := NewSQLCompanyRepo(tx).Create(ctx, c); err != nil {
			return err
		}
		return pkg.ErrConflict
	})
	require.ErrorIs(t, err, pkg.ErrConflict)

	list, total, err := NewSQLCompanyRepo(db).List(ctx, models.CompanyFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}

func TestResetTokenRepo_ConsumeOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "r@example.com", models.PlatformRoleCompanyUser)
	repo := NewSQLResetTokenRepo(db)
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, &models.PasswordResetToken{UserID: u.ID, TokenHash: "live", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &models.PasswordResetToken{UserID: u.ID, TokenHash: "stale", ExpiresAt: now.Add(-time.Minute)}))

	userID, err := repo.Consume(ctx, "live", now)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)

	_, err = repo.Consume(ctx, "live", now)
	assert.ErrorIs(t, err, pkg.ErrNotFound, "second consume must fail")

	_, err = repo.Consume(ctx, "stale", now)
	assert.ErrorIs(t, err, pkg.ErrNotFound, "expired token is not consumable")

	_, err = repo.Consume(ctx, "unknown", now)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestAppointmentUpdate_StaleStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "a@example.com", models.PlatformRoleCompanyUser)
	c, _ := seedCompany(t, db, "Zeta")
	repo := NewSQLAppointmentRepo(db)

	a := &models.AppointmentRequest{CompanyID: c.ID, RequestedBy: u.ID, Subject: "Fuar", PreferredDate: time.Now().Add(48 * time.Hour)}
	require.NoError(t, repo.Create(ctx, a))

	stale, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, models.AppointmentPending, stale.Status)

	cancelled := *stale
	cancelled.Status = models.AppointmentCancelled
	require.NoError(t, repo.Update(ctx, &cancelled, models.AppointmentPending))

	stale.Status = models.AppointmentApproved
	err = repo.Update(ctx, stale, models.AppointmentPending)
	assert.ErrorIs(t, err, pkg.ErrConflict)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, got.Status)
}

func TestTaskList_ActiveWindow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "w@example.com", models.PlatformRoleCompanyUser)
	c, _ := seedCompany(t, db, "Eta")
	projects := NewSQLProjectRepo(db)
	p := &models.Project{CompanyID: c.ID, Name: "Fuar", Status: models.ProjectStatusActive, CreatedBy: u.ID}
	require.NoError(t, projects.Create(ctx, p))

	tasks := NewSQLTaskRepo(db)
	open := &models.Task{CompanyID: c.ID, ProjectID: p.ID, Title: "Açık", Status: models.TaskStatusTodo, Priority: models.TaskPriorityMedium, CreatedBy: u.ID}
	require.NoError(t, tasks.Create(ctx, open))
	doneAt := time.Now().Add(-48 * time.Hour)
	early := &models.Task{CompanyID: c.ID, ProjectID: p.ID, Title: "Erken bitti", Status: models.TaskStatusDone, Priority: models.TaskPriorityMedium, CompletedAt: &doneAt, CreatedBy: u.ID}
	require.NoError(t, tasks.Create(ctx, early))

	from, to := time.Now().Add(-24*time.Hour), time.Now().Add(24*time.Hour)
	list, err := tasks.List(ctx, c.ID, models.TaskFilter{ActiveFrom: from, ActiveTo: to})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, open.ID, list[0].ID)

	total, done, err := tasks.CountsInPeriod(ctx, c.ID, from, to)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Zero(t, done)

	list, err = tasks.List(ctx, c.ID, models.TaskFilter{ActiveTo: time.Now().Add(-time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCompanyList_MarketFilter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewSQLCompanyRepo(db)
	seedCompany(t, db, "Alman Pazarı") // DE, FR
	odd := &models.Company{Name: "Joker", Country: "TR", Status: models.CompanyStatusActive, ExportMarkets: []string{"D_"}}
	require.NoError(t, repo.Create(ctx, odd))

	list, total, err := repo.List(ctx, models.CompanyFilter{Market: "de", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Alman Pazarı", list[0].Name)

	// "_" joker karakter değil, düz metin olarak eşleşir.
	list, total, err = repo.List(ctx, models.CompanyFilter{Market: "D_", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Joker", list[0].Name)

	_, total, err = repo.List(ctx, models.CompanyFilter{Market: "%", Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}
