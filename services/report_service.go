package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/akinalp/eihracat/events"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/repository"
	"github.com/akinalp/eihracat/ws"
)

// ReportService, firmaların dönem raporları.
//
// Durumlar: draft → submitted → reviewed. Sadece taslak düzenlenebilir veya silinebilir.
// İstatistikler saklanmaz; her okumada dönem penceresi üzerinden paralel hesaplanır.
type ReportService interface {
	Create(ctx context.Context, companyID, actorID string, req *models.CreateReportRequest) (*models.PeriodReportWithStats, error)
	List(ctx context.Context, companyID string) ([]models.PeriodReport, error)
	Get(ctx context.Context, companyID, reportID string) (*models.PeriodReportWithStats, error)
	Update(ctx context.Context, companyID, reportID string, req *models.UpdateReportRequest) (*models.PeriodReportWithStats, error)
	Delete(ctx context.Context, companyID, reportID string) error
	Submit(ctx context.Context, companyID, reportID, actorID string) (*models.PeriodReport, error)
	// Review, atanmış danışman veya admin tarafından yapılır.
	Review(ctx context.Context, actor *models.User, companyID, reportID string, req *models.ReviewReportRequest) (*models.PeriodReport, error)
	// Export, özet ve görevler sayfalarından oluşan XLSX üretir.
	Export(ctx context.Context, companyID, reportID string) ([]byte, string, error)
}

// ReportEventData, report_submitted / report_reviewed payload'ı.
type ReportEventData struct {
	ID        string              `json:"id"`
	CompanyID string              `json:"company_id"`
	Title     string              `json:"title"`
	Status    models.ReportStatus `json:"status"`
}

type reportService struct {
	reports      repository.ReportRepository
	projects     repository.ProjectRepository
	tasks        repository.TaskRepository
	appointments repository.AppointmentRepository
	trainings    repository.TrainingRepository
	consultants  repository.ConsultantRepository
	companies    repository.CompanyRepository
	notifier     ws.Notifier
	publisher    events.Publisher
	log          *zap.Logger
	now          clock
}

// NewReportService, constructor.
func NewReportService(
	reports repository.ReportRepository,
	projects repository.ProjectRepository,
	tasks repository.TaskRepository,
	appointments repository.AppointmentRepository,
	trainings repository.TrainingRepository,
	consultants repository.ConsultantRepository,
	companies repository.CompanyRepository,
	notifier ws.Notifier,
	publisher events.Publisher,
	log *zap.Logger,
) ReportService {
	return &reportService{
		reports:      reports,
		projects:     projects,
		tasks:        tasks,
		appointments: appointments,
		trainings:    trainings,
		consultants:  consultants,
		companies:    companies,
		notifier:     notifier,
		publisher:    publisher,
		log:          log,
		now:          systemClock,
	}
}

func (s *reportService) Create(ctx context.Context, companyID, actorID string, req *models.CreateReportRequest) (*models.PeriodReportWithStats, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	report := &models.PeriodReport{
		CompanyID:    companyID,
		Title:        req.Title,
		PeriodStart:  req.PeriodStart,
		PeriodEnd:    req.PeriodEnd,
		ExportVolume: req.ExportVolume,
		TargetVolume: req.TargetVolume,
		Currency:     req.Currency,
		Notes:        req.Notes,
		Status:       models.ReportDraft,
		CreatedBy:    actorID,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return s.withStats(ctx, report)
}

func (s *reportService) List(ctx context.Context, companyID string) ([]models.PeriodReport, error) {
	return s.reports.ListByCompany(ctx, companyID)
}

func (s *reportService) Get(ctx context.Context, companyID, reportID string) (*models.PeriodReportWithStats, error) {
	report, err := s.reports.GetByID(ctx, companyID, reportID)
	if err != nil {
		return nil, err
	}
	return s.withStats(ctx, report)
}

func (s *reportService) Update(ctx context.Context, companyID, reportID string, req *models.UpdateReportRequest) (*models.PeriodReportWithStats, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	report, err := s.reports.GetByID(ctx, companyID, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportDraft {
		return nil, fmt.Errorf("%w: only draft reports can be edited", pkg.ErrConflict)
	}

	if req.Title != nil {
		report.Title = *req.Title
	}
	if req.PeriodStart != nil {
		report.PeriodStart = *req.PeriodStart
	}
	if req.PeriodEnd != nil {
		report.PeriodEnd = *req.PeriodEnd
	}
	if req.ExportVolume != nil {
		report.ExportVolume = *req.ExportVolume
	}
	if req.TargetVolume != nil {
		report.TargetVolume = *req.TargetVolume
	}
	if req.Notes != nil {
		report.Notes = *req.Notes
	}
	if !report.PeriodEnd.After(report.PeriodStart) {
		return nil, fmt.Errorf("%w: period_end must be after period_start", pkg.ErrBadRequest)
	}

	if err := s.reports.Update(ctx, report, models.ReportDraft); err != nil {
		return nil, err
	}
	return s.withStats(ctx, report)
}

func (s *reportService) Delete(ctx context.Context, companyID, reportID string) error {
	report, err := s.reports.GetByID(ctx, companyID, reportID)
	if err != nil {
		return err
	}
	if report.Status != models.ReportDraft {
		return fmt.Errorf("%w: only draft reports can be deleted", pkg.ErrConflict)
	}
	return s.reports.Delete(ctx, companyID, reportID)
}

func (s *reportService) Submit(ctx context.Context, companyID, reportID, actorID string) (*models.PeriodReport, error) {
	report, err := s.reports.GetByID(ctx, companyID, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportDraft {
		return nil, fmt.Errorf("%w: report is already %s", pkg.ErrConflict, report.Status)
	}

	now := s.now()
	report.Status = models.ReportSubmitted
	report.SubmittedAt = &now
	if err := s.reports.Update(ctx, report, models.ReportDraft); err != nil {
		return nil, err
	}

	data := reportEventData(report)
	consultantIDs, err := s.consultants.ListConsultantIDs(ctx, companyID)
	if err != nil {
		s.log.Warn("failed to list consultants for notification", zap.String("company_id", companyID), zap.Error(err))
	}
	s.notifier.SendToUsers(consultantIDs, ws.Event{Op: ws.OpReportSubmitted, Data: data})
	s.publish(ctx, events.New(events.ReportSubmitted, report.ID, actorID, data))
	return report, nil
}

func (s *reportService) Review(ctx context.Context, actor *models.User, companyID, reportID string, req *models.ReviewReportRequest) (*models.PeriodReport, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	if !actor.IsAdmin() {
		if !actor.IsConsultant() {
			return nil, fmt.Errorf("%w: consultants only", pkg.ErrForbidden)
		}
		assigned, err := s.consultants.IsAssigned(ctx, companyID, actor.ID)
		if err != nil {
			return nil, err
		}
		if !assigned {
			return nil, fmt.Errorf("%w: you are not assigned to this company", pkg.ErrForbidden)
		}
	}

	report, err := s.reports.GetByID(ctx, companyID, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportSubmitted {
		return nil, fmt.Errorf("%w: only submitted reports can be reviewed", pkg.ErrConflict)
	}

	now := s.now()
	reviewer := actor.ID
	report.Status = models.ReportReviewed
	report.ConsultantFeedback = req.Feedback
	report.ReviewedBy = &reviewer
	report.ReviewedAt = &now
	if err := s.reports.Update(ctx, report, models.ReportSubmitted); err != nil {
		return nil, err
	}

	data := reportEventData(report)
	s.notifier.SendToUser(report.CreatedBy, ws.Event{Op: ws.OpReportReviewed, Data: data})
	s.publish(ctx, events.New(events.ReportReviewed, report.ID, actor.ID, data))
	return report, nil
}

// withStats, dönem istatistiklerini paralel sorgularla hesaplar.
// Bir sorgu hata verirse diğerlerinin context'i iptal edilir.
func (s *reportService) withStats(ctx context.Context, report *models.PeriodReport) (*models.PeriodReportWithStats, error) {
	var stats models.ReportStats
	from, to := report.PeriodStart, report.PeriodEnd

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := s.projects.CountsUntil(gctx, report.CompanyID, to)
		if err != nil {
			return err
		}
		stats.ProjectsTotal = counts.Total
		stats.ProjectsActive = counts.Active
		stats.ProjectsCompleted = counts.Completed
		return nil
	})
	g.Go(func() error {
		total, done, err := s.tasks.CountsInPeriod(gctx, report.CompanyID, from, to)
		if err != nil {
			return err
		}
		stats.TasksTotal = total
		stats.TasksDone = done
		stats.TaskCompletionPercent = pkg.Percent(done, total)
		return nil
	})
	g.Go(func() error {
		total, completed, err := s.appointments.CountsInPeriod(gctx, report.CompanyID, from, to)
		if err != nil {
			return err
		}
		stats.AppointmentsTotal = total
		stats.AppointmentsCompleted = completed
		return nil
	})
	g.Go(func() error {
		completed, possible, err := s.trainings.CompanyProgress(gctx, report.CompanyID)
		if err != nil {
			return err
		}
		stats.TrainingProgress = pkg.Percent(completed, possible)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute report stats: %w", err)
	}

	stats.TargetAchievement = report.AchievementPercent()
	return &models.PeriodReportWithStats{PeriodReport: *report, Stats: stats}, nil
}

func (s *reportService) Export(ctx context.Context, companyID, reportID string) ([]byte, string, error) {
	report, err := s.Get(ctx, companyID, reportID)
	if err != nil {
		return nil, "", err
	}
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, "", err
	}
	// Görevler sayfası istatistiklerle aynı kümeyi gösterir: dönemde açık olanlar.
	tasks, err := s.tasks.List(ctx, companyID, models.TaskFilter{
		ActiveFrom: report.PeriodStart,
		ActiveTo:   report.PeriodEnd,
	})
	if err != nil {
		return nil, "", err
	}

	data, err := buildReportWorkbook(company.Name, report, tasks)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("rapor-%s-%s.xlsx", report.PeriodStart.Format("2006-01-02"), report.PeriodEnd.Format("2006-01-02"))
	return data, filename, nil
}

const (
	summarySheet = "Özet"
	tasksSheet   = "Görevler"
	sheetDate    = "02.01.2006"
)

func buildReportWorkbook(companyName string, report *models.PeriodReportWithStats, tasks []models.Task) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	st := report.Stats
	rows := [][]any{
		{"Firma", companyName},
		{"Rapor", report.Title},
		{"Dönem", report.PeriodStart.Format(sheetDate) + " - " + report.PeriodEnd.Format(sheetDate)},
		{"Durum", string(report.Status)},
		{"Para birimi", report.Currency},
		{"İhracat hacmi", decimalCell(report.ExportVolume)},
		{"Hedef hacim", decimalCell(report.TargetVolume)},
		{"Hedef gerçekleşme (%)", decimalCell(st.TargetAchievement)},
		{"Projeler (toplam)", st.ProjectsTotal},
		{"Projeler (aktif)", st.ProjectsActive},
		{"Projeler (tamamlanan)", st.ProjectsCompleted},
		{"Görevler (toplam)", st.TasksTotal},
		{"Görevler (tamamlanan)", st.TasksDone},
		{"Görev tamamlama (%)", st.TaskCompletionPercent},
		{"Randevular (toplam)", st.AppointmentsTotal},
		{"Randevular (tamamlanan)", st.AppointmentsCompleted},
		{"Eğitim ilerlemesi (%)", st.TrainingProgress},
		{"Notlar", report.Notes},
		{"Danışman değerlendirmesi", report.ConsultantFeedback},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(rows)), bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 28); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 48); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(tasksSheet); err != nil {
		return nil, fmt.Errorf("failed to create tasks sheet: %w", err)
	}
	header := []any{"Başlık", "Durum", "Öncelik", "Teslim tarihi", "Tamamlanma"}
	if err := f.SetSheetRow(tasksSheet, "A1", &header); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(tasksSheet, "A1", "E1", bold); err != nil {
		return nil, err
	}
	for i, t := range tasks {
		row := []any{t.Title, string(t.Status), string(t.Priority), formatDate(t.DueDate), formatDate(t.CompletedAt)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(tasksSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write task row: %w", err)
		}
	}
	if err := f.SetColWidth(tasksSheet, "A", "A", 40); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// decimalCell, decimal değeri Excel'de sayı olarak görünecek şekilde float'a çevirir.
func decimalCell(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(sheetDate)
}

func (s *reportService) publish(ctx context.Context, evt events.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.Warn("failed to publish event", zap.String("type", evt.Type), zap.Error(err))
	}
}

func reportEventData(r *models.PeriodReport) ReportEventData {
	return ReportEventData{ID: r.ID, CompanyID: r.CompanyID, Title: r.Title, Status: r.Status}
}
