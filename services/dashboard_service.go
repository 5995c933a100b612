package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/repository"
)

const dashboardListSize = 5

// DashboardService, firma ana sayfası ve admin istatistikleri.
// Bölümler errgroup ile paralel sorgulanır, ilk hata diğerlerini iptal eder.
type DashboardService interface {
	Company(ctx context.Context, companyID, userID string) (*models.CompanyDashboard, error)
	AdminStats(ctx context.Context) (*models.AdminStats, error)
}

type dashboardService struct {
	users        repository.UserRepository
	companies    repository.CompanyRepository
	projects     repository.ProjectRepository
	tasks        repository.TaskRepository
	appointments repository.AppointmentRepository
	trainings    repository.TrainingRepository
	news         repository.NewsRepository
	forum        repository.ForumRepository
	contacts     repository.ContactRepository
	now          clock
}

// NewDashboardService, constructor.
func NewDashboardService(
	users repository.UserRepository,
	companies repository.CompanyRepository,
	projects repository.ProjectRepository,
	tasks repository.TaskRepository,
	appointments repository.AppointmentRepository,
	trainings repository.TrainingRepository,
	news repository.NewsRepository,
	forum repository.ForumRepository,
	contacts repository.ContactRepository,
) DashboardService {
	return &dashboardService{
		users:        users,
		companies:    companies,
		projects:     projects,
		tasks:        tasks,
		appointments: appointments,
		trainings:    trainings,
		news:         news,
		forum:        forum,
		contacts:     contacts,
		now:          systemClock,
	}
}

func (s *dashboardService) Company(ctx context.Context, companyID, userID string) (*models.CompanyDashboard, error) {
	d := &models.CompanyDashboard{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.Projects, err = s.projects.Counts(gctx, companyID)
		return err
	})
	g.Go(func() (err error) {
		d.Tasks, err = s.tasks.Counts(gctx, companyID)
		return err
	})
	g.Go(func() error {
		mine, err := s.tasks.List(gctx, companyID, models.TaskFilter{AssigneeID: userID})
		if err != nil {
			return err
		}
		open := make([]models.Task, 0, len(mine))
		for _, t := range mine {
			if t.Status != models.TaskStatusDone {
				open = append(open, t)
			}
		}
		d.MyOpenTasks = open
		return nil
	})
	g.Go(func() error {
		from := s.now()
		list, err := s.appointments.List(gctx, models.AppointmentFilter{
			CompanyID: companyID,
			Status:    models.AppointmentApproved,
			From:      &from,
		})
		if err != nil {
			return err
		}
		if len(list) > dashboardListSize {
			list = list[:dashboardListSize]
		}
		d.UpcomingAppointments = list
		return nil
	})
	g.Go(func() error {
		completed, possible, err := s.trainings.CompanyProgress(gctx, companyID)
		if err != nil {
			return err
		}
		d.TrainingProgress = pkg.Percent(completed, possible)
		return nil
	})
	g.Go(func() (err error) {
		d.LatestNews, _, err = s.news.List(gctx, true, "", dashboardListSize, 0)
		return err
	})
	g.Go(func() (err error) {
		d.LatestTopics, _, err = s.forum.ListTopics(gctx, models.ForumTopicFilter{Limit: dashboardListSize})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	return d, nil
}

func (s *dashboardService) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	st := &models.AdminStats{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		st.UsersByRole, err = s.users.CountByRole(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.CompaniesByStatus, err = s.companies.CountByStatus(gctx)
		return err
	})
	g.Go(func() error {
		pending, approved, err := s.appointments.CountOpen(gctx, "")
		st.OpenAppointments = pending + approved
		return err
	})
	g.Go(func() (err error) {
		st.UnhandledContacts, err = s.contacts.CountUnhandled(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.PublishedNews, err = s.news.CountPublished(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.ForumTopics, err = s.forum.CountTopics(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load admin stats: %w", err)
	}
	return st, nil
}
