package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/akinalp/eihracat/events"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/pkg/email"
	"github.com/akinalp/eihracat/pkg/i18n"
	"github.com/akinalp/eihracat/repository"
	"github.com/akinalp/eihracat/ws"
)

// AppointmentService, firmaların danışmanlık randevu talepleri (randevu_talepleri).
//
// Geçişler:
//
//	pending  → approved | rejected | cancelled
//	approved → completed | cancelled
//
// Diğer her geçiş ErrConflict döner.
type AppointmentService interface {
	Create(ctx context.Context, companyID string, actor *models.User, req *models.CreateAppointmentRequest) (*models.AppointmentRequest, error)
	ListForCompany(ctx context.Context, companyID string, status models.AppointmentStatus) ([]models.AppointmentRequest, error)
	// Cancel, talep sahibi, firma sahibi veya admin tarafından yapılabilir.
	Cancel(ctx context.Context, companyID, appointmentID string, actor *models.User) (*models.AppointmentRequest, error)

	// ListForConsultant, danışmana atanmış ve firmalarına gelen talepler. Admin tümünü görür.
	ListForConsultant(ctx context.Context, actor *models.User, status models.AppointmentStatus) ([]models.AppointmentRequest, error)
	Respond(ctx context.Context, actor *models.User, appointmentID string, req *models.RespondAppointmentRequest) (*models.AppointmentRequest, error)
}

// AppointmentEventData, appointment_requested / appointment_updated payload'ı.
type AppointmentEventData struct {
	ID          string                   `json:"id"`
	CompanyID   string                   `json:"company_id"`
	CompanyName string                   `json:"company_name"`
	Subject     string                   `json:"subject"`
	Status      models.AppointmentStatus `json:"status"`
}

type appointmentService struct {
	repo        repository.AppointmentRepository
	companies   repository.CompanyRepository
	consultants repository.ConsultantRepository
	users       repository.UserRepository
	notifier    ws.Notifier
	mailer      email.Sender
	publisher   events.Publisher
	log         *zap.Logger
	now         clock
}

// NewAppointmentService, constructor.
func NewAppointmentService(
	repo repository.AppointmentRepository,
	companies repository.CompanyRepository,
	consultants repository.ConsultantRepository,
	users repository.UserRepository,
	notifier ws.Notifier,
	mailer email.Sender,
	publisher events.Publisher,
	log *zap.Logger,
) AppointmentService {
	return &appointmentService{
		repo:        repo,
		companies:   companies,
		consultants: consultants,
		users:       users,
		notifier:    notifier,
		mailer:      mailer,
		publisher:   publisher,
		log:         log,
		now:         systemClock,
	}
}

func (s *appointmentService) Create(ctx context.Context, companyID string, actor *models.User, req *models.CreateAppointmentRequest) (*models.AppointmentRequest, error) {
	if err := req.Validate(s.now()); err != nil {
		return nil, invalid(err)
	}

	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	appt := &models.AppointmentRequest{
		CompanyID:     companyID,
		CompanyName:   company.Name,
		RequestedBy:   actor.ID,
		Subject:       req.Subject,
		Message:       req.Message,
		PreferredDate: req.PreferredDate,
		Status:        models.AppointmentPending,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, err
	}

	consultantIDs, err := s.consultants.ListConsultantIDs(ctx, companyID)
	if err != nil {
		s.log.Warn("failed to list consultants for notification", zap.String("company_id", companyID), zap.Error(err))
	}
	s.notifier.SendToUsers(consultantIDs, ws.Event{Op: ws.OpAppointmentRequested, Data: eventData(appt)})
	s.publish(ctx, events.New(events.AppointmentRequested, appt.ID, actor.ID, eventData(appt)))
	return appt, nil
}

func (s *appointmentService) ListForCompany(ctx context.Context, companyID string, status models.AppointmentStatus) ([]models.AppointmentRequest, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status filter", pkg.ErrBadRequest)
	}
	return s.repo.List(ctx, models.AppointmentFilter{CompanyID: companyID, Status: status})
}

func (s *appointmentService) Cancel(ctx context.Context, companyID, appointmentID string, actor *models.User) (*models.AppointmentRequest, error) {
	appt, err := s.repo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.CompanyID != companyID {
		return nil, fmt.Errorf("%w: appointment", pkg.ErrNotFound)
	}

	if appt.RequestedBy != actor.ID && !actor.IsAdmin() {
		company, err := s.companies.GetByID(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if company.OwnerID == nil || *company.OwnerID != actor.ID {
			return nil, fmt.Errorf("%w: only the requester or the company owner can cancel", pkg.ErrForbidden)
		}
	}

	if err := s.transition(ctx, appt, models.AppointmentCancelled); err != nil {
		return nil, err
	}

	if appt.ConsultantID != nil {
		s.notifier.SendToUser(*appt.ConsultantID, ws.Event{Op: ws.OpAppointmentUpdated, Data: eventData(appt)})
	}
	s.publish(ctx, events.New(events.AppointmentStatusChanged, appt.ID, actor.ID, eventData(appt)))
	return appt, nil
}

func (s *appointmentService) ListForConsultant(ctx context.Context, actor *models.User, status models.AppointmentStatus) ([]models.AppointmentRequest, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status filter", pkg.ErrBadRequest)
	}
	filter := models.AppointmentFilter{Status: status}
	switch {
	case actor.IsAdmin():
	case actor.IsConsultant():
		filter.ConsultantID = actor.ID
	default:
		return nil, fmt.Errorf("%w: consultants only", pkg.ErrForbidden)
	}
	return s.repo.List(ctx, filter)
}

func (s *appointmentService) Respond(ctx context.Context, actor *models.User, appointmentID string, req *models.RespondAppointmentRequest) (*models.AppointmentRequest, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	appt, err := s.repo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		if !actor.IsConsultant() {
			return nil, fmt.Errorf("%w: consultants only", pkg.ErrForbidden)
		}
		assigned, err := s.consultants.IsAssigned(ctx, appt.CompanyID, actor.ID)
		if err != nil {
			return nil, err
		}
		if !assigned {
			return nil, fmt.Errorf("%w: you are not assigned to this company", pkg.ErrForbidden)
		}
	}

	if req.Status == models.AppointmentApproved {
		scheduled := req.ScheduledAt.UTC()
		appt.ScheduledAt = &scheduled
	}
	appt.ResponseNote = req.Note
	if appt.ConsultantID == nil && actor.IsConsultant() {
		id := actor.ID
		appt.ConsultantID = &id
	}

	if err := s.transition(ctx, appt, req.Status); err != nil {
		return nil, err
	}

	s.notifyRequester(ctx, appt)
	s.publish(ctx, events.New(events.AppointmentStatusChanged, appt.ID, actor.ID, eventData(appt)))
	return appt, nil
}

func (s *appointmentService) transition(ctx context.Context, appt *models.AppointmentRequest, next models.AppointmentStatus) error {
	if !appt.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: cannot change status from %s to %s", pkg.ErrConflict, appt.Status, next)
	}
	from := appt.Status
	appt.Status = next
	return s.repo.Update(ctx, appt, from)
}

// notifyRequester, talep sahibine WebSocket ve e-posta ile bildirir.
// E-posta hatası yanıtı etkilemez.
func (s *appointmentService) notifyRequester(ctx context.Context, appt *models.AppointmentRequest) {
	s.notifier.SendToUser(appt.RequestedBy, ws.Event{Op: ws.OpAppointmentUpdated, Data: eventData(appt)})

	requester, err := s.users.GetByID(ctx, appt.RequestedBy)
	if err != nil {
		s.log.Warn("failed to load requester", zap.String("appointment_id", appt.ID), zap.Error(err))
		return
	}
	notice := email.AppointmentNotice{
		Subject:     appt.Subject,
		Status:      string(appt.Status),
		ScheduledAt: appt.ScheduledAt,
		Note:        appt.ResponseNote,
	}
	if err := s.mailer.SendAppointmentUpdate(ctx, i18n.DefaultLanguage, requester.Email, notice); err != nil {
		s.log.Warn("failed to send appointment email", zap.String("appointment_id", appt.ID), zap.Error(err))
	}
}

func (s *appointmentService) publish(ctx context.Context, evt events.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.Warn("failed to publish event", zap.String("type", evt.Type), zap.Error(err))
	}
}

func eventData(appt *models.AppointmentRequest) AppointmentEventData {
	return AppointmentEventData{
		ID:          appt.ID,
		CompanyID:   appt.CompanyID,
		CompanyName: appt.CompanyName,
		Subject:     appt.Subject,
		Status:      appt.Status,
	}
}
