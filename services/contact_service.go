package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/akinalp/eihracat/events"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/pkg/email"
	"github.com/akinalp/eihracat/repository"
)

// ContactService, public iletişim formu ve admin gelen kutusu.
type ContactService interface {
	// Submit, mesajı kaydeder ve admin kutusuna bildirir.
	// Mail ve event hataları loglanır, istemciye dönmez.
	Submit(ctx context.Context, req *models.ContactRequest, ip string) (*models.ContactMessage, error)
	List(ctx context.Context, handled *bool, limit, offset int) ([]models.ContactMessage, int, error)
	SetHandled(ctx context.Context, actorID, id string, req *models.UpdateContactRequest) (*models.ContactMessage, error)
}

type contactService struct {
	repo       repository.ContactRepository
	mailer     email.Sender
	adminInbox string
	publisher  events.Publisher
	audit      AuditService
	log        *zap.Logger
}

// NewContactService, constructor. adminInbox boşsa bildirim maili gönderilmez.
func NewContactService(
	repo repository.ContactRepository,
	mailer email.Sender,
	adminInbox string,
	publisher events.Publisher,
	audit AuditService,
	log *zap.Logger,
) ContactService {
	return &contactService{
		repo:       repo,
		mailer:     mailer,
		adminInbox: adminInbox,
		publisher:  publisher,
		audit:      audit,
		log:        log,
	}
}

// ContactEventData, contact.submitted payload'ı.
type ContactEventData struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
}

func (s *contactService) Submit(ctx context.Context, req *models.ContactRequest, ip string) (*models.ContactMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	msg := &models.ContactMessage{
		Name:      req.Name,
		Email:     req.Email,
		Company:   req.Company,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		IPAddress: ip,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	if s.adminInbox != "" {
		notice := email.ContactNotice{
			Name:    msg.Name,
			Email:   msg.Email,
			Company: msg.Company,
			Phone:   msg.Phone,
			Subject: msg.Subject,
			Message: msg.Message,
		}
		if err := s.mailer.SendContactNotification(ctx, s.adminInbox, notice); err != nil {
			s.log.Warn("failed to send contact notification", zap.String("contact_id", msg.ID), zap.Error(err))
		}
	}

	evt := events.New(events.ContactSubmitted, msg.ID, "", ContactEventData{ID: msg.ID, Email: msg.Email, Subject: msg.Subject})
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.Warn("failed to publish event", zap.String("type", evt.Type), zap.Error(err))
	}
	return msg, nil
}

func (s *contactService) List(ctx context.Context, handled *bool, limit, offset int) ([]models.ContactMessage, int, error) {
	if limit <= 0 || limit > pkg.MaxPageLimit {
		limit = pkg.DefaultPageLimit
	}
	return s.repo.List(ctx, handled, limit, offset)
}

func (s *contactService) SetHandled(ctx context.Context, actorID, id string, req *models.UpdateContactRequest) (*models.ContactMessage, error) {
	if err := s.repo.SetHandled(ctx, id, req.IsHandled, actorID); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorID, models.AuditUpdate, "contact_message", id, req)
	return s.repo.GetByID(ctx, id)
}
