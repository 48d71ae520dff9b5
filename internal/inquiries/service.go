package inquiries

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/globalpath/platform/internal/mailer"
	"github.com/globalpath/platform/pkg/logger"
	"github.com/globalpath/platform/pkg/models"
)

// Service handles contact-form business logic
type Service struct {
	repo      RepositoryInterface
	ack       Acknowledger
	forwarder Forwarder
	events    EventPublisher
	mailQueue *mailer.Queue
}

// NewService creates a new inquiries service
func NewService(repo RepositoryInterface, ack Acknowledger, forwarder Forwarder, events EventPublisher) *Service {
	return &Service{repo: repo, ack: ack, forwarder: forwarder, events: events}
}

// SetMailQueue attaches the background queue used for counselor replies.
func (s *Service) SetMailQueue(q *mailer.Queue) {
	s.mailQueue = q
}

// SubmitInquiry records a contact-form submission. The acknowledgement
// email, CRM forward and event are best-effort side effects.
func (s *Service) SubmitInquiry(ctx context.Context, req *models.SubmitInquiryRequest) (*models.Inquiry, error) {
	inquiry := &models.Inquiry{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		Subject:     req.Subject,
		Message:     req.Message,
		CountrySlug: req.CountrySlug,
		Status:      models.InquiryNew,
	}

	if err := s.repo.CreateInquiry(ctx, inquiry); err != nil {
		return nil, err
	}

	s.ack.SendAcknowledgement(ctx, inquiry)
	s.forwarder.Forward(ctx, inquiry)
	s.events.PublishInquiryReceived(ctx, inquiry)

	return inquiry, nil
}

// GetInquiry returns a submission by ID
func (s *Service) GetInquiry(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	return s.repo.GetInquiryByID(ctx, id)
}

// ListInquiries lists submissions newest first
func (s *Service) ListInquiries(ctx context.Context, limit, offset int, status *models.InquiryStatus) ([]*models.Inquiry, int64, error) {
	return s.repo.ListInquiries(ctx, limit, offset, status)
}

// ReplyRequest is an optional counselor reply delivered when an inquiry is
// marked responded.
type ReplyRequest struct {
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

// MarkResponded flags a submission as answered. When a reply is given it is
// queued for delivery to the inquirer; a full mail queue does not fail the
// status change.
func (s *Service) MarkResponded(ctx context.Context, id uuid.UUID, reply *ReplyRequest) (*models.Inquiry, error) {
	if err := s.repo.UpdateInquiryStatus(ctx, id, models.InquiryResponded); err != nil {
		return nil, err
	}

	inquiry, err := s.repo.GetInquiryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if reply != nil && s.mailQueue != nil {
		err := s.mailQueue.Enqueue(mailer.Message{
			To:      inquiry.Email,
			Subject: reply.Subject,
			Body:    reply.Message,
		})
		if err != nil {
			logger.WithContext(ctx).Warn("Failed to queue inquiry reply",
				zap.String("inquiry_id", id.String()),
				zap.Error(err),
			)
		}
	}

	return inquiry, nil
}

// Archive moves a submission out of the triage queue
func (s *Service) Archive(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	if err := s.repo.UpdateInquiryStatus(ctx, id, models.InquiryArchived); err != nil {
		return nil, err
	}
	return s.repo.GetInquiryByID(ctx, id)
}
