package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/models"
	"github.com/globalpath/platform/pkg/tracing"
)

// Service handles consultation booking business logic
type Service struct {
	repo     RepositoryInterface
	notifier Notifier
	events   EventPublisher
}

// NewService creates a new appointments service
func NewService(repo RepositoryInterface, notifier Notifier, events EventPublisher) *Service {
	return &Service{repo: repo, notifier: notifier, events: events}
}

// validTransitions maps each status to the states it may move into.
var validTransitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.AppointmentPending:   {models.AppointmentConfirmed, models.AppointmentCancelled},
	models.AppointmentConfirmed: {models.AppointmentCompleted, models.AppointmentCancelled},
}

func canTransition(from, to models.AppointmentStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// BookAppointment records a public consultation booking. The confirmation
// email and the booked event are best-effort; the row is the source of truth.
func (s *Service) BookAppointment(ctx context.Context, req *models.BookAppointmentRequest) (*models.Appointment, error) {
	ctx, span := tracing.StartSpan(ctx, "appointments-service", "BookAppointment")
	defer span.End()

	preferredAt, err := time.Parse(time.RFC3339, req.PreferredAt)
	if err != nil {
		return nil, common.NewValidationError("preferred_at must be an RFC3339 timestamp")
	}
	if preferredAt.Before(time.Now()) {
		return nil, common.NewValidationError("preferred_at must be in the future")
	}

	appointment := &models.Appointment{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		Service:     req.Service,
		CountrySlug: req.CountrySlug,
		Message:     req.Message,
		PreferredAt: preferredAt.UTC(),
		Status:      models.AppointmentPending,
	}

	if err := s.repo.CreateAppointment(ctx, appointment); err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}
	tracing.AddSpanAttributes(ctx, tracing.AppointmentAttributes(appointment.ID.String(), "")...)

	s.notifier.SendBookingConfirmation(ctx, appointment)
	s.notifier.NotifyAdmin(ctx, "New consultation booking",
		fmt.Sprintf("%s booked a %s consultation for %s.",
			appointment.FullName, appointment.Service,
			appointment.PreferredAt.Format("Mon, 02 Jan 2006 15:04 MST")))
	s.events.PublishAppointmentBooked(ctx, appointment)

	return appointment, nil
}

// GetAppointment returns a booking by ID
func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	return s.repo.GetAppointmentByID(ctx, id)
}

// ListAppointments lists bookings newest first, optionally filtered by status
func (s *Service) ListAppointments(ctx context.Context, limit, offset int, status *models.AppointmentStatus) ([]*models.Appointment, int64, error) {
	return s.repo.ListAppointments(ctx, limit, offset, status)
}

// ConfirmAppointment moves a pending booking to confirmed, optionally
// assigning a counselor, and tells the visitor.
func (s *Service) ConfirmAppointment(ctx context.Context, id uuid.UUID, assignedTo *uuid.UUID) (*models.Appointment, error) {
	appointment, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(appointment.Status, models.AppointmentConfirmed) {
		return nil, common.NewConflictError(fmt.Sprintf("cannot confirm a %s appointment", appointment.Status))
	}

	appointment.Status = models.AppointmentConfirmed
	if assignedTo != nil {
		appointment.AssignedTo = assignedTo
	}
	if err := s.repo.UpdateAppointment(ctx, appointment); err != nil {
		return nil, err
	}

	s.notifier.SendStatusUpdate(ctx, appointment)
	s.events.PublishAppointmentConfirmed(ctx, appointment)
	return appointment, nil
}

// CompleteAppointment marks a confirmed booking as completed.
func (s *Service) CompleteAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	appointment, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(appointment.Status, models.AppointmentCompleted) {
		return nil, common.NewConflictError(fmt.Sprintf("cannot complete a %s appointment", appointment.Status))
	}

	appointment.Status = models.AppointmentCompleted
	if err := s.repo.UpdateAppointment(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// CancelAppointment cancels a pending or confirmed booking with a reason.
func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID, reason string) (*models.Appointment, error) {
	appointment, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(appointment.Status, models.AppointmentCancelled) {
		return nil, common.NewConflictError(fmt.Sprintf("cannot cancel a %s appointment", appointment.Status))
	}

	appointment.Status = models.AppointmentCancelled
	appointment.CancelReason = &reason
	if err := s.repo.UpdateAppointment(ctx, appointment); err != nil {
		return nil, err
	}

	s.notifier.SendStatusUpdate(ctx, appointment)
	s.events.PublishAppointmentCancelled(ctx, appointment, reason)
	return appointment, nil
}

// AssignAppointment assigns a counselor without changing status.
func (s *Service) AssignAppointment(ctx context.Context, id, counselorID uuid.UUID) (*models.Appointment, error) {
	appointment, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status == models.AppointmentCancelled || appointment.Status == models.AppointmentCompleted {
		return nil, common.NewConflictError(fmt.Sprintf("cannot assign a %s appointment", appointment.Status))
	}

	appointment.AssignedTo = &counselorID
	if err := s.repo.UpdateAppointment(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}
