package appointments

import (
	"context"

	"github.com/google/uuid"

	"github.com/globalpath/platform/pkg/models"
)

// RepositoryInterface defines the interface for appointment repository operations
type RepositoryInterface interface {
	CreateAppointment(ctx context.Context, appointment *models.Appointment) error
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	ListAppointments(ctx context.Context, limit, offset int, status *models.AppointmentStatus) ([]*models.Appointment, int64, error)
	UpdateAppointment(ctx context.Context, appointment *models.Appointment) error
}

// Notifier sends appointment emails. Implementations are best-effort and
// never fail the booking.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, appointment *models.Appointment)
	SendStatusUpdate(ctx context.Context, appointment *models.Appointment)
	NotifyAdmin(ctx context.Context, subject, message string)
}

// EventPublisher publishes appointment lifecycle events
type EventPublisher interface {
	PublishAppointmentBooked(ctx context.Context, appointment *models.Appointment)
	PublishAppointmentConfirmed(ctx context.Context, appointment *models.Appointment)
	PublishAppointmentCancelled(ctx context.Context, appointment *models.Appointment, reason string)
}
