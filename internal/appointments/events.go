package appointments

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/globalpath/platform/pkg/eventbus"
	"github.com/globalpath/platform/pkg/logger"
	"github.com/globalpath/platform/pkg/models"
)

// BusPublisher publishes appointment events to NATS. A nil bus disables
// publishing.
type BusPublisher struct {
	bus *eventbus.Bus
}

// NewBusPublisher wraps an event bus; bus may be nil.
func NewBusPublisher(bus *eventbus.Bus) *BusPublisher {
	return &BusPublisher{bus: bus}
}

// PublishAppointmentBooked emits appointments.booked
func (p *BusPublisher) PublishAppointmentBooked(ctx context.Context, appointment *models.Appointment) {
	p.publish(ctx, eventbus.SubjectAppointmentBooked, eventbus.AppointmentBookedData{
		AppointmentID: appointment.ID,
		FullName:      appointment.FullName,
		Email:         appointment.Email,
		Phone:         appointment.Phone,
		Service:       appointment.Service,
		CountrySlug:   appointment.CountrySlug,
		PreferredAt:   appointment.PreferredAt,
		BookedAt:      appointment.CreatedAt,
	})
}

// PublishAppointmentConfirmed emits appointments.confirmed
func (p *BusPublisher) PublishAppointmentConfirmed(ctx context.Context, appointment *models.Appointment) {
	data := eventbus.AppointmentConfirmedData{
		AppointmentID: appointment.ID,
		Email:         appointment.Email,
		FullName:      appointment.FullName,
		ScheduledAt:   appointment.PreferredAt,
	}
	if appointment.AssignedTo != nil {
		data.AssignedTo = *appointment.AssignedTo
	}
	p.publish(ctx, eventbus.SubjectAppointmentConfirmed, data)
}

// PublishAppointmentCancelled emits appointments.cancelled
func (p *BusPublisher) PublishAppointmentCancelled(ctx context.Context, appointment *models.Appointment, reason string) {
	p.publish(ctx, eventbus.SubjectAppointmentCancelled, eventbus.AppointmentCancelledData{
		AppointmentID: appointment.ID,
		Email:         appointment.Email,
		Reason:        reason,
		CancelledAt:   time.Now().UTC(),
	})
}

func (p *BusPublisher) publish(ctx context.Context, subject string, data interface{}) {
	if p.bus == nil {
		return
	}

	event, err := eventbus.NewEvent(subject, "appointments", data)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to build appointment event", zap.Error(err))
		return
	}

	if err := p.bus.Publish(ctx, subject, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish appointment event",
			zap.String("subject", subject),
			zap.Error(err),
		)
	}
}
