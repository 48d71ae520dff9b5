package payments

import (
	"context"

	"go.uber.org/zap"

	"github.com/globalpath/platform/pkg/eventbus"
	"github.com/globalpath/platform/pkg/logger"
	"github.com/globalpath/platform/pkg/models"
)

// BusPublisher publishes payment events to NATS. A nil bus disables
// publishing, which keeps single-node deployments free of a broker
// dependency.
type BusPublisher struct {
	bus *eventbus.Bus
}

// NewBusPublisher wraps an event bus; bus may be nil.
func NewBusPublisher(bus *eventbus.Bus) *BusPublisher {
	return &BusPublisher{bus: bus}
}

// PublishPaymentCompleted emits payments.completed
func (p *BusPublisher) PublishPaymentCompleted(ctx context.Context, payment *models.Payment) {
	p.publish(ctx, eventbus.SubjectPaymentCompleted, eventbus.PaymentCompletedData{
		PaymentID:     payment.ID,
		AppointmentID: payment.AppointmentID,
		Gateway:       string(payment.Gateway),
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		CompletedAt:   payment.UpdatedAt,
	})
}

// PublishPaymentFailed emits payments.failed
func (p *BusPublisher) PublishPaymentFailed(ctx context.Context, payment *models.Payment, reason string) {
	p.publish(ctx, eventbus.SubjectPaymentFailed, eventbus.PaymentFailedData{
		PaymentID:     payment.ID,
		AppointmentID: payment.AppointmentID,
		Gateway:       string(payment.Gateway),
		Reason:        reason,
		FailedAt:      payment.UpdatedAt,
	})
}

// PublishPaymentRefunded emits payments.refunded
func (p *BusPublisher) PublishPaymentRefunded(ctx context.Context, payment *models.Payment) {
	p.publish(ctx, eventbus.SubjectPaymentRefunded, eventbus.PaymentRefundedData{
		PaymentID:  payment.ID,
		Gateway:    string(payment.Gateway),
		Amount:     payment.Amount,
		Currency:   payment.Currency,
		RefundedAt: payment.UpdatedAt,
	})
}

func (p *BusPublisher) publish(ctx context.Context, subject string, data interface{}) {
	if p.bus == nil {
		return
	}

	event, err := eventbus.NewEvent(subject, "payments", data)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to build payment event", zap.Error(err))
		return
	}

	if err := p.bus.Publish(ctx, subject, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish payment event",
			zap.String("subject", subject),
			zap.Error(err),
		)
	}
}
