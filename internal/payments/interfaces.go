package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v83"

	"github.com/globalpath/platform/pkg/models"
)

// RepositoryInterface defines the interface for payments repository operations
type RepositoryInterface interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPaymentByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	GetPaymentByGatewayRef(ctx context.Context, gateway models.PaymentGateway, ref string) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus, failureReason *string) error
	UpdatePaymentMetadata(ctx context.Context, id uuid.UUID, metadata map[string]interface{}) error
	ListPayments(ctx context.Context, limit, offset int) ([]*models.Payment, int64, error)
}

// StripeClientInterface defines the interface for Stripe operations
type StripeClientInterface interface {
	CreatePaymentIntent(amount int64, currency, description string, metadata map[string]string) (*stripe.PaymentIntent, error)
	GetPaymentIntent(paymentIntentID string) (*stripe.PaymentIntent, error)
	CancelPaymentIntent(paymentIntentID string) (*stripe.PaymentIntent, error)
	CreateRefund(paymentIntentID string, amount *int64, reason string) (*stripe.Refund, error)
	VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error)
}

// RazorpayClientInterface defines the interface for Razorpay operations
type RazorpayClientInterface interface {
	CreateOrder(amount int64, currency, receipt string, notes map[string]interface{}) (map[string]interface{}, error)
	FetchPayment(paymentID string) (map[string]interface{}, error)
	CreateRefund(paymentID string, amount int64) (map[string]interface{}, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
}

// GatewayFactory builds gateway clients from current settings
type GatewayFactory interface {
	Stripe(ctx context.Context) (StripeClientInterface, error)
	Razorpay(ctx context.Context) (RazorpayClientInterface, error)
	Pricing(ctx context.Context) (int64, string)
}

// EventPublisher publishes payment lifecycle events to the bus
type EventPublisher interface {
	PublishPaymentCompleted(ctx context.Context, payment *models.Payment)
	PublishPaymentFailed(ctx context.Context, payment *models.Payment, reason string)
	PublishPaymentRefunded(ctx context.Context, payment *models.Payment)
}
