package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v83"
	"go.uber.org/zap"

	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/logger"
	"github.com/globalpath/platform/pkg/models"
	"github.com/globalpath/platform/pkg/tracing"
)

type Service struct {
	repo    RepositoryInterface
	factory GatewayFactory
	events  EventPublisher
}

func NewService(repo RepositoryInterface, factory GatewayFactory, events EventPublisher) *Service {
	return &Service{
		repo:    repo,
		factory: factory,
		events:  events,
	}
}

// CheckoutRequest starts a payment for an appointment
type CheckoutRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" binding:"required"`
	Gateway       string    `json:"gateway" binding:"required,oneof=stripe razorpay"`
}

// CheckoutResponse carries what the frontend needs to open the gateway widget
type CheckoutResponse struct {
	PaymentID    uuid.UUID `json:"payment_id"`
	Gateway      string    `json:"gateway"`
	Amount       int64     `json:"amount"`
	Currency     string    `json:"currency"`
	ClientSecret string    `json:"client_secret,omitempty"` // Stripe
	OrderID      string    `json:"order_id,omitempty"`      // Razorpay
}

// CreateCheckout creates a gateway payment for the consultation fee
func (s *Service) CreateCheckout(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "payments-service", "CreateCheckout")
	defer span.End()

	amount, currency := s.factory.Pricing(ctx)
	if amount <= 0 {
		return nil, common.NewBadRequestError("no consultation fee is configured", nil)
	}

	tracing.AddSpanAttributes(ctx, tracing.PaymentAttributes("", float64(amount))...)

	switch models.PaymentGateway(req.Gateway) {
	case models.GatewayStripe:
		return s.stripeCheckout(ctx, req.AppointmentID, amount, currency)
	case models.GatewayRazorpay:
		return s.razorpayCheckout(ctx, req.AppointmentID, amount, currency)
	default:
		return nil, common.NewBadRequestError("invalid payment gateway", nil)
	}
}

func (s *Service) stripeCheckout(ctx context.Context, appointmentID uuid.UUID, amount int64, currency string) (*CheckoutResponse, error) {
	client, err := s.factory.Stripe(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to build Stripe client", err)
	}
	if client == nil {
		return nil, common.NewNotConfiguredError("Stripe payments are not enabled")
	}

	metadata := map[string]string{
		"appointment_id": appointmentID.String(),
	}

	pi, err := client.CreatePaymentIntent(amount, currency,
		fmt.Sprintf("Consultation fee for appointment %s", appointmentID), metadata)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to create Stripe payment intent", zap.Error(err))
		return nil, common.NewInternalError("failed to start payment", err)
	}

	payment := &models.Payment{
		ID:            uuid.New(),
		AppointmentID: appointmentID,
		Gateway:       models.GatewayStripe,
		GatewayRef:    pi.ID,
		Amount:        amount,
		Currency:      currency,
		Status:        models.PaymentCreated,
	}

	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	return &CheckoutResponse{
		PaymentID:    payment.ID,
		Gateway:      string(models.GatewayStripe),
		Amount:       amount,
		Currency:     currency,
		ClientSecret: pi.ClientSecret,
	}, nil
}

func (s *Service) razorpayCheckout(ctx context.Context, appointmentID uuid.UUID, amount int64, currency string) (*CheckoutResponse, error) {
	client, err := s.factory.Razorpay(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to build Razorpay client", err)
	}
	if client == nil {
		return nil, common.NewNotConfiguredError("Razorpay payments are not enabled")
	}

	notes := map[string]interface{}{
		"appointment_id": appointmentID.String(),
	}

	order, err := client.CreateOrder(amount, currency, appointmentID.String(), notes)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to create Razorpay order", zap.Error(err))
		return nil, common.NewInternalError("failed to start payment", err)
	}

	orderID, _ := order["id"].(string)
	if orderID == "" {
		return nil, common.NewInternalError("Razorpay order has no id", nil)
	}

	payment := &models.Payment{
		ID:            uuid.New(),
		AppointmentID: appointmentID,
		Gateway:       models.GatewayRazorpay,
		GatewayRef:    orderID,
		Amount:        amount,
		Currency:      currency,
		Status:        models.PaymentCreated,
	}

	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	return &CheckoutResponse{
		PaymentID: payment.ID,
		Gateway:   string(models.GatewayRazorpay),
		Amount:    amount,
		Currency:  currency,
		OrderID:   orderID,
	}, nil
}

// VerifyRazorpayRequest is the checkout callback payload
type VerifyRazorpayRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

// VerifyRazorpayPayment validates the checkout signature and marks the
// payment succeeded. A bad signature marks it failed.
func (s *Service) VerifyRazorpayPayment(ctx context.Context, req *VerifyRazorpayRequest) (*models.Payment, error) {
	client, err := s.factory.Razorpay(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to build Razorpay client", err)
	}
	if client == nil {
		return nil, common.NewNotConfiguredError("Razorpay payments are not enabled")
	}

	payment, err := s.repo.GetPaymentByGatewayRef(ctx, models.GatewayRazorpay, req.OrderID)
	if err != nil {
		return nil, err
	}

	if !client.VerifyPaymentSignature(req.OrderID, req.PaymentID, req.Signature) {
		reason := "signature verification failed"
		if err := s.repo.UpdatePaymentStatus(ctx, payment.ID, models.PaymentFailed, &reason); err != nil {
			logger.WithContext(ctx).Error("Failed to mark payment failed", zap.Error(err))
		}
		s.events.PublishPaymentFailed(ctx, payment, reason)
		return nil, common.NewBadRequestError("payment signature verification failed", nil)
	}

	if err := s.repo.UpdatePaymentStatus(ctx, payment.ID, models.PaymentSucceeded, nil); err != nil {
		return nil, err
	}
	payment.Status = models.PaymentSucceeded

	// Refunds operate on the captured payment id, so it has to outlive the
	// verification request.
	if payment.Metadata == nil {
		payment.Metadata = map[string]interface{}{}
	}
	payment.Metadata["razorpay_payment_id"] = req.PaymentID
	if err := s.repo.UpdatePaymentMetadata(ctx, payment.ID, payment.Metadata); err != nil {
		return nil, err
	}

	s.events.PublishPaymentCompleted(ctx, payment)

	logger.WithContext(ctx).Info("Razorpay payment verified",
		zap.String("payment_id", payment.ID.String()),
		zap.String("order_id", req.OrderID),
	)

	return payment, nil
}

// HandleStripeWebhook verifies and applies a Stripe webhook event
func (s *Service) HandleStripeWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	client, err := s.factory.Stripe(ctx)
	if err != nil {
		return common.NewInternalError("failed to build Stripe client", err)
	}
	if client == nil {
		return common.NewNotConfiguredError("Stripe payments are not enabled")
	}

	event, err := client.VerifyWebhook(payload, sigHeader)
	if err != nil {
		return common.NewBadRequestError("invalid webhook signature", err)
	}

	switch event.Type {
	case "payment_intent.succeeded":
		return s.applyStripeIntent(ctx, event, models.PaymentSucceeded, nil)
	case "payment_intent.payment_failed":
		reason := "payment failed"
		return s.applyStripeIntent(ctx, event, models.PaymentFailed, &reason)
	default:
		// Unhandled event types are acknowledged, not errors.
		logger.WithContext(ctx).Debug("Ignoring Stripe event",
			zap.String("type", string(event.Type)),
		)
		return nil
	}
}

func (s *Service) applyStripeIntent(ctx context.Context, event stripe.Event, status models.PaymentStatus, reason *string) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return common.NewBadRequestError("malformed webhook payload", err)
	}

	payment, err := s.repo.GetPaymentByGatewayRef(ctx, models.GatewayStripe, intent.ID)
	if err != nil {
		return err
	}

	// Replayed webhooks for an already-settled payment are no-ops.
	if payment.Status == status {
		return nil
	}

	if err := s.repo.UpdatePaymentStatus(ctx, payment.ID, status, reason); err != nil {
		return err
	}
	payment.Status = status

	if status == models.PaymentSucceeded {
		s.events.PublishPaymentCompleted(ctx, payment)
	} else if reason != nil {
		s.events.PublishPaymentFailed(ctx, payment, *reason)
	}

	return nil
}

// RefundPayment refunds a succeeded payment on its original gateway
func (s *Service) RefundPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	payment, err := s.repo.GetPaymentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payment.Status != models.PaymentSucceeded {
		return nil, common.NewConflictError("only succeeded payments can be refunded")
	}

	switch payment.Gateway {
	case models.GatewayStripe:
		client, err := s.factory.Stripe(ctx)
		if err != nil {
			return nil, common.NewInternalError("failed to build Stripe client", err)
		}
		if client == nil {
			return nil, common.NewNotConfiguredError("Stripe payments are not enabled")
		}
		if _, err := client.CreateRefund(payment.GatewayRef, &payment.Amount, "requested_by_customer"); err != nil {
			return nil, common.NewInternalError("failed to refund payment", err)
		}
	case models.GatewayRazorpay:
		client, err := s.factory.Razorpay(ctx)
		if err != nil {
			return nil, common.NewInternalError("failed to build Razorpay client", err)
		}
		if client == nil {
			return nil, common.NewNotConfiguredError("Razorpay payments are not enabled")
		}
		// Refunds go against the captured payment, not the order.
		paymentRef, _ := payment.Metadata["razorpay_payment_id"].(string)
		if paymentRef == "" {
			paymentRef = payment.GatewayRef
		}
		if _, err := client.CreateRefund(paymentRef, payment.Amount); err != nil {
			return nil, common.NewInternalError("failed to refund payment", err)
		}
	default:
		return nil, common.NewBadRequestError("unknown payment gateway", nil)
	}

	if err := s.repo.UpdatePaymentStatus(ctx, payment.ID, models.PaymentRefunded, nil); err != nil {
		return nil, err
	}
	payment.Status = models.PaymentRefunded

	s.events.PublishPaymentRefunded(ctx, payment)

	return payment, nil
}

// GetPayment retrieves a single payment
func (s *Service) GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return s.repo.GetPaymentByID(ctx, id)
}

// ListPayments returns payments for the admin dashboard
func (s *Service) ListPayments(ctx context.Context, limit, offset int) ([]*models.Payment, int64, error) {
	return s.repo.ListPayments(ctx, limit, offset)
}
