package payments

import (
	"context"

	"github.com/globalpath/platform/internal/settings"
	"github.com/globalpath/platform/pkg/logger"
	"go.uber.org/zap"
)

// Factory builds gateway clients from the current payment settings. A nil
// client with nil error means the gateway is disabled or missing credentials;
// callers surface that as 503 rather than attempting a charge.
type Factory struct {
	resolver *settings.Resolver
}

// NewGatewayFactory creates a payments factory bound to the settings resolver
func NewGatewayFactory(resolver *settings.Resolver) *Factory {
	return &Factory{resolver: resolver}
}

// Stripe builds a Stripe client from current settings, or nil when Stripe is
// disabled or has no secret key.
func (f *Factory) Stripe(ctx context.Context) (StripeClientInterface, error) {
	cfg := f.paymentSettings(ctx)

	if !cfg.EnableStripe || cfg.StripeSecretKey == "" {
		return nil, nil
	}

	return NewStripeClient(cfg.StripeSecretKey, cfg.StripeWebhookSecret), nil
}

// Razorpay builds a Razorpay client from current settings, or nil when
// Razorpay is disabled or has incomplete credentials.
func (f *Factory) Razorpay(ctx context.Context) (RazorpayClientInterface, error) {
	cfg := f.paymentSettings(ctx)

	if !cfg.EnableRazorpay || cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
		return nil, nil
	}

	return NewRazorpayClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret), nil
}

// Pricing returns the configured consultation fee in minor units with its
// currency.
func (f *Factory) Pricing(ctx context.Context) (int64, string) {
	cfg := f.paymentSettings(ctx)
	return int64(cfg.ConsultationFee * 100), cfg.Currency
}

// paymentSettings resolves settings, degrading to environment configuration
// when the store is unreachable.
func (f *Factory) paymentSettings(ctx context.Context) settings.Payments {
	cfg, err := f.resolver.PaymentSettings(ctx)
	if err != nil {
		logger.Get().Warn("Payment settings unavailable, using environment configuration",
			zap.Error(err),
		)
		cfg = settings.Defaults().Payments
	}
	return cfg
}
