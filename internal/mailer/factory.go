package mailer

import (
	"context"

	"github.com/globalpath/platform/internal/settings"
	"github.com/globalpath/platform/pkg/logger"
	"github.com/globalpath/platform/pkg/resilience"
	"go.uber.org/zap"
)

// Factory builds email clients from resolved settings. Unlike the payment and
// storage factories it always produces a working client: when the settings
// store is unreachable it falls back to environment-seeded defaults so that
// transactional email keeps flowing.
type Factory struct {
	resolver *settings.Resolver
	breaker  *resilience.CircuitBreaker
}

// NewFactory creates a mailer factory bound to the settings resolver. The
// circuit breaker is created up front and shared by every sender the factory
// hands out, so concurrent rebuilds never race on it and settings changes do
// not reset its failure counts.
func NewFactory(resolver *settings.Resolver) *Factory {
	return &Factory{
		resolver: resolver,
		breaker:  newEmailBreaker(),
	}
}

// Client builds a plain SMTP client from the current email settings
func (f *Factory) Client(ctx context.Context) *Client {
	cfg, err := f.resolver.EmailSettings(ctx)
	if err != nil {
		logger.Get().Warn("Email settings unavailable, using environment configuration",
			zap.Error(err),
		)
		cfg = settings.Defaults().Email
	}

	return NewClient(cfg)
}

// Sender builds a resilient sender from the current email settings, wired to
// the factory's shared circuit breaker.
func (f *Factory) Sender(ctx context.Context) Sender {
	return NewResilientSender(f.Client(ctx), f.breaker)
}

// QueueSender returns a long-lived Sender for the background queue. It
// re-resolves email settings on every delivery so queued mail picks up
// configuration changes made after enqueue.
func (f *Factory) QueueSender() Sender {
	return &deferredSender{factory: f}
}

type deferredSender struct {
	factory *Factory
}

func (d *deferredSender) SendEmail(to, subject, body string) error {
	return d.factory.Sender(context.Background()).SendEmail(to, subject, body)
}

func (d *deferredSender) SendHTMLEmail(to, subject, htmlBody string) error {
	return d.factory.Sender(context.Background()).SendHTMLEmail(to, subject, htmlBody)
}
