package inquiries

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/globalpath/platform/internal/mailer"
	"github.com/globalpath/platform/internal/settings"
	"github.com/globalpath/platform/pkg/async"
	"github.com/globalpath/platform/pkg/eventbus"
	"github.com/globalpath/platform/pkg/httpclient"
	"github.com/globalpath/platform/pkg/logger"
	"github.com/globalpath/platform/pkg/models"
)

// MailAcknowledger sends the inquiry auto-reply through the SMTP factory.
type MailAcknowledger struct {
	factory  *mailer.Factory
	resolver *settings.Resolver
}

// NewMailAcknowledger creates an acknowledger backed by the mail factory.
func NewMailAcknowledger(factory *mailer.Factory, resolver *settings.Resolver) *MailAcknowledger {
	return &MailAcknowledger{factory: factory, resolver: resolver}
}

// SendAcknowledgement emails the visitor that their message was received.
func (a *MailAcknowledger) SendAcknowledgement(ctx context.Context, inquiry *models.Inquiry) {
	cfg, err := a.resolver.NotificationSettings(ctx)
	if err != nil {
		cfg = settings.Defaults().Notifications
	}
	if !cfg.EnableEmailNotifications {
		return
	}

	to, name := inquiry.Email, inquiry.FullName
	async.Go(ctx, "inquiry-acknowledgement-email", func(ctx context.Context) {
		if err := a.factory.Client(ctx).SendInquiryAcknowledgement(to, name); err != nil {
			logger.WithContext(ctx).Warn("Failed to send inquiry acknowledgement",
				zap.String("inquiry_id", inquiry.ID.String()),
				zap.Error(err),
			)
		}
	})
}

// CRMForwarder pushes inquiries to the CRM webhook configured in the
// integration settings. An empty URL disables forwarding.
type CRMForwarder struct {
	resolver *settings.Resolver
	timeout  time.Duration
}

// NewCRMForwarder creates a forwarder that resolves the webhook URL per send.
func NewCRMForwarder(resolver *settings.Resolver) *CRMForwarder {
	return &CRMForwarder{resolver: resolver, timeout: 10 * time.Second}
}

type crmPayload struct {
	InquiryID   string  `json:"inquiry_id"`
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone,omitempty"`
	Subject     string  `json:"subject"`
	Message     string  `json:"message"`
	CountrySlug *string `json:"country_slug,omitempty"`
	ReceivedAt  string  `json:"received_at"`
}

// Forward posts the inquiry to the CRM webhook, retrying transient failures.
func (f *CRMForwarder) Forward(ctx context.Context, inquiry *models.Inquiry) {
	cfg, err := f.resolver.IntegrationSettings(ctx)
	if err != nil || cfg.CRMWebhookURL == "" {
		return
	}

	payload := crmPayload{
		InquiryID:   inquiry.ID.String(),
		FullName:    inquiry.FullName,
		Email:       inquiry.Email,
		Phone:       inquiry.Phone,
		Subject:     inquiry.Subject,
		Message:     inquiry.Message,
		CountrySlug: inquiry.CountrySlug,
		ReceivedAt:  inquiry.CreatedAt.UTC().Format(time.RFC3339),
	}

	webhookURL := cfg.CRMWebhookURL
	async.GoWithTimeout(ctx, "crm-inquiry-forward", f.timeout, func(ctx context.Context) {
		client := httpclient.NewClient(webhookURL, f.timeout, httpclient.WithDefaultRetry())
		if _, err := client.Post(ctx, "", payload, nil); err != nil {
			logger.WithContext(ctx).Warn("Failed to forward inquiry to CRM",
				zap.String("inquiry_id", inquiry.ID.String()),
				zap.Error(err),
			)
		}
	})
}

// BusPublisher publishes inquiry events to NATS. A nil bus disables
// publishing.
type BusPublisher struct {
	bus *eventbus.Bus
}

// NewBusPublisher wraps an event bus; bus may be nil.
func NewBusPublisher(bus *eventbus.Bus) *BusPublisher {
	return &BusPublisher{bus: bus}
}

// PublishInquiryReceived emits inquiries.received
func (p *BusPublisher) PublishInquiryReceived(ctx context.Context, inquiry *models.Inquiry) {
	if p.bus == nil {
		return
	}

	event, err := eventbus.NewEvent(eventbus.SubjectInquiryReceived, "inquiries", eventbus.InquiryReceivedData{
		InquiryID:  inquiry.ID,
		Email:      inquiry.Email,
		FullName:   inquiry.FullName,
		Subject:    inquiry.Subject,
		ReceivedAt: inquiry.CreatedAt,
	})
	if err != nil {
		logger.WithContext(ctx).Error("Failed to build inquiry event", zap.Error(err))
		return
	}

	if err := p.bus.Publish(ctx, eventbus.SubjectInquiryReceived, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish inquiry event", zap.Error(err))
	}
}
