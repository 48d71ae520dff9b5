package appointments

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/globalpath/platform/internal/mailer"
	"github.com/globalpath/platform/internal/settings"
	"github.com/globalpath/platform/pkg/async"
	"github.com/globalpath/platform/pkg/logger"
	"github.com/globalpath/platform/pkg/models"
)

// MailNotifier sends appointment emails through the SMTP factory,
// honoring the notification settings resolved per send.
type MailNotifier struct {
	factory  *mailer.Factory
	resolver *settings.Resolver
}

// NewMailNotifier creates a notifier backed by the mail factory.
func NewMailNotifier(factory *mailer.Factory, resolver *settings.Resolver) *MailNotifier {
	return &MailNotifier{factory: factory, resolver: resolver}
}

func (n *MailNotifier) notifications(ctx context.Context) settings.Notifications {
	cfg, err := n.resolver.NotificationSettings(ctx)
	if err != nil {
		logger.WithContext(ctx).Warn("Falling back to environment notification settings", zap.Error(err))
		return settings.Defaults().Notifications
	}
	return cfg
}

// SendBookingConfirmation emails the visitor that the booking was received.
func (n *MailNotifier) SendBookingConfirmation(ctx context.Context, appointment *models.Appointment) {
	cfg := n.notifications(ctx)
	if !cfg.EnableEmailNotifications {
		return
	}

	to, name := appointment.Email, appointment.FullName
	details := map[string]interface{}{
		"Service":      appointment.Service,
		"Preferred at": appointment.PreferredAt.Format("Mon, 02 Jan 2006 15:04 MST"),
		"Reference":    appointment.ID.String(),
	}

	async.Go(ctx, "appointment-confirmation-email", func(ctx context.Context) {
		if err := n.factory.Client(ctx).SendAppointmentConfirmation(to, name, details); err != nil {
			logger.WithContext(ctx).Warn("Failed to send booking confirmation",
				zap.String("appointment_id", appointment.ID.String()),
				zap.Error(err),
			)
		}
	})
}

// SendStatusUpdate emails the visitor after a confirm or cancel.
func (n *MailNotifier) SendStatusUpdate(ctx context.Context, appointment *models.Appointment) {
	cfg := n.notifications(ctx)
	if !cfg.EnableEmailNotifications {
		return
	}

	to, name := appointment.Email, appointment.FullName
	subject := fmt.Sprintf("Your consultation is %s", appointment.Status)
	body := fmt.Sprintf("Hello %s,\n\nYour %s consultation scheduled for %s is now %s.",
		name, appointment.Service,
		appointment.PreferredAt.Format("Mon, 02 Jan 2006 15:04 MST"),
		appointment.Status)
	if appointment.Status == models.AppointmentCancelled && appointment.CancelReason != nil {
		body += fmt.Sprintf("\nReason: %s", *appointment.CancelReason)
	}

	async.Go(ctx, "appointment-status-email", func(ctx context.Context) {
		if err := n.factory.Sender(ctx).SendEmail(to, subject, body); err != nil {
			logger.WithContext(ctx).Warn("Failed to send status update",
				zap.String("appointment_id", appointment.ID.String()),
				zap.Error(err),
			)
		}
	})
}

// NotifyAdmin sends an internal notification to the configured back-office
// address when appointment alerts are enabled.
func (n *MailNotifier) NotifyAdmin(ctx context.Context, subject, message string) {
	cfg := n.notifications(ctx)
	if !cfg.EnableEmailNotifications || !cfg.NotifyOnAppointment || cfg.AdminEmail == "" {
		return
	}

	to := cfg.AdminEmail
	async.Go(ctx, "admin-notification-email", func(ctx context.Context) {
		if err := n.factory.Client(ctx).SendAdminNotification(to, subject, message); err != nil {
			logger.WithContext(ctx).Warn("Failed to notify admin", zap.Error(err))
		}
	})
}
