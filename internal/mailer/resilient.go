package mailer

import (
	"context"
	"strings"
	"time"

	"github.com/globalpath/platform/pkg/logger"
	"github.com/globalpath/platform/pkg/resilience"
	"go.uber.org/zap"
)

// ResilientSender wraps a Sender with circuit breaker and retry logic
type ResilientSender struct {
	client  Sender
	breaker *resilience.CircuitBreaker
	retry   resilience.RetryConfig
}

// newEmailBreaker builds the circuit breaker guarding SMTP delivery
func newEmailBreaker() *resilience.CircuitBreaker {
	breakerSettings := resilience.Settings{
		Name:             "smtp-email",
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
	}

	return resilience.NewCircuitBreaker(breakerSettings, func(ctx context.Context, err error) (interface{}, error) {
		logger.Get().Error("Email circuit breaker open, email send failed",
			zap.Error(err),
		)
		return nil, err
	})
}

// NewResilientSender creates a resilient wrapper around an existing client
func NewResilientSender(client Sender, breaker *resilience.CircuitBreaker) *ResilientSender {
	if breaker == nil {
		breaker = newEmailBreaker()
	}

	// Email retries are less aggressive since emails can be delayed
	retryConfig := resilience.ConservativeRetryConfig()
	retryConfig.MaxAttempts = 3
	retryConfig.InitialBackoff = 2 * time.Second
	retryConfig.MaxBackoff = 15 * time.Second
	retryConfig.RetryableChecker = isEmailRetryable

	return &ResilientSender{
		client:  client,
		breaker: breaker,
		retry:   retryConfig,
	}
}

// SendEmail sends a plain text email with retry and circuit breaker
func (r *ResilientSender) SendEmail(to, subject, body string) error {
	ctx := context.Background()

	_, err := resilience.RetryWithBreaker(ctx, r.retry, r.breaker, func(ctx context.Context) (interface{}, error) {
		return nil, r.client.SendEmail(to, subject, body)
	})

	if err != nil {
		logger.Get().Error("Failed to send email after retries",
			zap.Error(err),
			zap.String("to", maskEmail(to)),
			zap.String("subject", subject),
		)
		return err
	}

	logger.Get().Debug("Successfully sent email",
		zap.String("to", maskEmail(to)),
		zap.String("subject", subject),
	)

	return nil
}

// SendHTMLEmail sends an HTML email with retry and circuit breaker
func (r *ResilientSender) SendHTMLEmail(to, subject, htmlBody string) error {
	ctx := context.Background()

	_, err := resilience.RetryWithBreaker(ctx, r.retry, r.breaker, func(ctx context.Context) (interface{}, error) {
		return nil, r.client.SendHTMLEmail(to, subject, htmlBody)
	})

	if err != nil {
		logger.Get().Error("Failed to send HTML email after retries",
			zap.Error(err),
			zap.String("to", maskEmail(to)),
			zap.String("subject", subject),
		)
		return err
	}

	logger.Get().Debug("Successfully sent HTML email",
		zap.String("to", maskEmail(to)),
		zap.String("subject", subject),
	)

	return nil
}

// isEmailRetryable determines if an email error should be retried
func isEmailRetryable(err error) bool {
	if err == nil {
		return false
	}

	errMsg := strings.ToLower(err.Error())

	// Retry on SMTP transient errors
	retryableMessages := []string{
		"timeout",
		"connection refused",
		"connection reset",
		"broken pipe",
		"temporary failure",
		"421", // Service not available (temporary)
		"450", // Mailbox unavailable (temporary)
		"451", // Local error in processing
		"452", // Insufficient system storage
		"network is unreachable",
		"i/o timeout",
		"eof",
		"too many connections",
		"server closed",
	}

	for _, msg := range retryableMessages {
		if strings.Contains(errMsg, msg) {
			return true
		}
	}

	// Don't retry on permanent SMTP errors
	nonRetryableMessages := []string{
		"550", // Mailbox unavailable (permanent)
		"551", // User not local
		"552", // Exceeded storage allocation
		"553", // Mailbox name not allowed
		"554", // Transaction failed
		"invalid address",
		"invalid email",
		"mailbox not found",
		"user unknown",
		"domain not found",
		"authentication failed",
		"auth failed",
		"bad username",
		"bad password",
		"access denied",
	}

	for _, msg := range nonRetryableMessages {
		if strings.Contains(errMsg, msg) {
			return false
		}
	}

	// By default, retry network-related errors
	return true
}

// maskEmail masks an email address for logging (first char and domain only)
func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
