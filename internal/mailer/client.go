package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/globalpath/platform/internal/settings"
)

// Sender is the outbound email contract used by services and the queue.
type Sender interface {
	SendEmail(to, subject, body string) error
	SendHTMLEmail(to, subject, htmlBody string) error
}

// Client handles email operations over SMTP
type Client struct {
	smtpHost     string
	smtpPort     int
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	replyTo      string
}

// NewClient creates a new email client from resolved email settings
func NewClient(cfg settings.Email) *Client {
	return &Client{
		smtpHost:     cfg.SMTPHost,
		smtpPort:     cfg.SMTPPort,
		smtpUsername: cfg.SMTPUsername,
		smtpPassword: cfg.SMTPPassword,
		fromEmail:    cfg.FromEmail,
		fromName:     cfg.FromName,
		replyTo:      cfg.ReplyTo,
	}
}

// SendEmail sends a plain text email
func (c *Client) SendEmail(to, subject, body string) error {
	msg := []byte(fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"%s"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", c.from(), to, c.replyToHeader(), subject, body))

	if err := smtp.SendMail(c.addr(), c.auth(), c.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendHTMLEmail sends an HTML email
func (c *Client) SendHTMLEmail(to, subject, htmlBody string) error {
	msg := []byte(fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"%s"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", c.from(), to, c.replyToHeader(), subject, htmlBody))

	if err := smtp.SendMail(c.addr(), c.auth(), c.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send HTML email: %w", err)
	}

	return nil
}

func (c *Client) from() string {
	return fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail)
}

func (c *Client) replyToHeader() string {
	if c.replyTo == "" {
		return ""
	}
	return fmt.Sprintf("Reply-To: %s\r\n", c.replyTo)
}

func (c *Client) addr() string {
	return fmt.Sprintf("%s:%d", c.smtpHost, c.smtpPort)
}

func (c *Client) auth() smtp.Auth {
	if c.smtpUsername == "" {
		return nil
	}
	return smtp.PlainAuth("", c.smtpUsername, c.smtpPassword, c.smtpHost)
}
