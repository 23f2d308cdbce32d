package mailer

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"golang.org/x/time/rate"
)

// SendGridConfig holds the relay credentials and sender identity.
type SendGridConfig struct {
	APIKey   string
	From     string
	FromName string
	// RatePerSecond throttles outbound sends; zero disables throttling.
	RatePerSecond float64
}

// SendGridMailer sends mail through the SendGrid v3 API.
type SendGridMailer struct {
	client  *sendgrid.Client
	from    *mail.Email
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewSendGridMailer creates a SendGridMailer.
func NewSendGridMailer(cfg SendGridConfig, logger *log.Logger) *SendGridMailer {
	m := &SendGridMailer{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.From),
		logger: logger,
	}
	if cfg.RatePerSecond > 0 {
		m.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	return m
}

// Send delivers msg, blocking until the relay answers. There is no retry.
func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrDelivery, err)
		}
	}

	htmlContent := strings.ReplaceAll(html.EscapeString(msg.Body), "\n", "<br>")
	message := mail.NewSingleEmail(m.from, msg.Subject, mail.NewEmail("", msg.To), msg.Body, htmlContent)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		m.logger.Error("sendgrid request failed", "to", msg.To, "err", err)
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	if response.StatusCode >= 300 {
		m.logger.Error("sendgrid rejected message", "to", msg.To, "status", response.StatusCode, "body", response.Body)
		return fmt.Errorf("%w: sendgrid status %d", ErrDelivery, response.StatusCode)
	}

	m.logger.Info("email sent", "to", msg.To, "subject", msg.Subject, "status", response.StatusCode)
	return nil
}
