package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-resource-service/internal/config"
)

// Mailer sends a single HTML message to one recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

type sendgridMailer struct {
	client *sendgrid.Client
	from   *sgmail.Email
	logger *zap.Logger
}

// NewSendgridMailer builds the production mail transport.
func NewSendgridMailer(cfg config.MailConfig, logger *zap.Logger) Mailer {
	return &sendgridMailer{
		client: sendgrid.NewSendClient(cfg.SendgridAPIKey),
		from:   sgmail.NewEmail(cfg.FromName, cfg.FromAddress),
		logger: logger,
	}
}

func (m *sendgridMailer) Send(_ context.Context, to, subject, html string) error {
	message := sgmail.NewSingleEmail(m.from, subject, sgmail.NewEmail("", to), "", html)
	resp, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d", resp.StatusCode)
	}
	m.logger.Debug("mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

type consoleMailer struct {
	logger *zap.Logger
}

// NewConsoleMailer logs messages instead of sending them; used in
// development and tests.
func NewConsoleMailer(logger *zap.Logger) Mailer {
	return &consoleMailer{logger: logger}
}

func (m *consoleMailer) Send(_ context.Context, to, subject, html string) error {
	m.logger.Info("mail (console)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("html_bytes", len(html)),
	)
	return nil
}

// ForEnv picks sendgrid when an API key is configured, console otherwise.
func ForEnv(cfg config.MailConfig, logger *zap.Logger) Mailer {
	if cfg.SendgridAPIKey != "" {
		return NewSendgridMailer(cfg, logger)
	}
	return NewConsoleMailer(logger)
}
