package mailer

import (
	"context"

	"github.com/charmbracelet/log"
)

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	logger *log.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *log.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("email (not sent)", "to", msg.To, "subject", msg.Subject, "body", msg.Body)
	return nil
}
