package notifications

import (
	"context"

	"github.com/ghbuys/marketplace-backend/pkg/logger"
)

// Email is a rendered message, ready for whatever transport delivers it.
type Email struct {
	To      []string `json:"to"`
	CC      []string `json:"cc,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Sender delivers rendered emails.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// LogSender writes outgoing mail to the log instead of delivering it. Used in
// dev and as the default until an SMTP/SES transport is configured.
type LogSender struct {
	logger *logger.Logger
}

// NewLogSender builds a log-only mail transport.
func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{logger: log}
}

func (s *LogSender) Send(ctx context.Context, email Email) error {
	if s.logger == nil {
		return nil
	}
	logCtx := s.logger.WithFields(ctx, map[string]any{
		"mail_to":      email.To,
		"mail_subject": email.Subject,
	})
	s.logger.Info(logCtx, "outgoing email")
	return nil
}
