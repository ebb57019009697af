// Package notify sends customer and vendor emails triggered by order
// events. Sending is best effort everywhere: a failed notification is
// logged and counted, never returned to the operation that caused it.
package notify

import (
	"context"

	"grocermart/internal/util"

	"go.uber.org/zap"
)

// Mailer delivers a single email. Implementations must be safe for
// concurrent use by the notification worker.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes emails to the log instead of sending them. Used in
// development and as the default until an SMTP-backed Mailer is
// configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a mailer that logs instead of sending.
func NewLogMailer() *LogMailer {
	return &LogMailer{logger: util.GetLogger()}
}

// Send logs the email and reports success.
func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.Info("Email (simulated)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}
