package mailer

import (
	"context"

	"go.uber.org/zap"
)

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer returns a mailer for development environments.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

// Send implements Mailer.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	to := make([]string, 0, len(msg.To))
	for _, addr := range msg.To {
		to = append(to, addr.String())
	}
	m.logger.Info("email",
		zap.Strings("to", to),
		zap.String("subject", msg.Subject),
		zap.Int("html_bytes", len(msg.HTML)),
	)
	m.logger.Debug("email body", zap.String("text", msg.Text))
	return nil
}
