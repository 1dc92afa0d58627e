package mailer

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// logMailer only records that a message would have been sent. Used in development.
type logMailer struct {
	logger *zap.Logger
}

func NewLogMailer(log *zap.Logger) Mailer {
	return &logMailer{logger: log}
}

func (m *logMailer) Send(_ context.Context, msg Message) (string, error) {
	id := uuid.NewString()
	m.logger.Info("Email suppressed (log provider)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("message_id", id))
	return id, nil
}
