package mailer

import (
	"context"
	"errors"
	"fmt"

	"studio-booking/pkg/utils"

	"go.uber.org/zap"
)

const (
	ProviderSMTP   = "smtp"
	ProviderResend = "resend"
	ProviderLog    = "log"
)

var ErrNotConfigured = errors.New("mailer not configured")

// Message is a single HTML email
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers a message and returns the provider's message id
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// NewMailer picks the provider named in the config
func NewMailer(cfg utils.EmailConfig, log *zap.Logger) (Mailer, error) {
	logger := log.With(zap.String("mailer", cfg.Provider))

	switch cfg.Provider {
	case ProviderSMTP:
		if cfg.Host == "" || cfg.From == "" {
			return nil, fmt.Errorf("%w: SMTP_HOST and EMAIL_FROM are required", ErrNotConfigured)
		}
		return NewSMTPMailer(cfg, logger), nil
	case ProviderResend:
		if cfg.ResendAPIKey == "" || cfg.From == "" {
			return nil, fmt.Errorf("%w: RESEND_API_KEY and EMAIL_FROM are required", ErrNotConfigured)
		}
		return NewResendMailer(cfg.ResendBaseURL, cfg.ResendAPIKey, cfg.From, nil, logger), nil
	case ProviderLog, "":
		return NewLogMailer(logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown EMAIL_PROVIDER %q", ErrNotConfigured, cfg.Provider)
	}
}
