package mailer

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"studio-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type smtpMailer struct {
	host     string
	port     int
	from     string
	username string
	password string
	logger   *zap.Logger
}

func NewSMTPMailer(cfg utils.EmailConfig, log *zap.Logger) Mailer {
	return &smtpMailer{
		host:     cfg.Host,
		port:     cfg.Port,
		from:     cfg.From,
		username: cfg.User,
		password: cfg.Password,
		logger:   log,
	}
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), m.host)
	addr := m.host + ":" + strconv.Itoa(m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	body := buildMessage(m.from, msg, messageID, time.Now())
	if err := smtp.SendMail(addr, auth, m.from, []string{msg.To}, []byte(body)); err != nil {
		m.logger.Error("SMTP send failed", zap.String("to", msg.To), zap.Error(err))
		return "", fmt.Errorf("smtp send: %w", err)
	}

	m.logger.Info("Email sent", zap.String("to", msg.To), zap.String("message_id", messageID))
	return messageID, nil
}

func buildMessage(from string, msg Message, messageID string, date time.Time) string {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("Message-ID: " + messageID + "\r\n")
	b.WriteString("Date: " + date.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	b.WriteString("\r\n")
	return b.String()
}
