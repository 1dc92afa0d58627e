package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type resendMailer struct {
	baseURL string
	apiKey  string
	from    string
	client  *http.Client
	logger  *zap.Logger
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// NewResendMailer posts to the Resend HTTP API. A nil client gets a 10s timeout default.
func NewResendMailer(baseURL, apiKey, from string, client *http.Client, log *zap.Logger) Mailer {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &resendMailer{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		from:    from,
		client:  client,
		logger:  log,
	}
}

func (m *resendMailer) Send(ctx context.Context, msg Message) (string, error) {
	payload, err := json.Marshal(resendRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("encode resend request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build resend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		m.logger.Error("Resend request failed", zap.String("to", msg.To), zap.Error(err))
		return "", fmt.Errorf("resend request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		m.logger.Error("Resend response unreadable", zap.String("to", msg.To), zap.Int("status", resp.StatusCode), zap.Error(err))
		return "", fmt.Errorf("read resend response: %w", err)
	}

	// error bodies are not always JSON; the status text stands in for them
	var result resendResponse
	decodeErr := json.Unmarshal(body, &result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reason := result.Message
		if reason == "" {
			reason = http.StatusText(resp.StatusCode)
		}
		m.logger.Error("Resend rejected email",
			zap.String("to", msg.To),
			zap.Int("status", resp.StatusCode),
			zap.String("reason", reason))
		return "", fmt.Errorf("resend status %d: %s", resp.StatusCode, reason)
	}

	if decodeErr != nil {
		m.logger.Error("Resend response malformed", zap.String("to", msg.To), zap.Error(decodeErr))
		return "", fmt.Errorf("decode resend response: %w", decodeErr)
	}
	if result.ID == "" {
		m.logger.Error("Resend accepted email without an id", zap.String("to", msg.To))
		return "", errors.New("resend response missing message id")
	}

	m.logger.Info("Email sent", zap.String("to", msg.To), zap.String("message_id", result.ID))
	return result.ID, nil
}
