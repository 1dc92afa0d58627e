package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"studio-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResendMailer_Send(t *testing.T) {
	var got resendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_123"}`))
	}))
	defer srv.Close()

	m := NewResendMailer(srv.URL+"/", "re_test", "desk@studio.test", srv.Client(), zap.NewNop())
	id, err := m.Send(context.Background(), Message{To: "client@x.test", Subject: "Hello", HTML: "<p>hi</p>"})

	require.NoError(t, err)
	assert.Equal(t, "msg_123", id)
	assert.Equal(t, "desk@studio.test", got.From)
	assert.Equal(t, []string{"client@x.test"}, got.To)
	assert.Equal(t, "<p>hi</p>", got.HTML)
}

func TestResendMailer_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer srv.Close()

	m := NewResendMailer(srv.URL, "re_test", "bad", srv.Client(), zap.NewNop())
	id, err := m.Send(context.Background(), Message{To: "client@x.test"})

	require.Error(t, err)
	assert.Empty(t, id)
	assert.Contains(t, err.Error(), "invalid from address")
}

func TestResendMailer_AcceptedWithoutUsableID(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "empty body", body: ``, want: "decode resend response"},
		{name: "not json", body: `<html>ok</html>`, want: "decode resend response"},
		{name: "missing id", body: `{"message":"queued"}`, want: "missing message id"},
		{name: "blank id", body: `{"id":""}`, want: "missing message id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			m := NewResendMailer(srv.URL, "re_test", "desk@studio.test", srv.Client(), zap.NewNop())
			id, err := m.Send(context.Background(), Message{To: "client@x.test"})

			require.Error(t, err)
			assert.Empty(t, id)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResendMailer_TruncatedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "64")
		_, _ = w.Write([]byte(`{"id":"msg`))
	}))
	defer srv.Close()

	m := NewResendMailer(srv.URL, "re_test", "desk@studio.test", srv.Client(), zap.NewNop())
	id, err := m.Send(context.Background(), Message{To: "client@x.test"})

	require.Error(t, err)
	assert.Empty(t, id)
	assert.Contains(t, err.Error(), "read resend response")
}

func TestNewMailer_Providers(t *testing.T) {
	m, err := NewMailer(utils.EmailConfig{Provider: ProviderLog}, zap.NewNop())
	require.NoError(t, err)
	id, err := m.Send(context.Background(), Message{To: "a@b.test", Subject: "s"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = NewMailer(utils.EmailConfig{Provider: ProviderResend}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewMailer(utils.EmailConfig{Provider: ProviderSMTP, From: "x@y.test"}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewMailer(utils.EmailConfig{Provider: "pigeon"}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestVerificationMessage_EscapesName(t *testing.T) {
	msg, err := VerificationMessage("a@b.test", OTPEmail{
		AppName:       "Studio",
		Name:          "<script>x</script>",
		Code:          "012345",
		ExpiryMinutes: 10,
		Year:          2026,
	})
	require.NoError(t, err)

	assert.Equal(t, "Verify your email - OTP", msg.Subject)
	assert.Contains(t, msg.HTML, "012345")
	assert.Contains(t, msg.HTML, "10 minutes")
	assert.NotContains(t, msg.HTML, "<script>")
}

func TestReceiptMessage_OmitsEmptyFields(t *testing.T) {
	msg, err := ReceiptMessage("c@x.test", BookingReceipt{
		BookingID:  "b1",
		ClientName: "Asha",
		EventName:  "Wedding",
		EventDate:  "2026-11-02",
		ReplyTo:    "desk@studio.test",
	})
	require.NoError(t, err)

	assert.Equal(t, "Booking Confirmation - Wedding on 2026-11-02", msg.Subject)
	assert.Contains(t, msg.HTML, "Asha")
	assert.NotContains(t, msg.HTML, "Time:")
	assert.NotContains(t, msg.HTML, "Amount:")
}

func TestBuildMessage_Headers(t *testing.T) {
	raw := buildMessage("desk@studio.test", Message{To: "a@b.test", Subject: "Hi", HTML: "<p>x</p>"}, "<id@host>", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	assert.True(t, strings.HasPrefix(raw, "From: desk@studio.test\r\n"))
	assert.Contains(t, raw, "Content-Type: text/html; charset=utf-8\r\n")
	assert.Contains(t, raw, "Message-ID: <id@host>\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\n<p>x</p>\r\n") || strings.Contains(raw, "\r\n\r\n<p>x</p>"))
}
