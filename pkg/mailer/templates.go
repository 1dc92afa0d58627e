package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var (
	otpVerificationTmpl = template.Must(template.New("otp_verification").Parse(`<html>
  <head>
    <style>
      body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
      .container { max-width: 600px; margin: 0 auto; padding: 20px; }
      .header { background: #216974; color: white; padding: 20px; text-align: center; }
      .content { padding: 30px 20px; background: #f9f9f9; }
      .otp { font-size: 32px; font-weight: bold; color: #216974; text-align: center; padding: 20px; background: white; border-radius: 8px; margin: 20px 0; letter-spacing: 5px; }
      .footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header"><h1>Welcome to {{.AppName}}!</h1></div>
      <div class="content">
        <p>Hi {{.Name}},</p>
        <p>Thank you for signing up! Please use the following code to verify your email address:</p>
        <div class="otp">{{.Code}}</div>
        <p>This code will expire in {{.ExpiryMinutes}} minutes.</p>
        <p>If you did not create an account, please ignore this email.</p>
      </div>
      <div class="footer"><p>Copyright {{.Year}} {{.AppName}}. All rights reserved.</p></div>
    </div>
  </body>
</html>`))

	otpResendTmpl = template.Must(template.New("otp_resend").Parse(`<html>
  <body style="font-family: Arial, sans-serif; color: #333;">
    <h1>Your New Verification Code</h1>
    <p>Hi {{.Name}},</p>
    <p>Here is your new code for email verification:</p>
    <h2 style="letter-spacing: 5px;">{{.Code}}</h2>
    <p>This code will expire in {{.ExpiryMinutes}} minutes. Any earlier code no longer works.</p>
  </body>
</html>`))

	bookingReceiptTmpl = template.Must(template.New("booking_receipt").Parse(`<html>
  <body style="font-family: Arial, sans-serif; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
      <h2>Booking Confirmation Receipt</h2>
      <hr style="border: none; border-top: 1px solid #ddd; margin: 20px 0;" />
      <p><strong>Booking ID:</strong> #{{.BookingID}}</p>
      <p><strong>Client:</strong> {{.ClientName}}</p>
      <p><strong>Event:</strong> {{.EventName}}</p>
      <p><strong>Date:</strong> {{.EventDate}}</p>
      {{- if .EventTime}}
      <p><strong>Time:</strong> {{.EventTime}}</p>
      {{- end}}
      {{- if .Duration}}
      <p><strong>Hours:</strong> {{.Duration}}</p>
      {{- end}}
      {{- if .Location}}
      <p><strong>Location:</strong> {{.Location}}</p>
      {{- end}}
      {{- if .Amount}}
      <p><strong>Amount:</strong> {{.Amount}}</p>
      {{- end}}
      {{- if .Notes}}
      <p><strong>Details:</strong> {{.Notes}}</p>
      {{- end}}
      <hr style="border: none; border-top: 1px solid #ddd; margin: 20px 0;" />
      <p>Thank you for booking with us! We look forward to working with you.</p>
      <p style="color: #666; font-size: 12px;">If you have any questions, please contact us at <strong>{{.ReplyTo}}</strong></p>
    </div>
  </body>
</html>`))
)

type OTPEmail struct {
	AppName       string
	Name          string
	Code          string
	ExpiryMinutes int
	Year          int
}

// BookingReceipt holds pre-formatted values; empty optional fields are omitted from the email.
type BookingReceipt struct {
	BookingID  string
	ClientName string
	EventName  string
	EventDate  string
	EventTime  string
	Duration   string
	Location   string
	Amount     string
	Notes      string
	ReplyTo    string
}

func VerificationMessage(to string, data OTPEmail) (Message, error) {
	html, err := render(otpVerificationTmpl, data)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Verify your email - OTP", HTML: html}, nil
}

func ResendOTPMessage(to string, data OTPEmail) (Message, error) {
	html, err := render(otpResendTmpl, data)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Your new OTP", HTML: html}, nil
}

func ReceiptMessage(to string, data BookingReceipt) (Message, error) {
	html, err := render(bookingReceiptTmpl, data)
	if err != nil {
		return Message{}, err
	}
	subject := fmt.Sprintf("Booking Confirmation - %s on %s", data.EventName, data.EventDate)
	return Message{To: to, Subject: subject, HTML: html}, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
