package jobs

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/smtp"
	"path"
	"strings"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/QualitasTechnologies/bom-tracker/internal/jobs"
)

// SMTPMailer sends mail over a plain SMTP relay. Attachments are encoded as
// a single multipart/mixed part.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPMailer constructs a mailer. Username may be empty for relays that
// accept unauthenticated mail on the internal network.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	m := &SMTPMailer{addr: fmt.Sprintf("%s:%d", host, port), from: from}
	if username != "" {
		m.auth = smtp.PlainAuth("", username, password, host)
	}
	return m
}

const mailBoundary = "bomtracker-mail-boundary"

// Send delivers one message. A nil attachment sends plain text.
func (m *SMTPMailer) Send(_ context.Context, to, subject, body string, attachment []byte, filename string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if attachment == nil {
		msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		msg.WriteString(body)
	} else {
		fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", mailBoundary)
		fmt.Fprintf(&msg, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", mailBoundary, body)
		contentType := mime.TypeByExtension(path.Ext(filename))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		fmt.Fprintf(&msg, "--%s\r\nContent-Type: %s\r\nContent-Transfer-Encoding: base64\r\n", mailBoundary, contentType)
		fmt.Fprintf(&msg, "Content-Disposition: attachment; filename=%q\r\n\r\n", filename)
		encoded := base64.StdEncoding.EncodeToString(attachment)
		for len(encoded) > 76 {
			msg.WriteString(encoded[:76])
			msg.WriteString("\r\n")
			encoded = encoded[76:]
		}
		msg.WriteString(encoded)
		fmt.Fprintf(&msg, "\r\n--%s--\r\n", mailBoundary)
	}

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// EmailSender handles TaskTypeSendEmail tasks.
type EmailSender struct {
	logger  *slog.Logger
	mailer  Mailer
	metrics *jobmetrics.Metrics
}

func NewEmailSender(logger *slog.Logger, mailer Mailer, metrics *jobmetrics.Metrics) *EmailSender {
	return &EmailSender{logger: logger, mailer: mailer, metrics: metrics}
}

// Handle sends the email described by the task payload.
func (s *EmailSender) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	tracker := s.metrics.Track("send_email")
	err := s.mailer.Send(ctx, payload.To, payload.Subject, payload.Body, nil, "")
	if err == nil {
		s.logger.Info("email sent", "to", payload.To, "subject", payload.Subject)
	}
	return tracker.End(err)
}
