package notification

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"

	"github.com/sharath018/business-directory-backend/config"
)

// ErrNotConfigured is returned by channels that have no credentials.
var ErrNotConfigured = errors.New("notification channel not configured")

// Channel delivers one message to a set of recipients. For email the
// recipients are addresses; for push they are FCM topics.
type Channel interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

var emailLayout = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>{{.Subject}}</h2>
  {{range .Paragraphs}}<p>{{.}}</p>
  {{end}}
  <p style="color: #888; font-size: 12px;">{{.FromName}}</p>
</body>
</html>`))

// EmailSender sends HTML mail through an SMTP server with STARTTLS.
type EmailSender struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
	FromAddr string
}

func NewEmailSender(cfg *config.Config) *EmailSender {
	from := cfg.SMTPFromEmail
	if from == "" {
		from = cfg.SMTPUsername
	}
	return &EmailSender{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		FromName: cfg.SMTPFromName,
		FromAddr: from,
	}
}

func (e *EmailSender) configured() bool {
	return e.Host != "" && e.Username != "" && e.Password != ""
}

func (e *EmailSender) Send(ctx context.Context, to []string, subject, body string) error {
	if !e.configured() {
		return ErrNotConfigured
	}
	if len(to) == 0 {
		return errors.New("no email recipients")
	}
	msg, err := e.buildMessage(to, subject, body)
	if err != nil {
		return err
	}
	return e.deliver(ctx, to, msg)
}

// buildMessage renders body into the HTML layout, one paragraph per line,
// and prepends the headers.
func (e *EmailSender) buildMessage(to []string, subject, body string) ([]byte, error) {
	var html bytes.Buffer
	err := emailLayout.Execute(&html, map[string]interface{}{
		"Subject":    subject,
		"Paragraphs": strings.Split(strings.TrimSpace(body), "\n"),
		"FromName":   e.FromName,
	})
	if err != nil {
		return nil, fmt.Errorf("render email: %w", err)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", e.FromName, e.FromAddr)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.Write(html.Bytes())
	return []byte(msg.String()), nil
}

func (e *EmailSender) deliver(ctx context.Context, to []string, msg []byte) error {
	addr := net.JoinHostPort(e.Host, e.Port)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, e.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: e.Host}); err != nil {
		return fmt.Errorf("start tls: %w", err)
	}
	if err := client.Auth(smtp.PlainAuth("", e.Username, e.Password, e.Host)); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(e.FromAddr); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("open data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}
	return client.Quit()
}
