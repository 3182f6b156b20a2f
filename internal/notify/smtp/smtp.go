package smtp

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"skikurs-sync/internal/notify"
)

// Notifier sends HTML mail over authenticated SMTP (STARTTLS is negotiated
// by net/smtp when the server offers it).
type Notifier struct {
	host string
	port int
	from string
	auth smtp.Auth
}

func New(s notify.Settings) (*Notifier, error) {
	if s.SMTPServer == "" || s.SMTPPort == 0 {
		return nil, fmt.Errorf("smtp notifier: smtp_server/smtp_port missing from mail settings")
	}
	return &Notifier{
		host: s.SMTPServer,
		port: s.SMTPPort,
		from: s.FromEmail,
		auth: smtp.PlainAuth("", s.FromEmail, s.Password, s.SMTPServer),
	}, nil
}

func (n *Notifier) Name() string { return "smtp" }

func (n *Notifier) Send(ctx context.Context, to string, msg notify.Message) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	if err := smtp.SendMail(addr, n.auth, n.from, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
