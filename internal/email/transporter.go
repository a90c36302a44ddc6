package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Transporter delivers a single HTML email over SMTP. The dialer connects
// per send, so configuration problems (missing credentials, unreachable
// relay) surface on the first Send rather than at construction.
type Transporter struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Send delivers one message and reports the outcome synchronously.
func (t *Transporter) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", t.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := gomail.NewDialer(t.Host, t.Port, t.User, t.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send error: %w", err)
	}

	return nil
}
