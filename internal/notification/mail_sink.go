package notification

import (
	"context"
	"errors"
	"fmt"

	mail "github.com/wneessen/go-mail"
)

// Mailer is satisfied by *mail.Client.
type Mailer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type MailSink struct {
	mailer     Mailer
	from       string
	fallbackTo string
}

// NewMailSink sends to the employee's manager, or to fallbackTo when the
// employee record carries no manager address.
func NewMailSink(mailer Mailer, from, fallbackTo string) *MailSink {
	return &MailSink{mailer: mailer, from: from, fallbackTo: fallbackTo}
}

func NewSMTPClient(host string, port int, username, password string) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}
	return mail.NewClient(host, opts...)
}

func (s *MailSink) Send(ctx context.Context, msg Message) error {
	to := msg.ManagerEmail
	if to == "" {
		to = s.fallbackTo
	}
	if to == "" {
		return errors.New("no recipient for notification")
	}

	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := m.To(to); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	m.Subject(msg.Subject())
	m.SetBodyString(mail.TypeTextPlain, msg.Text())
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTML())

	return s.mailer.DialAndSendWithContext(ctx, m)
}
