package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/nbenliogludev/postwatch/internal/telemetry"
)

// Mailer sends the one summary email a run produces.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	to       string
}

func New(host string, port int, user, password, to string) (*Mailer, error) {
	if host == "" || user == "" || to == "" {
		return nil, fmt.Errorf("smtp host, user and receiver must be set")
	}
	return &Mailer{host: host, port: port, user: user, password: password, to: to}, nil
}

// Subject encodes the run status and counters so the outcome is readable
// from the inbox list alone.
func Subject(stats telemetry.Stats) string {
	return fmt.Sprintf("[postwatch] %s | %d clicks, %d inputs, %d errors",
		stats.Status().Marker(), stats.Clicks, stats.Types, stats.Errors)
}

// Body is the telemetry block followed by the result text.
func Body(stats telemetry.Stats, result string) string {
	return stats.Render() + "\nRESULT:\n" + result + "\n"
}

// Send submits the message. The caller treats failures as best-effort:
// they are logged, never fatal.
func (m *Mailer) Send(ctx context.Context, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.user); err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(m.to); err != nil {
		return fmt.Errorf("invalid receiver: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.user),
		mail.WithPassword(m.password),
	}
	if m.port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
