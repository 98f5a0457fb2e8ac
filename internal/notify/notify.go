// Package notify sends appointment emails. Delivery is best-effort: the
// appointment service logs failures and never rolls back a persisted change
// because a message did not go out.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

type Sender interface {
	SendAppointmentConfirmation(ctx context.Context, email, customerName, dentistName string, at time.Time, procedureType string) error
	SendAppointmentCancellation(ctx context.Context, email, customerName string, at time.Time, procedureType string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Mailer struct {
	client *mail.Client
	from   string
}

func NewMailer(cfg SMTPConfig) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, err
	}

	from := cfg.From
	if from == "" {
		from = "no-reply@dentalo.local"
	}
	return &Mailer{client: client, from: from}, nil
}

func (m *Mailer) SendAppointmentConfirmation(ctx context.Context, email, customerName, dentistName string, at time.Time, procedureType string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour %s appointment with %s is confirmed for %s.\n\nSee you then,\nThe clinic\n",
		customerName, procedureType, dentistName, at.Format("Monday, 2 January 2006 at 15:04"),
	)
	return m.send(ctx, email, "Appointment confirmed", body)
}

func (m *Mailer) SendAppointmentCancellation(ctx context.Context, email, customerName string, at time.Time, procedureType string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour %s appointment on %s has been cancelled.\n\nThe clinic\n",
		customerName, procedureType, at.Format("Monday, 2 January 2006 at 15:04"),
	)
	return m.send(ctx, email, "Appointment cancelled", body)
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return m.client.DialAndSendWithContext(ctx, msg)
}

// Noop discards all notifications. Used when SMTP is not configured.
type Noop struct{}

func (Noop) SendAppointmentConfirmation(ctx context.Context, email, customerName, dentistName string, at time.Time, procedureType string) error {
	return nil
}

func (Noop) SendAppointmentCancellation(ctx context.Context, email, customerName string, at time.Time, procedureType string) error {
	return nil
}
