package mailer

import (
	"fmt"
	"strconv"

	"yamdb/pkg/config"

	"github.com/wneessen/go-mail"
)

type sendFunc func(msgs ...*mail.Msg) error

type SMTPMailer struct {
	from string
	send sendFunc
}

func NewSMTPMailer(cfg *config.Config) (*SMTPMailer, error) {
	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP port %q: %w", cfg.SMTPPort, err)
	}

	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUser),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return &SMTPMailer{from: cfg.EmailFrom, send: client.DialAndSend}, nil
}

func ConfirmationMessage(from, to, code string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject("Your confirmation code")
	msg.SetBodyString(mail.TypeTextPlain, "Your confirmation code is "+code)
	return msg, nil
}

func (m *SMTPMailer) SendConfirmation(to, code string) error {
	msg, err := ConfirmationMessage(m.from, to, code)
	if err != nil {
		return err
	}
	if err := m.send(msg); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}
