package email

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/resend/resend-go/v2"
	"gopkg.in/gomail.v2"
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Options struct {
	Env          string
	Provider     string // log, resend or smtp
	From         string
	ResendAPIKey string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

// LogSender logs emails instead of sending them. Used when ENV=local.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With("component", "email")}
}

func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.InfoContext(ctx, "email (local dev)", "to", to, "subject", subject, "body", body)
	return nil
}

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func (s *ResendSender) Send(ctx context.Context, to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// SMTPSender delivers through a plain SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// Ping checks that the relay accepts TCP connections. It satisfies
// health.Pinger so readiness reflects whether confirmation mail can go out.
func (s *SMTPSender) Ping(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(s.dialer.Host, strconv.Itoa(s.dialer.Port)))
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	return conn.Close()
}

// NewSender returns a LogSender for ENV=local or provider "log", otherwise
// the configured provider.
func NewSender(opts Options, logger *slog.Logger) Sender {
	if opts.Env == "local" || opts.Provider == "log" {
		return NewLogSender(logger)
	}
	if opts.Provider == "smtp" {
		return &SMTPSender{
			dialer: gomail.NewDialer(opts.SMTPHost, opts.SMTPPort, opts.SMTPUsername, opts.SMTPPassword),
			from:   opts.From,
		}
	}
	return &ResendSender{
		client: resend.NewClient(opts.ResendAPIKey),
		from:   opts.From,
	}
}
