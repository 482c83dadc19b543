package email_test

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"strings"
	"testing"

	"github.com/ErlanBelekov/shop-api/internal/email"
)

func TestNewSender_LocalAlwaysLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := email.NewSender(email.Options{Env: "local", Provider: "smtp", SMTPHost: "smtp.invalid"}, logger)
	if _, ok := s.(*email.LogSender); !ok {
		t.Fatalf("sender = %T, want *email.LogSender", s)
	}

	if err := s.Send(context.Background(), "a@example.com", "hello", "<p>body</p>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "a@example.com") {
		t.Errorf("log output %q does not mention recipient", buf.String())
	}
}

func TestNewSender_PicksProvider(t *testing.T) {
	logger := slog.Default()

	smtp := email.NewSender(email.Options{Env: "production", Provider: "smtp", SMTPHost: "smtp.example.com", SMTPPort: 587}, logger)
	if _, ok := smtp.(*email.SMTPSender); !ok {
		t.Errorf("smtp provider: got %T", smtp)
	}

	rs := email.NewSender(email.Options{Env: "production", Provider: "resend", ResendAPIKey: "re_test"}, logger)
	if _, ok := rs.(*email.ResendSender); !ok {
		t.Errorf("resend provider: got %T", rs)
	}
}

func TestSMTPSender_CancelledContext(t *testing.T) {
	s := email.NewSender(email.Options{Env: "production", Provider: "smtp", SMTPHost: "smtp.invalid", SMTPPort: 25}, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Send(ctx, "a@example.com", "s", "b"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestSMTPSender_Ping(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)

	s := email.NewSender(email.Options{Env: "production", Provider: "smtp", SMTPHost: "127.0.0.1", SMTPPort: addr.Port}, slog.Default())
	smtp := s.(*email.SMTPSender)

	if err := smtp.Ping(context.Background()); err != nil {
		t.Errorf("relay listening: unexpected error %v", err)
	}

	ln.Close()
	if err := smtp.Ping(context.Background()); err == nil {
		t.Error("relay closed: expected error")
	}
}
