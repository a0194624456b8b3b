// Package mailer relays validated submissions as e-mail notifications over an outbound SMTP
// relay. Submission is synchronous, one attempt per call, any failure is the caller's to report.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/venkm/formrelay/types"
)

// DefaultConnectTimeout bounds the dial, the SMTP dialogue itself uses the server's pacing
const DefaultConnectTimeout = 10 * time.Second

// Sender hands off one Submission for delivery
type Sender interface {
	Send(ctx context.Context, sub types.Submission) error
}

// Config holds the fixed relay account details, read once at startup
type Config struct {
	Host           string
	Port           uint16
	Sender         string
	Password       string
	Recipient      string
	ConnectTimeout time.Duration
}

func NewSMTPSender(cfg Config) *SMTPSender {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}

	return &SMTPSender{
		cfg: cfg,
		dialer: &net.Dialer{
			Timeout: cfg.ConnectTimeout,
		},
	}
}

// SMTPSender submits messages over STARTTLS, authenticating with the configured account
type SMTPSender struct {
	cfg    Config
	dialer *net.Dialer
}

// Send builds the notification message and submits it. The upgrade to TLS happens when the
// server offers it, authentication only when a password is configured, so an unauthenticated
// local relay works too.
func (s *SMTPSender) Send(ctx context.Context, sub types.Submission) error {
	msg, err := BuildMessage(sub, s.cfg.Sender, s.cfg.Recipient)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(int(s.cfg.Port)))
	conn, err := s.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("unable to reach the relay at %s %w", addr, err)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("SMTP handshake failed %w", err)
	}

	defer func() {
		_ = client.Close()
	}()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return fmt.Errorf("STARTTLS failed %w", err)
		}
	}

	if s.cfg.Password != "" {
		auth := smtp.PlainAuth("", s.cfg.Sender, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("authentication failed %w", err)
		}
	}

	if err := client.Mail(s.cfg.Sender); err != nil {
		return fmt.Errorf("MAIL FROM rejected %w", err)
	}

	if err := client.Rcpt(s.cfg.Recipient); err != nil {
		return fmt.Errorf("RCPT TO rejected %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA rejected %w", err)
	}

	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return fmt.Errorf("unable to write the message %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("message rejected %w", err)
	}

	return client.Quit()
}
