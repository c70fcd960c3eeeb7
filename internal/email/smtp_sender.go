package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"net/smtp"

	"github.com/gameshopnepal/backend/internal/config"
)

// smtpSession is the subset of *smtp.Client the bulk sender uses. Tests inject
// a fake session through the dial function.
type smtpSession interface {
	StartTLS(*tls.Config) error
	Auth(smtp.Auth) error
	Mail(string) error
	Rcpt(string) error
	Data() (io.WriteCloser, error)
	Reset() error
	Quit() error
}

// SMTPBulkSender implements BulkSender over a single authenticated SMTP
// session per call: the session is opened once and every recipient is sent
// over it in sequence.
type SMTPBulkSender struct {
	cfg  *config.Config
	dial func(addr string) (smtpSession, error)
}

// NewSMTPBulkSender creates an SMTPBulkSender.
func NewSMTPBulkSender(cfg *config.Config) *SMTPBulkSender {
	return &SMTPBulkSender{
		cfg: cfg,
		dial: func(addr string) (smtpSession, error) {
			return smtp.Dial(addr)
		},
	}
}

// SendBulk sends the rendered message to every non-blank recipient. Missing
// credentials are a configuration failure surfaced in the result, not an
// error. A per-recipient delivery failure is recorded and iteration
// continues; only a failure to establish the session aborts the batch, and
// the result then reflects whatever had already been sent.
func (s *SMTPBulkSender) SendBulk(ctx context.Context, recipients []string, subject, htmlBody string) BulkResult {
	result := BulkResult{FailedRecipients: []string{}}

	if !s.cfg.SmtpConfigured() {
		log.Printf("SMTP credentials not configured")
		result.Error = "SMTP not configured"
		return result
	}

	targets := filterRecipients(recipients)
	if len(targets) == 0 {
		result.Success = true
		return result
	}

	sess, err := s.openSession()
	if err != nil {
		log.Printf("SMTP connection error: %v", err)
		result.Error = err.Error()
		return result
	}
	defer sess.Quit()

	for _, to := range targets {
		if ctx.Err() != nil {
			result.Error = ctx.Err().Error()
			return result
		}

		if err := sendOne(sess, s.cfg.SmtpFromAddress, to, buildMessage(s.cfg, to, subject, htmlBody)); err != nil {
			result.Failed++
			result.FailedRecipients = append(result.FailedRecipients, to)
			log.Printf("Failed to send newsletter to %s: %v", to, err)
			// Clear any half-finished transaction before the next recipient.
			_ = sess.Reset()
			continue
		}

		result.Sent++
		log.Printf("Newsletter sent to %s", to)
	}

	result.Success = true
	return result
}

// openSession dials, upgrades to TLS and authenticates. Any failure here is a
// session-establishment failure.
func (s *SMTPBulkSender) openSession() (smtpSession, error) {
	addr := fmt.Sprintf("%s:%d", s.cfg.SmtpHost, s.cfg.SmtpPort)
	sess, err := s.dial(addr)
	if err != nil {
		return nil, fmt.Errorf("smtp dial %s: %w", addr, err)
	}

	if err := sess.StartTLS(&tls.Config{ServerName: s.cfg.SmtpHost}); err != nil {
		_ = sess.Quit()
		return nil, fmt.Errorf("smtp starttls: %w", err)
	}

	auth := smtp.PlainAuth("", s.cfg.SmtpUsername, s.cfg.SmtpPassword, s.cfg.SmtpHost)
	if err := sess.Auth(auth); err != nil {
		_ = sess.Quit()
		return nil, fmt.Errorf("smtp auth: %w", err)
	}

	return sess, nil
}

// sendOne performs one MAIL/RCPT/DATA transaction on the shared session.
func sendOne(sess smtpSession, from, to string, rawMessage []byte) error {
	if err := sess.Mail(from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := sess.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}
	w, err := sess.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(rawMessage); err != nil {
		_ = w.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}
