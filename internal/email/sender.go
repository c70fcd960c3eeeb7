package email

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gameshopnepal/backend/internal/config"
)

// BulkResult is the aggregate outcome of one bulk send. Sent + Failed equals
// the number of non-blank recipients attempted before any session loss.
type BulkResult struct {
	Success          bool     `json:"success"`
	Sent             int      `json:"sent"`
	Failed           int      `json:"failed"`
	FailedRecipients []string `json:"failed_recipients"`
	Error            string   `json:"error,omitempty"`
}

// BulkSender delivers one rendered message to a list of recipients, tolerating
// individual failures.
type BulkSender interface {
	SendBulk(ctx context.Context, recipients []string, subject, htmlBody string) BulkResult
}

// filterRecipients drops blank and whitespace-only entries. Skipped entries do
// not count toward sent/failed totals.
func filterRecipients(recipients []string) []string {
	out := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if strings.TrimSpace(r) == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// buildMessage constructs the raw RFC 5322 message for a single recipient.
func buildMessage(cfg *config.Config, to, subject, htmlBody string) []byte {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("To: %s\r\n", to))
	sb.WriteString(fmt.Sprintf("From: %s <%s>\r\n", cfg.SmtpFromName, cfg.SmtpFromAddress))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n") // End of headers
	sb.WriteString(htmlBody)
	sb.WriteString("\r\n")
	return []byte(sb.String())
}

// LoggingBulkSender is a mock implementation that just logs deliveries.
// Used in development when no SMTP host is configured.
type LoggingBulkSender struct {
	cfg *config.Config
}

// NewLoggingBulkSender creates a LoggingBulkSender.
func NewLoggingBulkSender(cfg *config.Config) *LoggingBulkSender {
	return &LoggingBulkSender{cfg: cfg}
}

// SendBulk logs each delivery instead of sending.
func (s *LoggingBulkSender) SendBulk(ctx context.Context, recipients []string, subject, htmlBody string) BulkResult {
	result := BulkResult{Success: true, FailedRecipients: []string{}}
	for _, to := range filterRecipients(recipients) {
		log.Printf("--- Newsletter (Logged) To: %s, From: %s, Subject: %s ---", to, s.cfg.SmtpFromAddress, subject)
		result.Sent++
	}
	return result
}
