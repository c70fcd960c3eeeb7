package email

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gameshopnepal/backend/internal/config"
)

// FileBulkSender implements BulkSender by writing each delivery to a log
// file. Used as a mirror alongside the primary sender when LOG_EMAILS is set.
type FileBulkSender struct {
	filePath string
	cfg      *config.Config
}

// NewFileBulkSender creates a FileBulkSender, ensuring the log directory exists.
func NewFileBulkSender(filePath string, cfg *config.Config) (*FileBulkSender, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, fmt.Errorf("email log file path cannot be empty")
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for email log file '%s': %w", dir, err)
	}

	return &FileBulkSender{filePath: filePath, cfg: cfg}, nil
}

// SendBulk appends one log entry per recipient.
func (s *FileBulkSender) SendBulk(ctx context.Context, recipients []string, subject, htmlBody string) BulkResult {
	result := BulkResult{FailedRecipients: []string{}}

	file, err := os.OpenFile(s.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("FileBulkSender: Failed to open log file '%s': %v", s.filePath, err)
		result.Error = err.Error()
		return result
	}
	defer file.Close()

	timestamp := time.Now().Format(time.RFC3339Nano)
	for _, to := range filterRecipients(recipients) {
		entry := fmt.Sprintf("--- Newsletter Logged at %s (To: %s, Subject: %s) ---\n%s\n--- End Logged Newsletter ---\n\n",
			timestamp, to, subject, string(buildMessage(s.cfg, to, subject, htmlBody)))
		if _, err := file.WriteString(entry); err != nil {
			log.Printf("FileBulkSender: Failed to write to log file '%s': %v", s.filePath, err)
			result.Failed++
			result.FailedRecipients = append(result.FailedRecipients, to)
			continue
		}
		result.Sent++
	}

	result.Success = true
	return result
}
