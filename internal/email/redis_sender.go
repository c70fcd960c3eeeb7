package email

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gameshopnepal/backend/internal/config"
)

// RedisBulkSender implements BulkSender by storing deliveries in Redis
// instead of sending them. Used when MOCK_SERVICES is enabled so end-to-end
// tests can inspect what would have been sent.
type RedisBulkSender struct {
	client *redis.Client
	cfg    *config.Config
}

// NewRedisBulkSender creates a RedisBulkSender.
func NewRedisBulkSender(client *redis.Client, cfg *config.Config) *RedisBulkSender {
	return &RedisBulkSender{client: client, cfg: cfg}
}

// SendBulk stores a JSON representation of each delivery under
// mocknewsletter:<recipient> with a short TTL.
func (s *RedisBulkSender) SendBulk(ctx context.Context, recipients []string, subject, htmlBody string) BulkResult {
	result := BulkResult{FailedRecipients: []string{}}
	ttl := 5 * time.Minute

	for _, to := range filterRecipients(recipients) {
		emailData := map[string]interface{}{
			"to":      to,
			"from":    s.cfg.SmtpFromAddress,
			"subject": subject,
			"body":    htmlBody,
			"sent_at": time.Now().UTC().Format(time.RFC3339Nano),
		}

		jsonData, err := json.Marshal(emailData)
		if err != nil {
			result.Failed++
			result.FailedRecipients = append(result.FailedRecipients, to)
			continue
		}

		key := fmt.Sprintf("mocknewsletter:%s", to)
		if err := s.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
			log.Printf("Failed to store mock newsletter in Redis key '%s': %v", key, err)
			result.Failed++
			result.FailedRecipients = append(result.FailedRecipients, to)
			continue
		}

		result.Sent++
		log.Printf("Mock newsletter stored in Redis key '%s' (TTL: %v, Subject: %s)", key, ttl, subject)
	}

	result.Success = true
	return result
}
