package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Broadcaster posts messages to Discord webhooks. Delivery is best-effort and
// fire-and-forget: per-URL failures are logged, never returned.
type Broadcaster struct {
	client *http.Client
}

// NewBroadcaster creates a Broadcaster with a per-request timeout.
func NewBroadcaster(timeout time.Duration) *Broadcaster {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Broadcaster{
		client: &http.Client{Timeout: timeout},
	}
}

// Broadcast posts the message to every non-blank webhook URL in order. Each
// attempt is independent; a failed URL never aborts the remaining sends. An
// empty list is a no-op.
func (b *Broadcaster) Broadcast(ctx context.Context, webhookURLs []string, msg Message) {
	if len(webhookURLs) == 0 {
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal Discord webhook payload: %v", err)
		return
	}

	for _, webhookURL := range webhookURLs {
		if strings.TrimSpace(webhookURL) == "" {
			continue
		}

		if err := b.post(ctx, webhookURL, payload); err != nil {
			log.Printf("Failed to send Discord webhook: %v", err)
			continue
		}
		log.Printf("Discord webhook sent successfully to %s...", truncateURL(webhookURL))
	}
}

func (b *Broadcaster) post(ctx context.Context, webhookURL string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned %d - %s", resp.StatusCode, string(body))
	}
	return nil
}

// truncateURL shortens webhook URLs for logs; they embed secrets.
func truncateURL(u string) string {
	if len(u) > 50 {
		return u[:50]
	}
	return u
}
