package email

import (
	"context"
	"log"
)

// CompositeBulkSender delegates to a primary sender and mirrors every send to
// any additional senders. The primary's result is the authoritative one;
// mirror failures are only logged.
type CompositeBulkSender struct {
	primary BulkSender
	mirrors []BulkSender
}

// NewCompositeBulkSender creates a CompositeBulkSender around the primary
// sender. It returns the concrete type so AddMirror can be called directly.
func NewCompositeBulkSender(primary BulkSender) *CompositeBulkSender {
	return &CompositeBulkSender{primary: primary}
}

// AddMirror adds a best-effort mirror sender.
func (cs *CompositeBulkSender) AddMirror(sender BulkSender) {
	if sender != nil {
		cs.mirrors = append(cs.mirrors, sender)
	}
}

// SendBulk sends via the primary and returns its result, then mirrors the
// same send to the others.
func (cs *CompositeBulkSender) SendBulk(ctx context.Context, recipients []string, subject, htmlBody string) BulkResult {
	result := cs.primary.SendBulk(ctx, recipients, subject, htmlBody)

	for _, m := range cs.mirrors {
		if r := m.SendBulk(ctx, recipients, subject, htmlBody); !r.Success {
			log.Printf("Mirror newsletter sender failed: %s", r.Error)
		}
	}

	return result
}
