package tasks

import (
	"context"
	"log"
	"time"

	"github.com/gameshopnepal/backend/internal/config"
	"github.com/gameshopnepal/backend/internal/services"
)

// OrderReaper periodically deletes pending orders that were never paid for.
type OrderReaper struct {
	orders   services.IOrderService
	ttl      time.Duration
	interval time.Duration
}

func NewOrderReaper(cfg *config.Config, orders services.IOrderService) *OrderReaper {
	return &OrderReaper{
		orders:   orders,
		ttl:      cfg.OrderPendingTTL,
		interval: cfg.OrderCleanupInterval,
	}
}

// Run blocks until ctx is cancelled, sweeping once immediately and then on
// every interval tick. Sweep errors are logged and the loop keeps going.
func (r *OrderReaper) Run(ctx context.Context) {
	log.Printf("Order cleanup started: deleting pending orders older than %s every %s.", r.ttl, r.interval)

	r.sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Order cleanup stopped.")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *OrderReaper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-r.ttl)
	deleted, err := r.orders.DeleteStalePending(ctx, cutoff)
	if err != nil {
		log.Printf("Error cleaning up old pending orders: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Auto-deleted %d pending orders older than %s.", deleted, r.ttl)
	}
}
