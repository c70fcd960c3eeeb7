package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gameshopnepal/backend/internal/models"
)

// IOrderService defines the read/delete access this service has to the order
// store. Order creation and updates belong to the storefront proper.
type IOrderService interface {
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}

const ordersCollection = "orders"

// orderService implements IOrderService.
type orderService struct {
	db *mongo.Database
}

// NewOrderService creates a new OrderService.
func NewOrderService(db *mongo.Database) IOrderService {
	return &orderService{db: db}
}

// GetOrderByID fetches a single order.
func (s *orderService) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.Collection(ordersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("order not found: %s", id)
		}
		return nil, fmt.Errorf("error retrieving order: %w", err)
	}
	return &order, nil
}

// DeleteStalePending issues one bulk delete of orders still pending and
// created before the cutoff. Orders store created_at as RFC 3339 UTC strings,
// which order lexicographically, so the filter compares strings. The delete
// is atomic against concurrent inserts: new pending orders fail the age
// filter by construction.
func (s *orderService) DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{
		"status":     models.OrderStatusPending,
		"created_at": bson.M{"$lt": cutoff.UTC().Format(time.RFC3339)},
	}

	res, err := s.db.Collection(ordersCollection).DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error deleting stale pending orders: %w", err)
	}
	return res.DeletedCount, nil
}
