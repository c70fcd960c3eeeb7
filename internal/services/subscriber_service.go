package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gameshopnepal/backend/internal/db"
	"github.com/gameshopnepal/backend/internal/models"
)

// ISubscriberService manages the newsletter recipient list.
type ISubscriberService interface {
	Subscribe(ctx context.Context, emailAddr string) (*models.Subscriber, error)
	Unsubscribe(ctx context.Context, emailAddr string) error
	GetActiveEmails(ctx context.Context) ([]string, error)
}

const subscribersCollection = "newsletter_subscribers"

// ErrInvalidEmail is returned when an address fails basic validation.
var ErrInvalidEmail = errors.New("invalid email address")

// subscriberService implements ISubscriberService.
type subscriberService struct {
	db *mongo.Database
}

// NewSubscriberService creates a new SubscriberService.
func NewSubscriberService(db *mongo.Database) ISubscriberService {
	return &subscriberService{db: db}
}

// Subscribe upserts a subscriber by email. Re-subscribing an unsubscribed
// address reactivates it and keeps the original subscription date.
func (s *subscriberService) Subscribe(ctx context.Context, emailAddr string) (*models.Subscriber, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" || !strings.Contains(emailAddr, "@") {
		return nil, ErrInvalidEmail
	}

	filter := bson.M{"email": emailAddr}
	update := bson.M{
		"$set": bson.M{"unsubscribed": false},
		"$setOnInsert": bson.M{
			"_id":           uuid.NewString(),
			"email":         emailAddr,
			"subscribed_at": time.Now().UTC(),
		},
	}
	opts := options.Update().SetUpsert(true)

	// Retried on duplicate key: two concurrent subscribes of the same new
	// address can race on the unique email index.
	err := db.Try(func() error {
		_, err := s.db.Collection(subscribersCollection).UpdateOne(ctx, filter, update, opts)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error subscribing %s: %w", emailAddr, err)
	}

	var sub models.Subscriber
	if err := s.db.Collection(subscribersCollection).FindOne(ctx, filter).Decode(&sub); err != nil {
		return nil, fmt.Errorf("error reading subscriber %s: %w", emailAddr, err)
	}
	return &sub, nil
}

// Unsubscribe marks a subscriber inactive. Unknown addresses are a no-op so
// the unsubscribe link is always safe to follow.
func (s *subscriberService) Unsubscribe(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" {
		return ErrInvalidEmail
	}

	_, err := s.db.Collection(subscribersCollection).UpdateOne(ctx,
		bson.M{"email": emailAddr},
		bson.M{"$set": bson.M{"unsubscribed": true}},
	)
	if err != nil {
		return fmt.Errorf("error unsubscribing %s: %w", emailAddr, err)
	}
	return nil
}

// GetActiveEmails returns the addresses of all active subscribers.
func (s *subscriberService) GetActiveEmails(ctx context.Context) ([]string, error) {
	cursor, err := s.db.Collection(subscribersCollection).Find(ctx, bson.M{"unsubscribed": false})
	if err != nil {
		return nil, fmt.Errorf("error listing subscribers: %w", err)
	}
	defer cursor.Close(ctx)

	var emails []string
	for cursor.Next(ctx) {
		var sub models.Subscriber
		if err := cursor.Decode(&sub); err != nil {
			return nil, fmt.Errorf("error decoding subscriber: %w", err)
		}
		emails = append(emails, sub.Email)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscribers: %w", err)
	}
	return emails, nil
}
