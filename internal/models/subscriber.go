package models

import "time"

// Subscriber is a newsletter recipient. Unsubscribed records are kept so a
// re-subscribe preserves the original subscription date.
type Subscriber struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	SubscribedAt time.Time `bson:"subscribed_at" json:"subscribed_at"`
	Unsubscribed bool      `bson:"unsubscribed" json:"unsubscribed"`
}
