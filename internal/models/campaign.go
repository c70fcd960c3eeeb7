package models

import "time"

// Campaign is the persisted history record of one bulk newsletter send.
type Campaign struct {
	ID              string    `bson:"_id" json:"id"`
	TemplateID      string    `bson:"template_id" json:"template_id"`
	Subject         string    `bson:"subject" json:"subject"`
	Sent            int       `bson:"sent" json:"sent"`
	Failed          int       `bson:"failed" json:"failed"`
	TotalRecipients int       `bson:"total_recipients" json:"total_recipients"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}
