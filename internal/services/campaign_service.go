package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gameshopnepal/backend/internal/email"
	"github.com/gameshopnepal/backend/internal/models"
)

// ICampaignService persists and lists newsletter campaign history, one record
// per bulk send.
type ICampaignService interface {
	RecordCampaign(ctx context.Context, templateID, subject string, result email.BulkResult, totalRecipients int) (*models.Campaign, error)
	ListCampaigns(ctx context.Context, limit int64) ([]models.Campaign, error)
}

const campaignsCollection = "newsletter_campaigns"

// campaignService implements ICampaignService.
type campaignService struct {
	db *mongo.Database
}

// NewCampaignService creates a new CampaignService.
func NewCampaignService(db *mongo.Database) ICampaignService {
	return &campaignService{db: db}
}

// RecordCampaign inserts the history record of one send-bulk invocation.
func (s *campaignService) RecordCampaign(ctx context.Context, templateID, subject string, result email.BulkResult, totalRecipients int) (*models.Campaign, error) {
	campaign := &models.Campaign{
		ID:              uuid.NewString(),
		TemplateID:      templateID,
		Subject:         subject,
		Sent:            result.Sent,
		Failed:          result.Failed,
		TotalRecipients: totalRecipients,
		CreatedAt:       time.Now().UTC(),
	}

	if _, err := s.db.Collection(campaignsCollection).InsertOne(ctx, campaign); err != nil {
		return nil, fmt.Errorf("error recording campaign: %w", err)
	}
	return campaign, nil
}

// ListCampaigns returns recent campaigns, newest first.
func (s *campaignService) ListCampaigns(ctx context.Context, limit int64) ([]models.Campaign, error) {
	if limit <= 0 {
		limit = 50
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := s.db.Collection(campaignsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing campaigns: %w", err)
	}
	defer cursor.Close(ctx)

	campaigns := []models.Campaign{}
	if err := cursor.All(ctx, &campaigns); err != nil {
		return nil, fmt.Errorf("error decoding campaigns: %w", err)
	}
	return campaigns, nil
}
