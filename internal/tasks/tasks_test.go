package tasks_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gameshopnepal/backend/internal/config"
	"github.com/gameshopnepal/backend/internal/discord"
	"github.com/gameshopnepal/backend/internal/email"
	"github.com/gameshopnepal/backend/internal/models"
	"github.com/gameshopnepal/backend/internal/newsletter"
	"github.com/gameshopnepal/backend/internal/tasks"
)

type processorDeps struct {
	cfg         *config.Config
	campaigns   *MockCampaignService
	subscribers *MockSubscriberService
	sender      *MockBulkSender
}

func newTestProcessor(webhookURL string) (*tasks.TaskProcessor, *processorDeps) {
	deps := &processorDeps{
		cfg: &config.Config{
			WebsiteURL:     "https://gameshopnepal.com",
			WebhookTimeout: time.Second,
		},
		campaigns:   new(MockCampaignService),
		subscribers: new(MockSubscriberService),
		sender:      new(MockBulkSender),
	}
	if webhookURL != "" {
		deps.cfg.DiscordWebhookURLs = []string{webhookURL}
	}

	p := tasks.NewTaskProcessor(
		deps.cfg,
		newsletter.NewRegistry(),
		deps.sender,
		discord.NewBroadcaster(time.Second),
		deps.campaigns,
		deps.subscribers,
		nil,
	)
	return p, deps
}

func TestHandleDiscordOrderNotifyTask(t *testing.T) {
	var received discord.Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	p, _ := newTestProcessor(srv.URL)

	payload, err := json.Marshal(tasks.OrderNotifyPayload{
		Order: models.Order{
			ID:           "abc12345-xyz",
			CustomerName: "Hari",
			TotalAmount:  500,
			Status:       models.OrderStatusPending,
		},
	})
	require.NoError(t, err)

	err = p.HandleDiscordOrderNotifyTask(context.Background(), asynq.NewTask(tasks.TypeDiscordOrderNotify, payload))
	require.NoError(t, err)

	assert.Equal(t, "@everyone 🔔 **New Order Received!**", received.Content)
	require.Len(t, received.Embeds, 1)
	assert.Contains(t, received.Embeds[0].Title, "#ABC12345")
}

func TestHandleDiscordStatusUpdateTask(t *testing.T) {
	var received discord.Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	p, _ := newTestProcessor(srv.URL)

	payload, err := json.Marshal(tasks.StatusUpdatePayload{
		Order:     models.Order{ID: "abc12345", CustomerName: "Hari", TotalAmount: 500},
		OldStatus: models.OrderStatusPending,
		NewStatus: models.OrderStatusCompleted,
	})
	require.NoError(t, err)

	err = p.HandleDiscordStatusUpdateTask(context.Background(), asynq.NewTask(tasks.TypeDiscordStatusUpdate, payload))
	require.NoError(t, err)

	require.Len(t, received.Embeds, 1)
	assert.Contains(t, received.Embeds[0].Description, "**PENDING** → ✅ **COMPLETED**")
}

func TestHandleTaskBadPayloadSkipsRetry(t *testing.T) {
	p, _ := newTestProcessor("")

	err := p.HandleDiscordOrderNotifyTask(context.Background(), asynq.NewTask(tasks.TypeDiscordOrderNotify, []byte("{not json")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	err = p.HandleNewsletterCampaignTask(context.Background(), asynq.NewTask(tasks.TypeNewsletterCampaign, []byte("{not json")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleNewsletterCampaignTaskExplicitRecipients(t *testing.T) {
	p, deps := newTestProcessor("")

	recipients := []string{"a@example.com", "b@example.com"}
	sendResult := email.BulkResult{Success: true, Sent: 2, FailedRecipients: []string{}}

	deps.sender.On("SendBulk", mock.Anything, recipients, mock.Anything, mock.Anything).Return(sendResult)
	deps.campaigns.On("RecordCampaign", mock.Anything, "restock_alert", mock.Anything, sendResult, 2).
		Return(&models.Campaign{ID: "c1"}, nil)

	payload, err := json.Marshal(tasks.CampaignPayload{
		TemplateID: "restock_alert",
		Variables:  map[string]string{"product_name": "Steam Wallet"},
		Recipients: recipients,
	})
	require.NoError(t, err)

	err = p.HandleNewsletterCampaignTask(context.Background(), asynq.NewTask(tasks.TypeNewsletterCampaign, payload))
	require.NoError(t, err)

	deps.sender.AssertExpectations(t)
	deps.campaigns.AssertExpectations(t)
	// The rendered subject reaches the sender.
	sendCall := deps.sender.Calls[0]
	assert.Equal(t, "🔔 Steam Wallet is Back in Stock!", sendCall.Arguments.String(2))
	// No subscriber lookup when recipients are explicit.
	deps.subscribers.AssertNotCalled(t, "GetActiveEmails", mock.Anything)
}

func TestHandleNewsletterCampaignTaskDefaultsToSubscribers(t *testing.T) {
	p, deps := newTestProcessor("")

	subscribers := []string{"sub1@example.com", "sub2@example.com", "sub3@example.com"}
	sendResult := email.BulkResult{Success: true, Sent: 3, FailedRecipients: []string{}}

	deps.subscribers.On("GetActiveEmails", mock.Anything).Return(subscribers, nil)
	deps.sender.On("SendBulk", mock.Anything, subscribers, mock.Anything, mock.Anything).Return(sendResult)
	deps.campaigns.On("RecordCampaign", mock.Anything, "weekly_update", mock.Anything, sendResult, 3).
		Return(&models.Campaign{ID: "c2"}, nil)

	payload, err := json.Marshal(tasks.CampaignPayload{TemplateID: "weekly_update"})
	require.NoError(t, err)

	err = p.HandleNewsletterCampaignTask(context.Background(), asynq.NewTask(tasks.TypeNewsletterCampaign, payload))
	require.NoError(t, err)

	deps.subscribers.AssertExpectations(t)
	deps.sender.AssertExpectations(t)
}

func TestHandleNewsletterCampaignTaskUnknownTemplate(t *testing.T) {
	p, deps := newTestProcessor("")

	payload, err := json.Marshal(tasks.CampaignPayload{TemplateID: "nope"})
	require.NoError(t, err)

	err = p.HandleNewsletterCampaignTask(context.Background(), asynq.NewTask(tasks.TypeNewsletterCampaign, payload))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	deps.sender.AssertNotCalled(t, "SendBulk", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleNewsletterCampaignTaskRecordsFailedSend(t *testing.T) {
	p, deps := newTestProcessor("")

	recipients := []string{"a@example.com"}
	sendResult := email.BulkResult{Success: false, Error: "smtp dial: connection refused", FailedRecipients: []string{}}

	deps.sender.On("SendBulk", mock.Anything, recipients, mock.Anything, mock.Anything).Return(sendResult)
	deps.campaigns.On("RecordCampaign", mock.Anything, "custom", mock.Anything, sendResult, 0).
		Return(&models.Campaign{ID: "c3"}, nil)

	payload, err := json.Marshal(tasks.CampaignPayload{
		TemplateID: "custom",
		Variables:  map[string]string{"subject": "s", "heading": "h", "body_text": "b"},
		Recipients: recipients,
	})
	require.NoError(t, err)

	// The send failure is captured in history, not surfaced as a task error.
	err = p.HandleNewsletterCampaignTask(context.Background(), asynq.NewTask(tasks.TypeNewsletterCampaign, payload))
	require.NoError(t, err)
	deps.campaigns.AssertExpectations(t)
}
