package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gameshopnepal/backend/internal/api/handlers"
	"github.com/gameshopnepal/backend/internal/config"
	"github.com/gameshopnepal/backend/internal/email"
	"github.com/gameshopnepal/backend/internal/models"
	"github.com/gameshopnepal/backend/internal/newsletter"
	"github.com/gameshopnepal/backend/internal/services"
	"github.com/gameshopnepal/backend/internal/tasks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type handlerDeps struct {
	campaigns   *MockCampaignService
	subscribers *MockSubscriberService
	sender      *MockBulkSender
	assets      *MockAssetStorage
	taskClient  *MockAsynqClient
}

func newTestRouter() (*gin.Engine, *handlerDeps) {
	deps := &handlerDeps{
		campaigns:   new(MockCampaignService),
		subscribers: new(MockSubscriberService),
		sender:      new(MockBulkSender),
		assets:      new(MockAssetStorage),
		taskClient:  new(MockAsynqClient),
	}

	cfg := &config.Config{
		WebsiteURL:     "https://gameshopnepal.com",
		ImageMaxSizeMB: 5,
	}

	h := handlers.NewNewsletterHandler(
		cfg, newsletter.NewRegistry(), deps.sender, deps.campaigns, deps.subscribers, deps.assets, deps.taskClient)

	r := gin.New()
	r.GET("/newsletter/templates", h.ListTemplates)
	r.POST("/newsletter/render", h.RenderTemplate)
	r.POST("/newsletter/send", h.SendNewsletter)
	r.GET("/newsletter/campaigns", h.ListCampaigns)
	r.POST("/newsletter/subscribe", h.Subscribe)
	r.POST("/newsletter/unsubscribe", h.Unsubscribe)
	return r, deps
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListTemplatesEndpoint(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodGet, "/newsletter/templates", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Templates []newsletter.TemplateInfo `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Templates, 5)
	assert.Equal(t, "new_product", resp.Templates[0].ID)
}

func TestRenderTemplateEndpoint(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/newsletter/render", gin.H{
		"template_id": "new_product",
		"variables": gin.H{
			"product_name":  "PUBG UC",
			"product_price": 1200, // numeric variables are stringified
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "🚀 New Product Alert: PUBG UC is Here!", resp.Subject)
	assert.Contains(t, resp.Body, "Rs 1200")
	// base_url defaults to the configured website URL.
	assert.Contains(t, resp.Body, "https://gameshopnepal.com/unsubscribe")
}

func TestRenderTemplateUnknownID(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/newsletter/render", gin.H{"template_id": "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRenderTemplateMissingID(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/newsletter/render", gin.H{"variables": gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendNewsletterSync(t *testing.T) {
	r, deps := newTestRouter()

	recipients := []string{"a@example.com", "b@example.com"}
	sendResult := email.BulkResult{Success: true, Sent: 2, FailedRecipients: []string{}}

	deps.sender.On("SendBulk", mock.Anything, recipients, mock.Anything, mock.Anything).Return(sendResult)
	deps.campaigns.On("RecordCampaign", mock.Anything, "restock_alert", mock.Anything, sendResult, 2).
		Return(&models.Campaign{ID: "c1"}, nil)

	w := doJSON(r, http.MethodPost, "/newsletter/send", gin.H{
		"template_id": "restock_alert",
		"variables":   gin.H{"product_name": "Steam Wallet"},
		"recipients":  recipients,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp email.BulkResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Sent)
	deps.sender.AssertExpectations(t)
	deps.campaigns.AssertExpectations(t)
}

func TestSendNewsletterSyncDefaultsToSubscribers(t *testing.T) {
	r, deps := newTestRouter()

	subscribers := []string{"s1@example.com"}
	sendResult := email.BulkResult{Success: true, Sent: 1, FailedRecipients: []string{}}

	deps.subscribers.On("GetActiveEmails", mock.Anything).Return(subscribers, nil)
	deps.sender.On("SendBulk", mock.Anything, subscribers, "Plain subject", "<p>raw</p>").Return(sendResult)
	deps.campaigns.On("RecordCampaign", mock.Anything, "custom", "Plain subject", sendResult, 1).
		Return(&models.Campaign{ID: "c2"}, nil)

	w := doJSON(r, http.MethodPost, "/newsletter/send", gin.H{
		"subject": "Plain subject",
		"body":    "<p>raw</p>",
	})
	require.Equal(t, http.StatusOK, w.Code)
	deps.subscribers.AssertExpectations(t)
	deps.sender.AssertExpectations(t)
}

func TestSendNewsletterRequiresContent(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/newsletter/send", gin.H{"recipients": []string{"a@example.com"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendNewsletterAsyncQueuesTask(t *testing.T) {
	r, deps := newTestRouter()

	var queued *asynq.Task
	deps.taskClient.On("EnqueueContext", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { queued = args.Get(1).(*asynq.Task) }).
		Return(&asynq.TaskInfo{}, nil)

	w := doJSON(r, http.MethodPost, "/newsletter/send", gin.H{
		"template_id": "weekly_update",
		"async":       true,
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	require.NotNil(t, queued)
	assert.Equal(t, tasks.TypeNewsletterCampaign, queued.Type())

	var payload tasks.CampaignPayload
	require.NoError(t, json.Unmarshal(queued.Payload(), &payload))
	assert.Equal(t, "weekly_update", payload.TemplateID)

	// Nothing was sent synchronously.
	deps.sender.AssertNotCalled(t, "SendBulk", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendNewsletterSendFailure(t *testing.T) {
	r, deps := newTestRouter()

	sendResult := email.BulkResult{Success: false, Error: "SMTP not configured", FailedRecipients: []string{}}
	deps.sender.On("SendBulk", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(sendResult)
	deps.campaigns.On("RecordCampaign", mock.Anything, mock.Anything, mock.Anything, sendResult, 0).
		Return(&models.Campaign{ID: "c3"}, nil)

	w := doJSON(r, http.MethodPost, "/newsletter/send", gin.H{
		"subject":    "s",
		"body":       "b",
		"recipients": []string{"a@example.com"},
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestListCampaignsEndpoint(t *testing.T) {
	r, deps := newTestRouter()

	deps.campaigns.On("ListCampaigns", mock.Anything, int64(10)).Return([]models.Campaign{
		{ID: "c1", TemplateID: "custom", Sent: 5, CreatedAt: time.Now()},
	}, nil)

	w := doJSON(r, http.MethodGet, "/newsletter/campaigns?limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Campaigns []models.Campaign `json:"campaigns"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Campaigns, 1)
	assert.Equal(t, "c1", resp.Campaigns[0].ID)
}

func TestListCampaignsBadLimit(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodGet, "/newsletter/campaigns?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscribeEndpoint(t *testing.T) {
	r, deps := newTestRouter()

	deps.subscribers.On("Subscribe", mock.Anything, "user@example.com").
		Return(&models.Subscriber{Email: "user@example.com"}, nil)

	w := doJSON(r, http.MethodPost, "/newsletter/subscribe", gin.H{"email": "user@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"subscribed":true`)
}

func TestSubscribeInvalidEmail(t *testing.T) {
	r, deps := newTestRouter()

	deps.subscribers.On("Subscribe", mock.Anything, "not-an-email").
		Return(nil, services.ErrInvalidEmail)

	w := doJSON(r, http.MethodPost, "/newsletter/subscribe", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnsubscribeEndpoint(t *testing.T) {
	r, deps := newTestRouter()

	deps.subscribers.On("Unsubscribe", mock.Anything, "user@example.com").Return(nil)

	w := doJSON(r, http.MethodPost, "/newsletter/unsubscribe", gin.H{"email": "user@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unsubscribed":true`)
}

func TestUnsubscribeServiceError(t *testing.T) {
	r, deps := newTestRouter()

	deps.subscribers.On("Unsubscribe", mock.Anything, "user@example.com").Return(errors.New("db down"))

	w := doJSON(r, http.MethodPost, "/newsletter/unsubscribe", gin.H{"email": "user@example.com"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
