package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"github.com/gameshopnepal/backend/internal/config"
	"github.com/gameshopnepal/backend/internal/email"
	"github.com/gameshopnepal/backend/internal/newsletter"
	"github.com/gameshopnepal/backend/internal/services"
	"github.com/gameshopnepal/backend/internal/storage"
	"github.com/gameshopnepal/backend/internal/tasks"
)

// IAsynqClient defines the subset of asynq.Client used by handlers,
// so tests can swap in a mock.
type IAsynqClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NewsletterHandler handles newsletter template, campaign and subscriber
// requests.
type NewsletterHandler struct {
	cfg               *config.Config
	registry          *newsletter.Registry
	bulkSender        email.BulkSender
	campaignService   services.ICampaignService
	subscriberService services.ISubscriberService
	assetStorage      storage.IAssetStorage
	taskClient        IAsynqClient
}

// NewNewsletterHandler creates a new NewsletterHandler.
func NewNewsletterHandler(
	cfg *config.Config,
	registry *newsletter.Registry,
	bulkSender email.BulkSender,
	campaignService services.ICampaignService,
	subscriberService services.ISubscriberService,
	assetStorage storage.IAssetStorage,
	taskClient IAsynqClient,
) *NewsletterHandler {
	return &NewsletterHandler{
		cfg:               cfg,
		registry:          registry,
		bulkSender:        bulkSender,
		campaignService:   campaignService,
		subscriberService: subscriberService,
		assetStorage:      assetStorage,
		taskClient:        taskClient,
	}
}

// ListTemplates handles GET /v1/newsletter/templates
func (h *NewsletterHandler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": h.registry.List()})
}

type renderRequest struct {
	TemplateID string         `json:"template_id" binding:"required"`
	Variables  map[string]any `json:"variables"`
	BaseURL    string         `json:"base_url"`
}

// stringifyVariables coerces mixed-type template variables (numbers, bools)
// into the strings the renderer substitutes.
func stringifyVariables(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		case nil:
			out[k] = ""
		default:
			out[k] = fmt.Sprintf("%v", val)
		}
	}
	return out
}

// RenderTemplate handles POST /v1/newsletter/render
func (h *NewsletterHandler) RenderTemplate(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	baseURL := req.BaseURL
	if baseURL == "" {
		baseURL = h.cfg.WebsiteURL
	}

	subject, body, err := h.registry.Render(req.TemplateID, stringifyVariables(req.Variables), baseURL)
	if err != nil {
		if errors.Is(err, newsletter.ErrTemplateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Unknown template: %s", req.TemplateID)})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render template"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subject": subject, "body": body})
}

type sendRequest struct {
	TemplateID string         `json:"template_id"`
	Variables  map[string]any `json:"variables"`
	Subject    string         `json:"subject"`
	Body       string         `json:"body"`
	Recipients []string       `json:"recipients"`
	Async      bool           `json:"async"`
}

// SendNewsletter handles POST /v1/newsletter/send.
// The campaign content comes either from a registered template plus
// variables, or from a raw subject/body pair.
func (h *NewsletterHandler) SendNewsletter(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if req.TemplateID == "" && (req.Subject == "" || req.Body == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either template_id or subject and body are required"})
		return
	}

	if req.Async && req.TemplateID != "" {
		payload, err := json.Marshal(tasks.CampaignPayload{
			TemplateID: req.TemplateID,
			Variables:  stringifyVariables(req.Variables),
			Recipients: req.Recipients,
		})
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue campaign"})
			return
		}
		task := asynq.NewTask(tasks.TypeNewsletterCampaign, payload)
		if _, err := h.taskClient.EnqueueContext(c.Request.Context(), task, asynq.Queue("default")); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue campaign"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "queued", "template_id": req.TemplateID})
		return
	}

	subject := req.Subject
	body := req.Body
	templateID := req.TemplateID
	if templateID != "" {
		var err error
		subject, body, err = h.registry.Render(templateID, stringifyVariables(req.Variables), h.cfg.WebsiteURL)
		if err != nil {
			if errors.Is(err, newsletter.ErrTemplateNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Unknown template: %s", templateID)})
				return
			}
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render template"})
			return
		}
	} else {
		templateID = "custom"
	}

	recipients := req.Recipients
	if len(recipients) == 0 {
		var err error
		recipients, err = h.subscriberService.GetActiveEmails(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscribers"})
			return
		}
	}

	result := h.bulkSender.SendBulk(c.Request.Context(), recipients, subject, body)

	if _, err := h.campaignService.RecordCampaign(c.Request.Context(), templateID, subject, result, result.Sent+result.Failed); err != nil {
		log.Printf("Error recording campaign history: %v", err)
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{
		"success":           result.Success,
		"sent":              result.Sent,
		"failed":            result.Failed,
		"failed_recipients": result.FailedRecipients,
		"error":             result.Error,
	})
}

// ListCampaigns handles GET /v1/newsletter/campaigns
func (h *NewsletterHandler) ListCampaigns(c *gin.Context) {
	limit := int64(0)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	campaigns, err := h.campaignService.ListCampaigns(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list campaigns"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}

type subscribeRequest struct {
	Email string `json:"email" binding:"required"`
}

// Subscribe handles POST /v1/newsletter/subscribe
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	sub, err := h.subscriberService.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, services.ErrInvalidEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribed": true, "email": sub.Email})
}

// Unsubscribe handles POST /v1/newsletter/unsubscribe
func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.subscriberService.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsubscribe"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unsubscribed": true})
}

// UploadAsset handles POST /v1/newsletter/assets (multipart form, field
// "image"). The raw file is stored in S3 and a resize task is queued.
func (h *NewsletterHandler) UploadAsset(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file"})
		return
	}

	maxSizeBytes := int64(h.cfg.ImageMaxSizeMB) * 1024 * 1024
	if fileHeader.Size > maxSizeBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("Image exceeds %dMB limit", h.cfg.ImageMaxSizeMB)})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	key, url, err := h.assetStorage.Upload(c.Request.Context(), data, fileHeader.Filename, contentType)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}

	payload, err := json.Marshal(tasks.AssetProcessPayload{S3Key: key})
	if err == nil {
		task := asynq.NewTask(tasks.TypeAssetProcess, payload)
		if _, enqErr := h.taskClient.EnqueueContext(c.Request.Context(), task, asynq.Queue("low")); enqErr != nil {
			log.Printf("Error queueing asset processing for %s: %v", key, enqErr)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"key": key, "url": url})
}
