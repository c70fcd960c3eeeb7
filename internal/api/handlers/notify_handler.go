package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"github.com/gameshopnepal/backend/internal/config"
	"github.com/gameshopnepal/backend/internal/models"
	"github.com/gameshopnepal/backend/internal/tasks"
)

// NotifyHandler queues Discord order notifications.
type NotifyHandler struct {
	cfg        *config.Config
	taskClient IAsynqClient
}

// NewNotifyHandler creates a new NotifyHandler.
func NewNotifyHandler(cfg *config.Config, taskClient IAsynqClient) *NotifyHandler {
	return &NotifyHandler{cfg: cfg, taskClient: taskClient}
}

type orderNotifyRequest struct {
	Order   models.Order    `json:"order" binding:"required"`
	Product *models.Product `json:"product"`
}

// NotifyOrder handles POST /v1/orders/notify. The notification is queued
// and broadcast in the background; the response never waits on Discord.
func (h *NotifyHandler) NotifyOrder(c *gin.Context) {
	var req orderNotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	payload, err := json.Marshal(tasks.OrderNotifyPayload{Order: req.Order, Product: req.Product})
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue notification"})
		return
	}

	task := asynq.NewTask(tasks.TypeDiscordOrderNotify, payload)
	if _, err := h.taskClient.EnqueueContext(c.Request.Context(), task, asynq.Queue("critical")); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue notification"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

type statusNotifyRequest struct {
	Order     models.Order `json:"order" binding:"required"`
	OldStatus string       `json:"old_status" binding:"required"`
	NewStatus string       `json:"new_status" binding:"required"`
}

// NotifyStatusChange handles POST /v1/orders/notify-status.
func (h *NotifyHandler) NotifyStatusChange(c *gin.Context) {
	var req statusNotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	payload, err := json.Marshal(tasks.StatusUpdatePayload{
		Order:     req.Order,
		OldStatus: req.OldStatus,
		NewStatus: req.NewStatus,
	})
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue notification"})
		return
	}

	task := asynq.NewTask(tasks.TypeDiscordStatusUpdate, payload)
	if _, err := h.taskClient.EnqueueContext(c.Request.Context(), task, asynq.Queue("critical")); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue notification"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
