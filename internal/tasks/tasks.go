package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // registered for image.Decode
	"io"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hibiken/asynq"
	"github.com/nfnt/resize"
	"github.com/redis/go-redis/v9"

	"github.com/gameshopnepal/backend/internal/config"
	"github.com/gameshopnepal/backend/internal/discord"
	"github.com/gameshopnepal/backend/internal/email"
	"github.com/gameshopnepal/backend/internal/models"
	"github.com/gameshopnepal/backend/internal/newsletter"
	"github.com/gameshopnepal/backend/internal/services"
)

// Background task types.
const (
	TypeDiscordOrderNotify  = "discord:order_notify"
	TypeDiscordStatusUpdate = "discord:status_update"
	TypeNewsletterCampaign  = "newsletter:campaign"
	TypeAssetProcess        = "asset:process"
)

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	clientOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}
	return asynq.NewClient(clientOpt)
}

// --- Task Server (Processing tasks) ---

// TaskProcessor handles the processing of tasks.
// It holds dependencies needed by task handlers.
type TaskProcessor struct {
	cfg               *config.Config
	registry          *newsletter.Registry
	bulkSender        email.BulkSender
	broadcaster       *discord.Broadcaster
	campaignService   services.ICampaignService
	subscriberService services.ISubscriberService
	s3Client          *s3.Client
}

func NewTaskProcessor(
	cfg *config.Config,
	registry *newsletter.Registry,
	bulkSender email.BulkSender,
	broadcaster *discord.Broadcaster,
	campaignService services.ICampaignService,
	subscriberService services.ISubscriberService,
	s3Client *s3.Client,
) *TaskProcessor {
	return &TaskProcessor{
		cfg:               cfg,
		registry:          registry,
		bulkSender:        bulkSender,
		broadcaster:       broadcaster,
		campaignService:   campaignService,
		subscriberService: subscriberService,
		s3Client:          s3Client,
	}
}

// SetupServer configures an Asynq server and the mux with all task handlers
// registered. The caller runs the returned server.
func SetupServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	serverOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}

	srv := asynq.NewServer(
		serverOpt,
		asynq.Config{
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeDiscordOrderNotify, processor.HandleDiscordOrderNotifyTask)
	mux.HandleFunc(TypeDiscordStatusUpdate, processor.HandleDiscordStatusUpdateTask)
	mux.HandleFunc(TypeNewsletterCampaign, processor.HandleNewsletterCampaignTask)
	mux.HandleFunc(TypeAssetProcess, processor.HandleAssetProcessTask)
	fmt.Println("Registered background task handlers.")

	return srv, mux
}

// --- Task Handlers ---

// OrderNotifyPayload carries one order snapshot (plus optional product
// context) for the new-order Discord notification.
type OrderNotifyPayload struct {
	Order   models.Order    `json:"order"`
	Product *models.Product `json:"product,omitempty"`
}

// StatusUpdatePayload carries an order status transition.
type StatusUpdatePayload struct {
	Order     models.Order `json:"order"`
	OldStatus string       `json:"old_status"`
	NewStatus string       `json:"new_status"`
}

// CampaignPayload describes an async newsletter campaign. An empty Recipients
// list means all active subscribers at dispatch time.
type CampaignPayload struct {
	TemplateID string            `json:"template_id"`
	Variables  map[string]string `json:"variables"`
	Recipients []string          `json:"recipients,omitempty"`
}

// AssetProcessPayload identifies an uploaded newsletter image to normalize.
type AssetProcessPayload struct {
	S3Key string `json:"s3_key"`
}

// HandleDiscordOrderNotifyTask builds and broadcasts a new-order
// notification. Broadcasting is best-effort, so the task never retries:
// per-webhook failures are already logged by the broadcaster.
func (p *TaskProcessor) HandleDiscordOrderNotifyTask(ctx context.Context, t *asynq.Task) error {
	var payload OrderNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal order notify payload: %v: %w", err, asynq.SkipRetry)
	}

	msg := discord.BuildOrderMessage(payload.Order, payload.Product)
	p.broadcaster.Broadcast(ctx, p.cfg.DiscordWebhookURLs, msg)
	return nil
}

// HandleDiscordStatusUpdateTask builds and broadcasts a status-change
// notification.
func (p *TaskProcessor) HandleDiscordStatusUpdateTask(ctx context.Context, t *asynq.Task) error {
	var payload StatusUpdatePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal status update payload: %v: %w", err, asynq.SkipRetry)
	}

	msg := discord.BuildStatusChangeMessage(payload.Order, payload.OldStatus, payload.NewStatus)
	p.broadcaster.Broadcast(ctx, p.cfg.DiscordWebhookURLs, msg)
	return nil
}

// HandleNewsletterCampaignTask renders a campaign, sends it to the resolved
// recipient list and records the outcome in campaign history. Send failures
// are reflected in the history record, not retried.
func (p *TaskProcessor) HandleNewsletterCampaignTask(ctx context.Context, t *asynq.Task) error {
	var payload CampaignPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal campaign payload: %v: %w", err, asynq.SkipRetry)
	}

	subject, body, err := p.registry.Render(payload.TemplateID, payload.Variables, p.cfg.WebsiteURL)
	if err != nil {
		log.Printf("Error rendering campaign template %s: %v", payload.TemplateID, err)
		if errors.Is(err, newsletter.ErrTemplateNotFound) {
			return fmt.Errorf("campaign template not found: %w", asynq.SkipRetry)
		}
		return err
	}

	recipients := payload.Recipients
	if len(recipients) == 0 {
		recipients, err = p.subscriberService.GetActiveEmails(ctx)
		if err != nil {
			log.Printf("Error loading subscribers for campaign %s: %v", payload.TemplateID, err)
			return err
		}
	}

	result := p.bulkSender.SendBulk(ctx, recipients, subject, body)

	if _, err := p.campaignService.RecordCampaign(ctx, payload.TemplateID, subject, result, result.Sent+result.Failed); err != nil {
		log.Printf("Error recording campaign history: %v", err)
	}

	if !result.Success {
		log.Printf("Campaign %s did not complete: %s (sent=%d, failed=%d)", payload.TemplateID, result.Error, result.Sent, result.Failed)
		return nil // Best-effort delivery; the history record carries the outcome.
	}

	log.Printf("Campaign %s sent: %d delivered, %d failed.", payload.TemplateID, result.Sent, result.Failed)
	return nil
}

// HandleAssetProcessTask normalizes an uploaded newsletter image: it is
// downloaded from S3, resized when it exceeds the max dimension, re-encoded
// as JPEG and written back under the same key.
func (p *TaskProcessor) HandleAssetProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload AssetProcessPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal asset payload: %v: %w", err, asynq.SkipRetry)
	}

	if p.s3Client == nil {
		log.Printf("Asset processing requested but S3 is not configured. Skipping %s.", payload.S3Key)
		return fmt.Errorf("s3 not configured: %w", asynq.SkipRetry)
	}

	log.Printf("Processing newsletter asset: S3Key=%s", payload.S3Key)

	getObjectOutput, err := p.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.cfg.AwsS3Bucket),
		Key:    aws.String(payload.S3Key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			log.Printf("S3 object %s not found, likely upload failed or key incorrect.", payload.S3Key)
			return fmt.Errorf("s3 object not found: %w", asynq.SkipRetry)
		}
		return fmt.Errorf("failed to download asset from S3: %w", err)
	}
	defer getObjectOutput.Body.Close()

	imgData, err := io.ReadAll(getObjectOutput.Body)
	if err != nil {
		return fmt.Errorf("failed to read asset data: %w", err)
	}

	maxSizeBytes := int64(p.cfg.ImageMaxSizeMB) * 1024 * 1024
	if int64(len(imgData)) > maxSizeBytes {
		log.Printf("Asset %s exceeds max size (%d > %d bytes). Skipping.", payload.S3Key, len(imgData), maxSizeBytes)
		return fmt.Errorf("asset exceeds max size: %w", asynq.SkipRetry)
	}

	img, format, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return fmt.Errorf("unsupported image format or corrupt image: %w", asynq.SkipRetry)
	}
	log.Printf("Decoded asset %s, format: %s, size: %dx%d", payload.S3Key, format, img.Bounds().Dx(), img.Bounds().Dy())

	maxDim := uint(p.cfg.ImageMaxDimension)
	if uint(img.Bounds().Dx()) <= maxDim && uint(img.Bounds().Dy()) <= maxDim {
		return nil // Already within bounds; keep the original upload.
	}

	resizedImg := resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resizedImg, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("failed to re-encode resized asset: %w", err)
	}

	_, err = p.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.cfg.AwsS3Bucket),
		Key:         aws.String(payload.S3Key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload processed asset: %w", err)
	}

	log.Printf("Asset processed successfully: Key=%s, resized to %dx%d", payload.S3Key, resizedImg.Bounds().Dx(), resizedImg.Bounds().Dy())
	return nil
}
