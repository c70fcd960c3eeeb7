package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gameshopnepal/backend/internal/api/handlers"
	"github.com/gameshopnepal/backend/internal/api/middleware"
	"github.com/gameshopnepal/backend/internal/config"
	"github.com/gameshopnepal/backend/internal/email"
	"github.com/gameshopnepal/backend/internal/newsletter"
	"github.com/gameshopnepal/backend/internal/services"
	"github.com/gameshopnepal/backend/internal/storage"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(
	cfg *config.Config,
	db *mongo.Database,
	registry *newsletter.Registry,
	bulkSender email.BulkSender,
	taskClient handlers.IAsynqClient,
) *gin.Engine {
	campaignService := services.NewCampaignService(db)
	subscriberService := services.NewSubscriberService(db)

	// S3 is optional: without it the asset upload route is simply not
	// registered.
	var assetStorage storage.IAssetStorage
	if cfg.AwsS3Bucket != "" {
		s3Storage, err := storage.NewS3Storage(cfg)
		if err != nil {
			log.Printf("WARNING: Failed to initialize S3 storage, asset uploads disabled: %v", err)
		} else {
			assetStorage = s3Storage
		}
	} else {
		log.Println("S3 bucket not configured, asset uploads disabled.")
	}

	r := gin.Default()

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)

	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	newsletterHandler := handlers.NewNewsletterHandler(
		cfg, registry, bulkSender, campaignService, subscriberService, assetStorage, taskClient)
	notifyHandler := handlers.NewNotifyHandler(cfg, taskClient)

	v1 := r.Group("/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		// Public subscriber routes (storefront footer form + unsubscribe link)
		v1.POST("/newsletter/subscribe", newsletterHandler.Subscribe)
		v1.POST("/newsletter/unsubscribe", newsletterHandler.Unsubscribe)

		// Admin routes
		adminRequired := v1.Group("/")
		adminRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret), middleware.AdminMiddleware())
		{
			adminRequired.GET("/newsletter/templates", newsletterHandler.ListTemplates)
			adminRequired.POST("/newsletter/render", newsletterHandler.RenderTemplate)
			adminRequired.POST("/newsletter/send", newsletterHandler.SendNewsletter)
			adminRequired.GET("/newsletter/campaigns", newsletterHandler.ListCampaigns)
			if assetStorage != nil {
				adminRequired.POST("/newsletter/assets", newsletterHandler.UploadAsset)
			}

			adminRequired.POST("/orders/notify", notifyHandler.NotifyOrder)
			adminRequired.POST("/orders/notify-status", notifyHandler.NotifyStatusChange)
		}
	}

	return r
}
