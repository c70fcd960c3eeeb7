package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Environment
	RunMode string // Set via flag, not env

	// MongoDB
	MongoURI    string
	MongoDbName string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWT (tokens are issued by the admin subsystem; we only validate them)
	JwtSecret string
	JwtTTL    time.Duration

	// Server
	ApiPort string

	// Storefront
	AppName    string
	WebsiteURL string

	// Discord
	DiscordWebhookURLs []string
	WebhookTimeout     time.Duration

	// Email
	SmtpHost        string
	SmtpPort        int
	SmtpUsername    string
	SmtpPassword    string
	SmtpFromAddress string
	SmtpFromName    string

	// Order cleanup
	OrderPendingTTL      time.Duration
	OrderCleanupInterval time.Duration

	// AWS S3 (newsletter image assets)
	AwsAccessKeyID     string
	AwsSecretAccessKey string
	AwsRegion          string
	AwsS3Bucket        string
	ImageBaseS3URL     string
	ImageMaxDimension  int
	ImageMaxSizeMB     int

	// Rate Limiting Defaults
	RateLimitBucketSize int
	RateLimitRefillRate int // tokens per second
}

// Load configuration from environment variables.
// RunMode needs to be passed in as it comes from command-line flags.
func Load(runMode string) (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	godotenv.Load()

	cfg := &Config{
		RunMode: runMode, // Set from flag
	}

	var err error

	// Helper function to get env var or default
	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		return defaultValue
	}

	// Helper function to get required env var
	getRequiredEnv := func(key string) (string, error) {
		value, exists := os.LookupEnv(key)
		if !exists {
			return "", fmt.Errorf("missing required environment variable: %s", key)
		}
		return value, nil
	}

	// Load basic string values
	cfg.MongoURI, err = getRequiredEnv("MONGO_URI")
	if err != nil {
		return nil, err
	}
	cfg.MongoDbName = getEnv("MONGO_DB_NAME", "gameshop")
	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.JwtSecret, err = getRequiredEnv("JWT_SECRET")
	if err != nil {
		return nil, err
	}
	cfg.ApiPort = getEnv("API_PORT", "8080")
	cfg.AppName = getEnv("APP_NAME", "GameShop Nepal")
	cfg.WebsiteURL = getEnv("WEBSITE_URL", "https://gameshopnepal.com")

	// Comma-separated webhook list. Blank entries are kept as-is and skipped
	// at send time, same as blank newsletter recipients.
	if raw := getEnv("DISCORD_WEBHOOK_URLS", ""); raw != "" {
		cfg.DiscordWebhookURLs = strings.Split(raw, ",")
	}

	cfg.SmtpHost = getEnv("SMTP_HOST", "smtp.gmail.com")
	cfg.SmtpUsername = getEnv("SMTP_USER", "")
	cfg.SmtpPassword = getEnv("SMTP_PASSWORD", "")
	cfg.SmtpFromAddress = getEnv("SMTP_FROM_EMAIL", "gameshopnepal.buy@gmail.com")
	cfg.SmtpFromName = getEnv("SMTP_FROM_NAME", "GameShop Nepal")

	cfg.AwsAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	cfg.AwsSecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", "")
	cfg.AwsRegion = getEnv("AWS_REGION", "")
	cfg.AwsS3Bucket = getEnv("AWS_S3_BUCKET", "")
	cfg.ImageBaseS3URL = getEnv("IMAGE_BASE_S3_URL", "")

	// Load numeric and time duration values with defaults and parsing
	cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	jwtTTLSeconds, err := strconv.ParseInt(getEnv("JWT_TTL_SECONDS", "3600"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL_SECONDS: %w", err)
	}
	cfg.JwtTTL = time.Duration(jwtTTLSeconds) * time.Second

	cfg.SmtpPort, err = strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	webhookTimeoutSeconds, err := strconv.ParseInt(getEnv("WEBHOOK_TIMEOUT_SECONDS", "10"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid WEBHOOK_TIMEOUT_SECONDS: %w", err)
	}
	cfg.WebhookTimeout = time.Duration(webhookTimeoutSeconds) * time.Second

	pendingTTLMinutes, err := strconv.ParseInt(getEnv("ORDER_PENDING_TTL_MINUTES", "30"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ORDER_PENDING_TTL_MINUTES: %w", err)
	}
	cfg.OrderPendingTTL = time.Duration(pendingTTLMinutes) * time.Minute

	cleanupIntervalMinutes, err := strconv.ParseInt(getEnv("ORDER_CLEANUP_INTERVAL_MINUTES", "5"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ORDER_CLEANUP_INTERVAL_MINUTES: %w", err)
	}
	cfg.OrderCleanupInterval = time.Duration(cleanupIntervalMinutes) * time.Minute

	cfg.ImageMaxDimension, err = strconv.Atoi(getEnv("IMAGE_MAX_DIMENSION", "2048"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMAGE_MAX_DIMENSION: %w", err)
	}

	cfg.ImageMaxSizeMB, err = strconv.Atoi(getEnv("IMAGE_MAX_SIZE_MB", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMAGE_MAX_SIZE_MB: %w", err)
	}

	// Rate Limiting
	cfg.RateLimitBucketSize, err = strconv.Atoi(getEnv("RATE_LIMIT_BUCKET_SIZE", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BUCKET_SIZE: %w", err)
	}
	cfg.RateLimitRefillRate, err = strconv.Atoi(getEnv("RATE_LIMIT_REFILL_RATE", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REFILL_RATE: %w", err)
	}

	return cfg, nil
}

// SmtpConfigured reports whether SMTP credentials are present. Absence is not
// a startup error; the newsletter sender surfaces it in its result instead.
func (c *Config) SmtpConfigured() bool {
	return c.SmtpUsername != "" && c.SmtpPassword != ""
}
