package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/gameshopnepal/backend/internal/config"
)

// IAssetStorage defines the interface for newsletter image asset storage.
type IAssetStorage interface {
	Upload(ctx context.Context, data []byte, filename, contentType string) (key string, url string, err error)
}

// s3Storage implements IAssetStorage.
type s3Storage struct {
	cfg      *config.Config
	s3Client *s3.Client
}

// NewS3Storage creates a new S3 asset storage service.
func NewS3Storage(cfg *config.Config) (IAssetStorage, error) {
	if cfg.AwsS3Bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET not configured")
	}

	awsCfg, err := aws_config.LoadDefaultConfig(context.TODO(),
		aws_config.WithRegion(cfg.AwsRegion),
		// Static credentials from config; prefer IAM roles in production.
		aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"", // session token
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &s3Storage{
		cfg:      cfg,
		s3Client: s3.NewFromConfig(awsCfg),
	}, nil
}

// Upload stores an asset under a generated key and returns the key and the
// public URL it will be served from.
func (s *s3Storage) Upload(ctx context.Context, data []byte, filename, contentType string) (string, string, error) {
	ext := strings.ToLower(path.Ext(filename))
	key := fmt.Sprintf("newsletter/%s%s", uuid.NewString(), ext)

	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.AwsS3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload asset %s: %w", key, err)
	}

	url := strings.TrimSuffix(s.cfg.ImageBaseS3URL, "/") + "/" + key
	return key, url, nil
}
