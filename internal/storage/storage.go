// Package storage provides S3-compatible object storage for uploaded
// profile pictures. It works against AWS S3 or any S3-compatible endpoint
// (MinIO-style deployments).
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Service defines the interface for object storage operations
type Service interface {
	// Upload stores an object and returns its public URL
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)

	// Health checks if the storage backend is accessible
	Health(ctx context.Context) error
}

// Config holds object storage configuration
type Config struct {
	Region    string
	Bucket    string
	Endpoint  string // optional, for S3-compatible backends
	AccessKey string
	SecretKey string
}

type service struct {
	client *s3.Client
	cfg    Config
	logger *slog.Logger
}

// New creates a storage service for the configured bucket
func New(ctx context.Context, cfg Config, logger *slog.Logger) (Service, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// Path-style addressing; virtual-hosted style does not
			// work against most S3-compatible backends.
			o.UsePathStyle = true
		}
	})

	return &service{
		client: client,
		cfg:    cfg,
		logger: logger,
	}, nil
}

func (s *service) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	objectURL := s.objectURL(key)
	s.logger.Info("Uploaded object", "key", key, "url", objectURL)

	return objectURL, nil
}

func (s *service) Health(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.cfg.Bucket),
	})
	if err != nil {
		return fmt.Errorf("storage health check failed: %w", err)
	}
	return nil
}

func (s *service) objectURL(key string) string {
	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s",
			strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, url.PathEscape(key))
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.cfg.Bucket, s.cfg.Region, url.PathEscape(key))
}
