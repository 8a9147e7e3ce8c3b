package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"studyabroad-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrNotConfigured = errors.New("object storage is not configured")

// Client uploads objects to one S3-compatible bucket (AWS, R2, MinIO).
type Client struct {
	s3     *s3.Client
	bucket string
}

// Configured reports whether a bucket is set. Exports are disabled otherwise.
func Configured(cfg *config.Config) bool {
	return cfg.Storage.Bucket != ""
}

func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if !Configured(cfg) {
		return nil, ErrNotConfigured
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Storage.Region),
	}
	if cfg.Storage.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("configure object storage: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Client{s3: client, bucket: cfg.Storage.Bucket}, nil
}

func (c *Client) Bucket() string {
	return c.bucket
}

// Put uploads body under key.
func (c *Client) Put(ctx context.Context, key, contentType string, body []byte) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
