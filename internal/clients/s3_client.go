// Package clients holds adapters for external services.
package clients

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectUploader stores a file under a key. Backups use it for off-site copies.
type ObjectUploader interface {
	Upload(ctx context.Context, key string, body io.Reader) error
}

// S3Client wraps the AWS S3 client for a single bucket.
type S3Client struct {
	svc    *s3.Client
	bucket string
}

// NewS3Client loads the default AWS credential chain. A non-empty endpoint
// (MinIO, LocalStack) switches to path-style addressing.
func NewS3Client(ctx context.Context, bucket, region, endpoint string) (*S3Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	svc := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Client{svc: svc, bucket: bucket}, nil
}

// Upload puts body under key in the configured bucket.
func (client *S3Client) Upload(ctx context.Context, key string, body io.Reader) error {
	_, err := client.svc.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(client.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", key, client.bucket, err)
	}
	return nil
}
