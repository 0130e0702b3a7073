package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"relaybackend/clients"
	"relaybackend/core"
)

const maxUploadSize = 10 * 1024 * 1024 // 10MB

// S3Client implements the clients.BlobClient interface against S3 or any
// S3-compatible store (R2, MinIO) via a custom endpoint
type S3Client struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

type Config struct {
	Endpoint  string
	Bucket    string
	PublicURL string
	Region    string
}

// NewS3Client creates a new blob store client
func NewS3Client(cfg Config) (clients.BlobClient, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Client{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// Upload puts an object into the bucket and returns its public URL
func (s *S3Client) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: file data", core.ErrValidation)
	}
	if len(data) > maxUploadSize {
		return "", fmt.Errorf("%w: file too large: %d bytes", core.ErrValidation, len(data))
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to upload object %s: %v", core.ErrUpstream, key, err)
	}

	return fmt.Sprintf("%s/%s", s.publicURL, key), nil
}
