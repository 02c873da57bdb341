package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	appconfig "medalarm-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// AttachmentStore persists medication image payloads and returns a stable URL
type AttachmentStore interface {
	// Store uploads the payload and returns its URL. The returned bool is
	// false when storing is disabled and the payload should stay inline.
	Store(ctx context.Context, key, contentType string, data []byte) (string, bool, error)
}

// S3AttachmentStore stores attachments in an S3 bucket
type S3AttachmentStore struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
}

// NewS3AttachmentStore creates an S3-backed attachment store
func NewS3AttachmentStore(cfg appconfig.S3Config) (*S3AttachmentStore, error) {
	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsConfig, err := awscfg.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3AttachmentStore{
		client:   client,
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		endpoint: cfg.Endpoint,
	}, nil
}

// Store uploads the payload under the given key
func (s *S3AttachmentStore) Store(ctx context.Context, key, contentType string, data []byte) (string, bool, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to upload attachment: %w", err)
	}

	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.endpoint, "/"), s.bucket, key), true, nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), true, nil
}

// InlineAttachmentStore leaves payloads inline on the record. Used when no
// bucket is configured.
type InlineAttachmentStore struct{}

// Store reports that the payload should stay inline
func (InlineAttachmentStore) Store(ctx context.Context, key, contentType string, data []byte) (string, bool, error) {
	return "", false, nil
}

// decodeImagePayload splits a data URI or bare base64 string into content
// type and raw bytes. Returns ok=false for values that are not image
// payloads (e.g. an already-offloaded URL).
func decodeImagePayload(value string) (contentType string, data []byte, ok bool) {
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return "", nil, false
	}

	contentType = "image/jpeg"
	payload := value
	if strings.HasPrefix(value, "data:") {
		rest := strings.TrimPrefix(value, "data:")
		semi := strings.Index(rest, ";base64,")
		if semi < 0 {
			return "", nil, false
		}
		contentType = rest[:semi]
		payload = rest[semi+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, false
	}
	return contentType, data, true
}
