// Package storage keeps generated documents in object storage or on local disk.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	infraconfig "github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/config"
	"go.uber.org/zap"
)

// S3DocumentStore stores documents in an S3 compatible bucket (AWS S3, MinIO, RustFS)
type S3DocumentStore struct {
	client   *s3.Client
	bucket   string
	endpoint string
	pathURL  bool
	logger   *zap.Logger
}

// S3DocumentStoreOption is a functional option for configuring S3DocumentStore
type S3DocumentStoreOption func(*S3DocumentStore)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) S3DocumentStoreOption {
	return func(s *S3DocumentStore) {
		s.logger = logger
	}
}

// NewS3DocumentStore creates a store from configuration
func NewS3DocumentStore(ctx context.Context, cfg infraconfig.StorageConfig, opts ...S3DocumentStoreOption) (*S3DocumentStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("storage credentials are required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	if endpoint == "" {
		endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", region)
	}
	store := &S3DocumentStore{
		client:   client,
		bucket:   cfg.Bucket,
		endpoint: endpoint,
		pathURL:  cfg.UsePathStyle,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *S3DocumentStore) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Put uploads a document and returns its object URL
func (s *S3DocumentStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	s.logger.Debug("Document uploaded",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("size", len(data)))
	return s.ObjectURL(key), nil
}

// ObjectURL returns the address of a key in path or virtual-hosted style
func (s *S3DocumentStore) ObjectURL(key string) string {
	if s.pathURL {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	scheme, host, _ := strings.Cut(s.endpoint, "://")
	return fmt.Sprintf("%s://%s.%s/%s", scheme, s.bucket, host, key)
}

// Bucket returns the bucket name
func (s *S3DocumentStore) Bucket() string {
	return s.bucket
}
