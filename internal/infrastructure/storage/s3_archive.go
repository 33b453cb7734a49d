// Package storage provides the source file archive backing import jobs.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	reconapp "github.com/vendorcat/backend/internal/application/recon"
	"github.com/vendorcat/backend/internal/domain/shared"
	infraconfig "github.com/vendorcat/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure S3FileArchive implements FileArchive
var _ reconapp.FileArchive = (*S3FileArchive)(nil)

// S3FileArchive stores uploaded source files in an S3-compatible bucket.
// It works against AWS S3 as well as MinIO-style endpoints.
type S3FileArchive struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

// S3FileArchiveOption is a functional option for configuring S3FileArchive
type S3FileArchiveOption func(*S3FileArchive)

// WithLogger sets a custom logger for S3FileArchive
func WithLogger(logger *zap.Logger) S3FileArchiveOption {
	return func(a *S3FileArchive) {
		a.logger = logger
	}
}

// NewS3FileArchive creates a new S3FileArchive from configuration
func NewS3FileArchive(cfg *infraconfig.StorageConfig, opts ...S3FileArchiveOption) (*S3FileArchive, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			endpoint := cfg.Endpoint
			if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
				endpoint = "https://" + endpoint
			}
			if _, err := url.Parse(endpoint); err == nil {
				o.BaseEndpoint = aws.String(endpoint)
			}
		}
	})

	archive := &S3FileArchive{
		client: client,
		bucket: cfg.Bucket,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(archive)
	}
	return archive, nil
}

// archiveKey builds the object key for one file of one job
func archiveKey(jobID uuid.UUID, name string) string {
	return fmt.Sprintf("imports/%s/%s", jobID, name)
}

// EnsureBucket creates the bucket if it doesn't exist. Call during startup.
func (a *S3FileArchive) EnsureBucket(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(a.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	a.logger.Info("Creating archive bucket", zap.String("bucket", a.bucket))
	_, err = a.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(a.bucket),
	})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Store archives one source file of a job
func (a *S3FileArchive) Store(ctx context.Context, jobID uuid.UUID, name string, data []byte) error {
	if name == "" {
		return errors.New("file name is required")
	}
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(archiveKey(jobID, name)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to archive file: %w", err)
	}
	return nil
}

// Fetch reads back one archived source file
func (a *S3FileArchive) Fetch(ctx context.Context, jobID uuid.UUID, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("file name is required")
	}
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(archiveKey(jobID, name)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) || strings.Contains(err.Error(), "NoSuchKey") {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch archived file: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read archived file: %w", err)
	}
	return data, nil
}
