// Package archive uploads collection snapshots to an S3-compatible bucket.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/mamadbah2/buffalo/internal/config"
)

// Archiver stores a snapshot body under key.
type Archiver interface {
	Put(ctx context.Context, key string, body []byte) error
}

// S3Archiver writes snapshots to a single bucket. Keys map to object keys directly.
type S3Archiver struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

// Options tweak client construction. Static keys fall back to the default
// credentials chain when empty.
type Options struct {
	AccessKeyID     string
	SecretAccessKey string
	ClientOptions   []func(*s3.Options)
}

// NewS3Archiver creates an archiver for cfg.Bucket.
func NewS3Archiver(ctx context.Context, cfg config.ArchiveConfig, opts Options, logger *zap.Logger) (*S3Archiver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		for _, fn := range opts.ClientOptions {
			fn(o)
		}
	})

	return &S3Archiver{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// Put uploads body as a JSON object, overwriting any object with the same key.
func (a *S3Archiver) Put(ctx context.Context, key string, body []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", a.bucket, key, err)
	}
	a.logger.Info("snapshot archived", zap.String("bucket", a.bucket), zap.String("key", key), zap.Int("bytes", len(body)))
	return nil
}
