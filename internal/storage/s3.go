package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

var _ Storage = (*S3Storage)(nil)

// S3Client is the part of the S3 API the driver uses. *s3.Client satisfies it.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures the S3 driver. Endpoint and ForcePathStyle are for
// S3-compatible services such as MinIO.
type S3Config struct {
	Bucket         string
	Region         string
	Endpoint       string
	AccessKeyID    string
	SecretKey      string
	ForcePathStyle bool
	// PublicBase is prefixed to keys to build URLs (bucket website or CDN)
	PublicBase string
}

// S3Storage stores objects in a bucket.
type S3Storage struct {
	client     S3Client
	bucket     string
	publicBase string
	logger     *slog.Logger
}

// NewS3Storage builds an S3 client from cfg. Static credentials are used when
// given, otherwise the default AWS chain (env, shared config, IAM role).
func NewS3Storage(ctx context.Context, cfg S3Config, logger *slog.Logger) (*S3Storage, error) {
	if cfg.Bucket == "" || cfg.Region == "" || cfg.PublicBase == "" {
		return nil, fmt.Errorf("%w: S3 bucket, region and public base are required", ErrInvalidConfig)
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return NewS3StorageWithClient(client, cfg.Bucket, cfg.PublicBase, logger), nil
}

// NewS3StorageWithClient wraps a pre-built client. Used by tests.
func NewS3StorageWithClient(client S3Client, bucket, publicBase string, logger *slog.Logger) *S3Storage {
	return &S3Storage{client: client, bucket: bucket, publicBase: publicBase, logger: logger}
}

// Put uploads data with its content type.
func (s *S3Storage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", classifyS3Error(err)
	}

	s.logger.Debug("stored object", "bucket", s.bucket, "key", key, "size", len(data))
	return joinURL(s.publicBase, key), nil
}

func classifyS3Error(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("put object failed (code: %s): %w", apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("put object failed: %w", err)
}
