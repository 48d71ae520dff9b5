package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/globalpath/platform/internal/settings"
)

// ObjectPutter is the subset of the S3 API the upload path needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ObjectStore covers the full object lifecycle: store, remove, and hand out
// time-limited download links.
type ObjectStore interface {
	ObjectPutter
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	PresignGet(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}

// s3Store pairs the S3 client with its presigner so the uploader only deals
// with one handle.
type s3Store struct {
	*s3.Client
	presigner *s3.PresignClient
}

func (s *s3Store) PresignGet(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// NewS3Client builds an S3 client from resolved storage settings. It returns
// nil without error when the provider is not s3 or the credentials are
// incomplete: the caller treats a nil client as "S3 not configured" and
// stores files locally.
func NewS3Client(ctx context.Context, cfg settings.Storage) (*s3Store, error) {
	if cfg.Provider != "s3" {
		return nil, nil
	}
	if cfg.AWSAccessKeyID == "" || cfg.AWSSecretAccessKey == "" || cfg.AWSS3Bucket == "" {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AWSEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpoint)
		}
		if cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
	})

	return &s3Store{Client: client, presigner: s3.NewPresignClient(client)}, nil
}

// objectURL builds the public URL for a stored object.
func objectURL(cfg settings.Storage, key string) string {
	if cfg.AWSEndpoint != "" {
		return fmt.Sprintf("%s/%s/%s", cfg.AWSEndpoint, cfg.AWSS3Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", cfg.AWSS3Bucket, cfg.AWSRegion, key)
}
