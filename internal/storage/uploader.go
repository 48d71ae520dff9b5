package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/globalpath/platform/internal/settings"
	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/logger"
	"go.uber.org/zap"
)

// Provider identifies where an uploaded file ended up.
type Provider string

const (
	ProviderS3    Provider = "s3"
	ProviderLocal Provider = "local"
)

// UploadInput describes one file to store.
type UploadInput struct {
	Category    string
	OwnerID     string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResult reports where the file was stored and how to reach it.
type UploadResult struct {
	Provider Provider `json:"provider"`
	Key      string   `json:"key"`
	URL      string   `json:"url"`
	Size     int64    `json:"size"`
}

// Uploader stores files in S3 when it is configured and healthy, and on
// local disk otherwise. Validation happens before any store is touched.
type Uploader struct {
	factory   *Factory
	localRoot string
	urlPrefix string
}

// NewUploader creates an uploader writing local fallbacks under localRoot and
// serving them under urlPrefix.
func NewUploader(factory *Factory, localRoot, urlPrefix string) *Uploader {
	return &Uploader{
		factory:   factory,
		localRoot: localRoot,
		urlPrefix: urlPrefix,
	}
}

// Upload validates the file, then tries S3, then falls back to local disk.
// Validation failures are the only errors a correctly deployed instance
// returns: an S3 outage downgrades to local storage instead of failing.
func (u *Uploader) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	cfg, err := u.factory.resolver.StorageSettings(ctx)
	if err != nil {
		cfg = settings.Defaults().Storage
	}

	if err := validate(in, cfg); err != nil {
		return nil, err
	}

	key := buildKey(in.Category, in.OwnerID, in.Filename)

	// The whole body is needed twice when S3 fails, so buffer it once.
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, common.NewInternalError("Failed to read upload", err)
	}

	client, cfg, err := u.factory.Client(ctx)
	if err == nil && client != nil {
		result, s3Err := u.putS3(ctx, client, cfg, key, in.ContentType, data)
		if s3Err == nil {
			return result, nil
		}
		logger.WithContext(ctx).Warn("S3 upload failed, falling back to local storage",
			zap.String("key", key),
			zap.Error(s3Err),
		)
	}

	return u.putLocal(key, data)
}

func (u *Uploader) putS3(ctx context.Context, client ObjectPutter, cfg settings.Storage, key, contentType string, data []byte) (*UploadResult, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(cfg.AWSS3Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := client.PutObject(ctx, input); err != nil {
		return nil, err
	}

	return &UploadResult{
		Provider: ProviderS3,
		Key:      key,
		URL:      objectURL(cfg, key),
		Size:     int64(len(data)),
	}, nil
}

func (u *Uploader) putLocal(key string, data []byte) (*UploadResult, error) {
	if err := writeLocal(u.localRoot, key, data); err != nil {
		return nil, common.NewInternalError("Failed to store file", err)
	}

	return &UploadResult{
		Provider: ProviderLocal,
		Key:      key,
		URL:      u.urlPrefix + "/" + key,
		Size:     int64(len(data)),
	}, nil
}

// Delete removes a stored object from both backends. The S3 delete runs
// first so a failure there surfaces before the local copy disappears; a key
// that was never mirrored to one of the backends is not an error.
func (u *Uploader) Delete(ctx context.Context, key string) error {
	if !validKey(key) {
		return common.NewValidationError("Invalid object key")
	}

	client, cfg, err := u.factory.Client(ctx)
	if err == nil && client != nil {
		_, delErr := client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(cfg.AWSS3Bucket),
			Key:    aws.String(key),
		})
		if delErr != nil {
			return common.NewInternalError("Failed to delete file", delErr)
		}
	}

	if err := removeLocal(u.localRoot, key); err != nil {
		return common.NewInternalError("Failed to delete file", err)
	}

	return nil
}

// PresignedURL returns a time-limited GET URL for a stored object. Local
// files are already served under the static prefix, so they come back as a
// plain path.
func (u *Uploader) PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	if !validKey(key) {
		return "", common.NewValidationError("Invalid object key")
	}

	client, cfg, err := u.factory.Client(ctx)
	if err != nil {
		return "", common.NewInternalError("Failed to build storage client", err)
	}
	if client == nil {
		return u.urlPrefix + "/" + key, nil
	}

	url, err := client.PresignGet(ctx, cfg.AWSS3Bucket, key, expires)
	if err != nil {
		return "", common.NewInternalError("Failed to sign download URL", err)
	}
	return url, nil
}

// validKey rejects keys that could escape the storage root.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}
	return !strings.Contains(key, "..") && !strings.Contains(key, "\\")
}

// validate checks size and extension limits before anything is stored.
func validate(in UploadInput, cfg settings.Storage) error {
	maxBytes := int64(cfg.MaxFileSizeMB) * 1024 * 1024
	if maxBytes > 0 && in.Size > maxBytes {
		return common.NewValidationError(
			fmt.Sprintf("File exceeds the %d MB limit", cfg.MaxFileSizeMB))
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	if ext == "" {
		return common.NewValidationError("File has no extension")
	}

	for _, allowed := range cfg.AllowedFileTypes {
		if ext == strings.ToLower(allowed) {
			return nil
		}
	}

	return common.NewValidationError(
		fmt.Sprintf("File type %s is not allowed", ext))
}

// buildKey produces {categoryPrefix}/{timestamp}-{random}{ext}. The random
// suffix prevents collisions between same-named files uploaded in the same
// millisecond.
func buildKey(category, ownerID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		copy(suffix, fmt.Sprintf("%08d", time.Now().Nanosecond()))
	}

	return fmt.Sprintf("%s/%d-%s%s",
		keyPrefix(sanitizeSegment(category), sanitizeSegment(ownerID)),
		time.Now().UnixMilli(),
		hex.EncodeToString(suffix),
		ext,
	)
}

// keyPrefix nests uploads per category: profile pictures keep a profile
// subfolder and program content groups under a shared content root.
func keyPrefix(category, ownerID string) string {
	switch category {
	case "profile-pictures":
		return fmt.Sprintf("profile-pictures/%s/profile", ownerID)
	case "programs":
		return fmt.Sprintf("programs/content/%s", ownerID)
	default:
		return fmt.Sprintf("%s/%s", category, ownerID)
	}
}

// sanitizeSegment keeps path segments flat: no separators, no traversal.
func sanitizeSegment(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, "..", "-")
	if s == "" {
		return "misc"
	}
	return s
}
