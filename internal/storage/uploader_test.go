package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/globalpath/platform/internal/settings"
	"github.com/globalpath/platform/pkg/common"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListAll(ctx context.Context) ([]settings.Row, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]settings.Row), args.Error(1)
}

type fakePutter struct {
	calls   int
	err     error
	key     string
	deleted []string
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.calls++
	if params.Key != nil {
		f.key = *params.Key
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakePutter) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if params.Key != nil {
		f.deleted = append(f.deleted, *params.Key)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakePutter) PresignGet(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://" + bucket + ".s3.signed.example/" + key + "?X-Amz-Expires=900", nil
}

func newTestUploader(t *testing.T, rows []settings.Row, putter ObjectStore) (*Uploader, string) {
	t.Helper()

	store := new(mockStore)
	store.On("ListAll", mock.Anything).Return(rows, nil)

	factory := NewFactory(settings.NewResolver(store))
	factory.build = func(ctx context.Context, cfg settings.Storage) (ObjectStore, error) {
		if cfg.Provider != "s3" {
			return nil, nil
		}
		if cfg.AWSAccessKeyID == "" || cfg.AWSSecretAccessKey == "" || cfg.AWSS3Bucket == "" {
			return nil, nil
		}
		return putter, nil
	}

	root := t.TempDir()
	return NewUploader(factory, root, "/assets/uploads"), root
}

func s3Rows() []settings.Row {
	return []settings.Row{
		{Category: settings.CategoryStorage, Key: "provider", Value: `"s3"`},
		{Category: settings.CategoryStorage, Key: "awsAccessKeyId", Value: `"AKIATEST"`},
		{Category: settings.CategoryStorage, Key: "awsSecretAccessKey", Value: `"secret"`},
		{Category: settings.CategoryStorage, Key: "awsS3Bucket", Value: `"globalpath-assets"`},
	}
}

func TestUploadWithoutCredentialsStoresLocally(t *testing.T) {
	putter := &fakePutter{}
	uploader, root := newTestUploader(t, []settings.Row{}, putter)

	result, err := uploader.Upload(context.Background(), UploadInput{
		Category: "profile-pictures",
		OwnerID:  "user-42",
		Filename: "avatar.png",
		Size:     1024,
		Body:     strings.NewReader("png-bytes"),
	})

	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, result.Provider)
	assert.Zero(t, putter.calls)
	assert.True(t, strings.HasPrefix(result.Key, "profile-pictures/user-42/"))
	assert.True(t, strings.HasPrefix(result.URL, "/assets/uploads/profile-pictures/"))

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(result.Key)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestUploadUsesS3WhenConfigured(t *testing.T) {
	putter := &fakePutter{}
	uploader, root := newTestUploader(t, s3Rows(), putter)

	result, err := uploader.Upload(context.Background(), UploadInput{
		Category: "documents",
		OwnerID:  "user-7",
		Filename: "Transcript.PDF",
		Size:     2048,
		Body:     strings.NewReader("pdf-bytes"),
	})

	require.NoError(t, err)
	assert.Equal(t, ProviderS3, result.Provider)
	assert.Equal(t, 1, putter.calls)
	assert.Contains(t, result.URL, "globalpath-assets")

	keyPattern := regexp.MustCompile(`^documents/user-7/\d+-[0-9a-f]{16}\.pdf$`)
	assert.Regexp(t, keyPattern, result.Key)

	// Nothing should hit local disk on a successful S3 put.
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadFallsBackToLocalOnS3Error(t *testing.T) {
	putter := &fakePutter{err: errors.New("RequestTimeout: connection reset")}
	uploader, root := newTestUploader(t, s3Rows(), putter)

	result, err := uploader.Upload(context.Background(), UploadInput{
		Category: "blog",
		OwnerID:  "editor-1",
		Filename: "cover.jpg",
		Size:     4096,
		Body:     strings.NewReader("jpg-bytes"),
	})

	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, result.Provider)
	assert.Equal(t, 1, putter.calls)

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(result.Key)))
	assert.NoError(t, err)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	putter := &fakePutter{}
	uploader, _ := newTestUploader(t, s3Rows(), putter)

	_, err := uploader.Upload(context.Background(), UploadInput{
		Category: "documents",
		OwnerID:  "user-7",
		Filename: "big.pdf",
		Size:     11 * 1024 * 1024, // default limit is 10 MB
		Body:     strings.NewReader("x"),
	})

	require.Error(t, err)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
	assert.Zero(t, putter.calls)
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	putter := &fakePutter{}
	uploader, _ := newTestUploader(t, s3Rows(), putter)

	_, err := uploader.Upload(context.Background(), UploadInput{
		Category: "documents",
		OwnerID:  "user-7",
		Filename: "malware.exe",
		Size:     10,
		Body:     strings.NewReader("x"),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), ".exe")
	assert.Zero(t, putter.calls)
}

func TestUploadSkipsS3WhenProviderIsLocal(t *testing.T) {
	putter := &fakePutter{}
	rows := []settings.Row{
		{Category: settings.CategoryStorage, Key: "provider", Value: `"local"`},
		{Category: settings.CategoryStorage, Key: "awsAccessKeyId", Value: `"AKIATEST"`},
		{Category: settings.CategoryStorage, Key: "awsSecretAccessKey", Value: `"secret"`},
		{Category: settings.CategoryStorage, Key: "awsS3Bucket", Value: `"globalpath-assets"`},
	}
	uploader, root := newTestUploader(t, rows, putter)

	result, err := uploader.Upload(context.Background(), UploadInput{
		Category: "documents",
		OwnerID:  "user-7",
		Filename: "letter.pdf",
		Size:     512,
		Body:     strings.NewReader("pdf-bytes"),
	})

	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, result.Provider)
	assert.Zero(t, putter.calls)

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(result.Key)))
	assert.NoError(t, err)
}

func TestDeleteRemovesBothCopies(t *testing.T) {
	putter := &fakePutter{}
	uploader, root := newTestUploader(t, s3Rows(), putter)

	key := "documents/user-7/1700000000000-deadbeefdeadbeef.pdf"
	require.NoError(t, writeLocal(root, key, []byte("pdf-bytes")))

	err := uploader.Delete(context.Background(), key)

	require.NoError(t, err)
	assert.Equal(t, []string{key}, putter.deleted)

	_, statErr := os.Stat(filepath.Join(root, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDeleteToleratesMissingLocalFile(t *testing.T) {
	putter := &fakePutter{}
	uploader, _ := newTestUploader(t, s3Rows(), putter)

	err := uploader.Delete(context.Background(), "documents/user-7/gone.pdf")

	require.NoError(t, err)
	assert.Equal(t, []string{"documents/user-7/gone.pdf"}, putter.deleted)
}

func TestDeleteRejectsTraversalKey(t *testing.T) {
	putter := &fakePutter{}
	uploader, _ := newTestUploader(t, s3Rows(), putter)

	err := uploader.Delete(context.Background(), "../etc/passwd")

	require.Error(t, err)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
	assert.Empty(t, putter.deleted)
}

func TestPresignedURLSignsS3Objects(t *testing.T) {
	putter := &fakePutter{}
	uploader, _ := newTestUploader(t, s3Rows(), putter)

	url, err := uploader.PresignedURL(context.Background(), "documents/user-7/transcript.pdf", 15*time.Minute)

	require.NoError(t, err)
	assert.Contains(t, url, "globalpath-assets")
	assert.Contains(t, url, "X-Amz-Expires")
}

func TestPresignedURLFallsBackToStaticPath(t *testing.T) {
	putter := &fakePutter{}
	uploader, _ := newTestUploader(t, []settings.Row{}, putter)

	url, err := uploader.PresignedURL(context.Background(), "blog/editor-1/cover.jpg", 15*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, "/assets/uploads/blog/editor-1/cover.jpg", url)
}

func TestBuildKeyNestsProfilePictures(t *testing.T) {
	key := buildKey("profile-pictures", "user-42", "avatar.png")

	keyPattern := regexp.MustCompile(`^profile-pictures/user-42/profile/\d+-[0-9a-f]{16}\.png$`)
	assert.Regexp(t, keyPattern, key)
}

func TestBuildKeyNestsProgramContent(t *testing.T) {
	key := buildKey("programs", "editor-3", "brochure.pdf")

	assert.True(t, strings.HasPrefix(key, "programs/content/editor-3/"))
}

func TestBuildKeySanitizesSegments(t *testing.T) {
	key := buildKey("../etc", "user/1", "photo.png")

	assert.False(t, strings.Contains(key, ".."))
	assert.Equal(t, 2, strings.Count(key, "/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
}
