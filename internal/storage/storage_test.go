package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"snapshare/internal/config"
	"snapshare/internal/models"
	"snapshare/internal/testutil"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload(t *testing.T) {
	raw := testutil.TinyPNG(t, 4, 4)
	encoded := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name    string
		payload string
		want    []byte
		code    string
	}{
		{name: "data uri", payload: "data:image/png;base64," + encoded, want: raw},
		{name: "bare base64", payload: "  " + encoded + "\n", want: raw},
		{name: "unpadded", payload: strings.TrimRight(encoded, "="), want: raw},
		{name: "missing comma", payload: "data:image/png;base64", code: models.CodeValidation},
		{name: "not base64 uri", payload: "data:text/plain,hello", code: models.CodeValidation},
		{name: "garbage", payload: "!!!", code: models.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePayload(tt.payload)
			if tt.code != "" {
				assert.True(t, models.HasCode(err, tt.code), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DecodePayload("   ")
	assert.True(t, IsEmptyPayload(err))
}

func TestProcess_BoundsLargeImages(t *testing.T) {
	processed, err := Process(testutil.TinyPNG(t, 3000, 1000))
	require.NoError(t, err)

	assert.Equal(t, MasterMaxSize, processed.Width)
	assert.Equal(t, 682, processed.Height)
	assert.Len(t, processed.Hash, 64)
	assert.NotEmpty(t, processed.JPEG)
	assert.NotEmpty(t, processed.WebP)
}

func TestProcess_RejectsNonImages(t *testing.T) {
	_, err := Process([]byte("plain text, not an image"))
	assert.True(t, models.HasCode(err, models.CodeValidation))

	_, err = Process(nil)
	assert.True(t, models.HasCode(err, models.CodeValidation))
}

func TestStore_LocalUpload(t *testing.T) {
	dir := t.TempDir()
	store, err := New(context.Background(), &config.Config{
		StorageDriver: "local",
		UploadDir:     dir,
		MediaBaseURL:  "/media/",
	})
	require.NoError(t, err)

	data := testutil.TinyPNG(t, 32, 16)
	url, err := store.Upload(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/media/"))
	assert.True(t, strings.HasSuffix(url, "/master.jpg"))

	hash := strings.TrimSuffix(strings.TrimPrefix(url, "/media/"), "/master.jpg")
	for _, name := range []string{"master.jpg", "master.webp"} {
		_, statErr := os.Stat(filepath.Join(dir, hash, name))
		assert.NoError(t, statErr, name)
	}

	again, err := store.Upload(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, url, again)
}

type fakeS3 struct {
	keys   []string
	bodies map[string][]byte
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.bodies == nil {
		f.bodies = map[string][]byte{}
	}
	key := aws.ToString(in.Key)
	f.keys = append(f.keys, key)
	f.bodies[key] = body
	return &s3.PutObjectOutput{}, nil
}

func TestStore_S3Upload(t *testing.T) {
	client := &fakeS3{}
	store := &Store{writer: &S3Writer{client: client, bucket: "media", publicBaseURL: "https://cdn.example.com"}}

	url, err := store.Upload(context.Background(), testutil.TinyPNG(t, 8, 8))
	require.NoError(t, err)
	require.Len(t, client.keys, 2)
	assert.Equal(t, "https://cdn.example.com/"+client.keys[0], url)
	assert.True(t, strings.HasSuffix(client.keys[1], "/master.webp"))
}

func TestStore_UploadFailureIsUpstream(t *testing.T) {
	store := &Store{writer: &S3Writer{client: &fakeS3{err: errors.New("503 slow down")}, bucket: "media"}}

	_, err := store.Upload(context.Background(), testutil.TinyPNG(t, 8, 8))
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeUpstream))
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), &config.Config{StorageDriver: "ftp"})
	assert.Error(t, err)
}

type uploaderFunc func(ctx context.Context, data []byte) (string, error)

func (f uploaderFunc) Upload(ctx context.Context, data []byte) (string, error) { return f(ctx, data) }

func TestUploadImage(t *testing.T) {
	ctx := context.Background()

	_, err := UploadImage(ctx, nil, []byte("x"))
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeUpstream))

	url, err := UploadImage(ctx, uploaderFunc(func(context.Context, []byte) (string, error) {
		return "/media/abc/master.jpg", nil
	}), []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "/media/abc/master.jpg", url)

	invalid := models.NewValidationError("Unsupported image format")
	_, err = UploadImage(ctx, uploaderFunc(func(context.Context, []byte) (string, error) {
		return "", invalid
	}), []byte("x"))
	assert.Same(t, invalid, err)

	plain := errors.New("disk full")
	_, err = UploadImage(ctx, uploaderFunc(func(context.Context, []byte) (string, error) {
		return "", plain
	}), []byte("x"))
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeUpstream))
	assert.ErrorIs(t, err, plain)
}
