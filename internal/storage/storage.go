// Package storage uploads user images to the configured asset store and
// returns their public URLs.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"snapshare/internal/config"
	"snapshare/internal/models"
	"snapshare/internal/observability"
)

// MaxUploadBytes caps the decoded size of a single image.
const MaxUploadBytes = 10 * 1024 * 1024

// Uploader stores image bytes and returns the public URL of the stored asset.
type Uploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

// blobWriter persists already processed objects under a key.
type blobWriter interface {
	Name() string
	Put(ctx context.Context, key, contentType string, data []byte) error
	URL(key string) string
}

// Store normalizes images and writes them through a blobWriter.
type Store struct {
	writer blobWriter
}

// New builds the Store selected by STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return &Store{writer: NewLocalWriter(cfg.UploadDir, cfg.MediaBaseURL)}, nil
	case "s3":
		w, err := NewS3Writer(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Store{writer: w}, nil
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

// Upload validates and re-encodes data, stores the JPEG master and a WebP
// sibling, and returns the JPEG URL. Identical images map to the same key.
func (s *Store) Upload(ctx context.Context, data []byte) (url string, err error) {
	ctx, end := observability.StartSpan(ctx, "storage.Upload")
	start := time.Now()
	defer func() {
		observability.ObserveUpload(s.writer.Name(), start, err)
		end(err)
	}()

	processed, err := Process(data)
	if err != nil {
		return "", err
	}

	jpgKey := processed.Hash + "/master.jpg"
	if err := s.writer.Put(ctx, jpgKey, "image/jpeg", processed.JPEG); err != nil {
		return "", models.NewUpstreamError("Image upload failed", err)
	}
	if err := s.writer.Put(ctx, processed.Hash+"/master.webp", "image/webp", processed.WebP); err != nil {
		return "", models.NewUpstreamError("Image upload failed", err)
	}
	return s.writer.URL(jpgKey), nil
}

// UploadImage stores data through u. Validation and upstream errors pass
// through unchanged; anything else is reported as an upstream failure.
func UploadImage(ctx context.Context, u Uploader, data []byte) (string, error) {
	if u == nil {
		return "", models.NewUpstreamError("Image upload is not configured", nil)
	}
	url, err := u.Upload(ctx, data)
	if err == nil {
		return url, nil
	}
	if models.HasCode(err, models.CodeValidation) || models.HasCode(err, models.CodeUpstream) {
		return "", err
	}
	return "", models.NewUpstreamError("Image upload failed", err)
}

var errEmptyPayload = errors.New("empty image payload")

// DecodePayload accepts a data URI ("data:image/png;base64,...") or a bare
// base64 string and returns the raw bytes.
func DecodePayload(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, errEmptyPayload
	}

	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 {
			return nil, models.NewValidationError("Malformed image data URI")
		}
		meta := payload[len("data:"):comma]
		if !strings.HasSuffix(meta, ";base64") {
			return nil, models.NewValidationError("Image data URI must be base64 encoded")
		}
		payload = payload[comma+1:]
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxUploadBytes+3 {
		return nil, models.NewValidationError(fmt.Sprintf("Image too large (max %dMB)", MaxUploadBytes/(1024*1024)))
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, models.NewValidationError("Image is not valid base64")
		}
	}
	return data, nil
}

// IsEmptyPayload reports whether err came from an empty payload.
func IsEmptyPayload(err error) bool {
	return errors.Is(err, errEmptyPayload)
}
