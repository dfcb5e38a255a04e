package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// LocalWriter keeps objects on disk below dir; they are served at baseURL.
type LocalWriter struct {
	dir     string
	baseURL string
}

func NewLocalWriter(dir, baseURL string) *LocalWriter {
	return &LocalWriter{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (w *LocalWriter) Name() string { return "local" }

func (w *LocalWriter) Put(ctx context.Context, key, _ string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(w.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func (w *LocalWriter) URL(key string) string {
	return w.baseURL + "/" + key
}
