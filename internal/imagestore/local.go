package imagestore

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes image blobs into a directory on disk.
type LocalStore struct {
	dir string
}

// Compile-time check that LocalStore implements Store.
var _ Store = (*LocalStore)(nil)

// NewLocalStore creates the directory if needed and returns a store
// rooted there.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes the blob to <dir>/<name> and returns the file name as the
// storage path. The name is sanitized to its base component so callers
// cannot escape the directory.
func (s *LocalStore) Save(_ context.Context, name, contentType string, r io.Reader) (string, error) {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid image name %q", name)
	}
	if filepath.Ext(name) == "" {
		name += extensionFor(contentType)
	}

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return name, nil
}

// Open streams a previously saved blob. The content type is derived
// from the file extension.
func (s *LocalStore) Open(_ context.Context, path string) (io.ReadCloser, string, error) {
	path = filepath.Base(path)
	f, err := os.Open(filepath.Join(s.dir, path))
	if err != nil {
		return nil, "", fmt.Errorf("open image file: %w", err)
	}
	return f, contentTypeFor(path), nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}

func contentTypeFor(path string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
