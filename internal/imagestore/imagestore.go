// Package imagestore persists the hosted images shown to visitors.
// Blobs live either in a local directory or in an S3-compatible bucket;
// the database keeps only the returned storage path.
package imagestore

import (
	"context"
	"io"
)

// Store saves and serves image blobs. Save returns the storage path to
// record on the link; Open streams a previously saved blob back along
// with its content type.
type Store interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, string, error)
}
