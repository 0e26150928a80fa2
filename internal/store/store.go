package store

import (
	"context"
	"errors"

	"github.com/groblegark/linkpixel/internal/model"
)

// ErrNotFound is returned when a slug does not name a known link.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for links and events. The
// backend (PostgreSQL or SQLite) is chosen once at process start and
// never changes afterward.
type Store interface {
	// Links
	CreateLink(ctx context.Context, link *model.Link) error
	AttachImage(ctx context.Context, slug, path string) error
	GetLink(ctx context.Context, slug string) (*model.Link, error)

	// Events (append-only; rows are never updated or deleted here)
	InsertEvent(ctx context.Context, event *model.Event) error
	ListEvents(ctx context.Context, slug string, limit int) ([]*model.Event, error)

	// Lifecycle
	Close() error
}

// MaxEventLimit is the hard cap on rows returned by ListEvents,
// regardless of the limit the caller asks for.
const MaxEventLimit = 1000
