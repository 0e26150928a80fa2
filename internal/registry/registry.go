// Package registry creates and reads tracking links. It is a thin layer
// over the store that owns slug generation.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/groblegark/linkpixel/internal/model"
	"github.com/groblegark/linkpixel/internal/slug"
	"github.com/groblegark/linkpixel/internal/store"
)

// Registry manages the link lifecycle: created once, image attached at
// most once, never deleted here.
type Registry struct {
	store store.Store
}

// New returns a Registry backed by the given store.
func New(s store.Store) *Registry {
	return &Registry{store: s}
}

// CreateLink generates a random slug and persists a new link. Slug
// collision is statistically negligible, so a unique-constraint
// violation fails the call outright rather than retrying.
func (r *Registry) CreateLink(ctx context.Context, title string) (*model.Link, error) {
	s, err := slug.New()
	if err != nil {
		return nil, err
	}

	link := &model.Link{
		Slug:      s,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.store.CreateLink(ctx, link); err != nil {
		return nil, fmt.Errorf("create link: %w", err)
	}
	return link, nil
}

// AttachImage records the stored image path on an existing link. It
// returns store.ErrNotFound for an unknown slug; re-attaching the same
// path is an idempotent no-op at the row level.
func (r *Registry) AttachImage(ctx context.Context, slug, storedPath string) error {
	if err := r.store.AttachImage(ctx, slug, storedPath); err != nil {
		return fmt.Errorf("attach image: %w", err)
	}
	return nil
}

// GetLink looks up a link by slug.
func (r *Registry) GetLink(ctx context.Context, slug string) (*model.Link, error) {
	return r.store.GetLink(ctx, slug)
}
