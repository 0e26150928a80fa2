// Package server exposes the admin CRUD surface and the public tracking
// endpoints over HTTP/JSON.
package server

import (
	"log/slog"

	"github.com/groblegark/linkpixel/internal/imagestore"
	"github.com/groblegark/linkpixel/internal/pipeline"
	"github.com/groblegark/linkpixel/internal/registry"
	"github.com/groblegark/linkpixel/internal/store"
)

// Server wires the link registry, the ingestion pipeline, and image
// storage behind the HTTP handlers.
type Server struct {
	registry *registry.Registry
	store    store.Store
	pipeline *pipeline.Pipeline
	images   imagestore.Store
	logger   *slog.Logger
}

// New returns a Server backed by the given collaborators.
func New(reg *registry.Registry, s store.Store, p *pipeline.Pipeline, images imagestore.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		registry: reg,
		store:    s,
		pipeline: p,
		images:   images,
		logger:   logger,
	}
}