package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/groblegark/linkpixel/internal/model"
	"github.com/groblegark/linkpixel/internal/pipeline"
	"github.com/groblegark/linkpixel/internal/store"
)

// transparentGIF is a 1x1 transparent GIF served when a link has no
// image attached, so the tracking URL still renders something.
var transparentGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x21, 0xf9, 0x04,
	0x01, 0x00, 0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01,
	0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

// trackContext builds the pipeline request context from an HTTP request.
func trackContext(r *http.Request) pipeline.ReqContext {
	return pipeline.ReqContext{
		RemoteAddr:   r.RemoteAddr,
		ForwardedFor: r.Header.Get("X-Forwarded-For"),
		UserAgent:    r.UserAgent(),
		Referer:      r.Referer(),
	}
}

// handleView handles GET /t/{slug}: serve the hosted image and record a
// view event. The response never depends on ingestion succeeding.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	link, err := s.registry.GetLink(r.Context(), slug)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "link not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.pipeline.Record(r.Context(), slug, model.EventView, trackContext(r), nil)

	w.Header().Set("Cache-Control", "no-store")
	if link.ImagePath == "" {
		w.Header().Set("Content-Type", "image/gif")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(transparentGIF)
		return
	}

	img, contentType, err := s.images.Open(r.Context(), link.ImagePath)
	if err != nil {
		// The row points at a blob we can no longer read; degrade to
		// the placeholder rather than failing the visit.
		s.logger.Warn("failed to open image", "link_slug", slug, "path", link.ImagePath, "error", err)
		w.Header().Set("Content-Type", "image/gif")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(transparentGIF)
		return
	}
	defer img.Close()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, img)
}

// handleCollectDevice handles POST /t/{slug}/collect/device. The body
// is an arbitrary JSON map of device descriptors.
func (s *Server) handleCollectDevice(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if !s.linkExists(w, r, slug) {
		return
	}

	var facts model.DeviceFacts
	if err := json.NewDecoder(r.Body).Decode(&facts); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.pipeline.Record(r.Context(), slug, model.EventDevice, trackContext(r), facts)
	w.WriteHeader(http.StatusAccepted)
}

// locationInput is the body of POST /t/{slug}/collect/location.
type locationInput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  float64  `json:"accuracy"`
	Source    string   `json:"source"`
}

// handleCollectLocation handles POST /t/{slug}/collect/location.
func (s *Server) handleCollectLocation(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if !s.linkExists(w, r, slug) {
		return
	}

	var in locationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Latitude == nil || in.Longitude == nil {
		writeError(w, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	facts := model.LocationFacts{
		Latitude:  *in.Latitude,
		Longitude: *in.Longitude,
		Accuracy:  in.Accuracy,
		Source:    in.Source,
	}

	s.pipeline.Record(r.Context(), slug, model.EventLocation, trackContext(r), facts)
	w.WriteHeader(http.StatusAccepted)
}

// linkExists writes a 404/500 and returns false when the slug does not
// name a live link. Collection calls for dead slugs never reach the
// pipeline.
func (s *Server) linkExists(w http.ResponseWriter, r *http.Request, slug string) bool {
	_, err := s.registry.GetLink(r.Context(), slug)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "link not found")
		return false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return false
	}
	return true
}
