package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/groblegark/linkpixel/internal/store"
)

// createLinkInput is the body of POST /v1/links.
type createLinkInput struct {
	Title string `json:"title"`
}

// handleCreateLink handles POST /v1/links.
func (s *Server) handleCreateLink(w http.ResponseWriter, r *http.Request) {
	var in createLinkInput
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	link, err := s.registry.CreateLink(r.Context(), in.Title)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, link)
}

// handleGetLink handles GET /v1/links/{slug}.
func (s *Server) handleGetLink(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, link)
}

// handleAttachImage handles POST /v1/links/{slug}/image. The image is
// uploaded as the multipart field "image", stored in the image store,
// and its storage path recorded on the link.
func (s *Server) handleAttachImage(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	// Reject unknown slugs before accepting the upload.
	if _, err := s.registry.GetLink(r.Context(), slug); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "link not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing multipart field \"image\"")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	storedPath, err := s.images.Save(r.Context(), slug, contentType, file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.registry.AttachImage(r.Context(), slug, storedPath); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "link not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"image_path": storedPath})
}

// handleListEvents handles GET /v1/links/{slug}/events.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	// Distinguish an unknown link from one with no events yet.
	if _, err := s.registry.GetLink(r.Context(), slug); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "link not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	events, err := s.store.ListEvents(r.Context(), slug, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"events": events, "count": len(events)})
}
