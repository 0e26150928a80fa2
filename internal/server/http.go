package server

import (
	"encoding/json"
	"net/http"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, admin requests under /v1/ (except
// GET /v1/health) must include a valid Authorization: Bearer <token>
// header. The /t/ tracking routes are always public: they are what the
// viewer page and the hosted image load.
func (s *Server) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()

	// Admin surface.
	mux.HandleFunc("POST /v1/links", s.handleCreateLink)
	mux.HandleFunc("GET /v1/links/{slug}", s.handleGetLink)
	mux.HandleFunc("POST /v1/links/{slug}/image", s.handleAttachImage)
	mux.HandleFunc("GET /v1/links/{slug}/events", s.handleListEvents)
	mux.HandleFunc("GET /v1/health", s.handleHealth)

	// Public tracking surface.
	mux.HandleFunc("GET /t/{slug}", s.handleView)
	mux.HandleFunc("POST /t/{slug}/collect/device", s.handleCollectDevice)
	mux.HandleFunc("POST /t/{slug}/collect/location", s.handleCollectLocation)

	return AuthMiddleware(authToken, mux)
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
