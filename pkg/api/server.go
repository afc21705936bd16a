// Package api exposes the archive over HTTP: a JSON API for the
// dashboard, file exports, and a WebSocket feed of reload events.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shuu880/slack-log-viewer/internal/config"
	"github.com/shuu880/slack-log-viewer/internal/log"
	"github.com/shuu880/slack-log-viewer/pkg/archive"
	"github.com/shuu880/slack-log-viewer/pkg/web"
)

// Server represents the API server
type Server struct {
	cfg   *config.Config
	store *archive.Store
	hub   *EventHub
}

// NewServer creates a new API server instance
func NewServer(cfg *config.Config, store *archive.Store, hub *EventHub) *Server {
	return &Server{cfg: cfg, store: store, hub: hub}
}

// Router returns the HTTP handler for the server
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/archive", s.handleArchive)
		r.Get("/channels", s.handleChannels)
		r.Get("/messages", s.handleMessages)
		r.Get("/threads", s.handleThreads)
		r.Get("/stats", s.handleStats)
		r.Get("/export", s.handleExport)
		r.Post("/reload", s.handleReload)
	})

	// the embedded dashboard handles everything else
	r.Handle("/*", web.Handler())

	return s.withMiddleware(r)
}

// withMiddleware wraps the handler with common middleware
func (s *Server) withMiddleware(h http.Handler) http.Handler {
	// Add CORS headers
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

// requestLogger logs every request through the application logger
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// handleHealth returns the health status of the server
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":   "healthy",
		"service":  "slack-log-viewer",
		"messages": s.store.Current().Len(),
		"clients":  s.hub.ClientCount(),
		"watching": s.cfg.Dumps.Watch,
	}
	writeJSON(w, http.StatusOK, response)
}

// handleWebSocket upgrades the connection and hands it to the event hub
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r)
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body
func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
