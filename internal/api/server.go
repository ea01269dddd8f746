// File path: internal/api/server.go

// Package api exposes the wizard over HTTP. Handlers stay thin: decode,
// delegate to the session store or the workflow manager, encode.
package api

import (
	"encoding/json"
	"errors"
	"expvar"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/b08x/script-craft-v2/internal/common"
	"github.com/b08x/script-craft-v2/internal/session"
	"github.com/b08x/script-craft-v2/internal/workflow"
)

type Server struct {
	router   chi.Router
	store    *session.Store
	workflow *workflow.Manager
}

func NewServer(store *session.Store, manager *workflow.Manager) *Server {
	srv := &Server{
		router:   chi.NewRouter(),
		store:    store,
		workflow: manager,
	}
	srv.routes()
	common.Logger().Info("api: server ready")
	return srv
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router.Post("/v1/sessions", s.handleSessionCreate)
	s.router.Get("/v1/sessions", s.handleSessionList)
	s.router.Get("/v1/sessions/{sessionID}", s.handleSessionGet)
	s.router.Delete("/v1/sessions/{sessionID}", s.handleSessionDelete)
	s.router.Put("/v1/sessions/{sessionID}/settings", s.handleSettingsUpdate)
	s.router.Put("/v1/sessions/{sessionID}/intro", s.handleIntroUpdate)

	s.router.Post("/v1/sessions/{sessionID}/personas", s.handlePersonaAdd)
	s.router.Put("/v1/sessions/{sessionID}/personas/{personaID}", s.handlePersonaUpdate)
	s.router.Delete("/v1/sessions/{sessionID}/personas/{personaID}", s.handlePersonaRemove)
	s.router.Get("/v1/sessions/{sessionID}/personas/export", s.handlePersonaExport)
	s.router.Post("/v1/sessions/{sessionID}/personas/import", s.handlePersonaImport)
	s.router.Post("/v1/personas/analyze", s.handleTranscriptAnalyze)

	s.router.Post("/v1/sessions/{sessionID}/personas/{personaID}/documents", s.handleDocumentUpload)
	s.router.Delete("/v1/sessions/{sessionID}/personas/{personaID}/documents/{documentID}", s.handleDocumentRemove)
	s.router.Post("/v1/topics", s.handleTopics)

	s.router.Post("/v1/sessions/{sessionID}/script/generate", s.handleScriptGenerate)
	s.router.Post("/v1/sessions/{sessionID}/script/next", s.handleScriptNext)
	s.router.Post("/v1/sessions/{sessionID}/script/lines", s.handleLineInsert)
	s.router.Put("/v1/sessions/{sessionID}/script/lines/{lineID}", s.handleLineUpdate)
	s.router.Post("/v1/sessions/{sessionID}/script/lines/{lineID}/revise", s.handleLineRevise)
	s.router.Delete("/v1/sessions/{sessionID}/script/lines/{lineID}", s.handleLineRemove)

	s.router.Get("/v1/logs", s.handleLogs)
	s.router.Handle("/debug/vars", expvar.Handler())
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	entries := common.LogEntries()
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeStoreError maps store and workflow failures onto HTTP statuses: a
// missing entity is 404, a gateway failure keeps its fixed user-facing
// message under 502, anything else is treated as a bad request.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrPersonaNotFound),
		errors.Is(err, session.ErrDocumentNotFound),
		errors.Is(err, session.ErrLineNotFound):
		writeError(w, http.StatusNotFound, err)
	case workflow.IsUserError(err):
		writeError(w, http.StatusBadGateway, err)
	default:
		writeError(w, http.StatusBadRequest, err)
	}
}

func decodeBody(r *http.Request, out interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(out)
}
