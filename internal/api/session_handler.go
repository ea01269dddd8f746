// File path: internal/api/session_handler.go
package api

import (
	"fmt"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/b08x/script-craft-v2/internal/common"
	"github.com/b08x/script-craft-v2/internal/session"
)

func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Create()
	common.Logger().Info("api: session created", "session", sess.ID)
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleSessionList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": s.store.List()})
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := s.store.Delete(id); err != nil {
		writeStoreError(w, err)
		return
	}
	common.Logger().Info("api: session deleted", "session", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	var settings session.GenerationSettings
	if err := decodeBody(r, &settings); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid settings payload: %w", err))
		return
	}
	applied, err := s.store.UpdateSettings(chi.URLParam(r, "sessionID"), settings)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, applied)
}

func (s *Server) handleIntroUpdate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ShowIntro string `json:"showIntro"`
	}
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid intro payload: %w", err))
		return
	}
	if err := s.store.SetIntro(chi.URLParam(r, "sessionID"), payload.ShowIntro); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"showIntro": payload.ShowIntro})
}
