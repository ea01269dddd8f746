// File path: internal/api/persona_handler.go
package api

import (
	"fmt"
	"io"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/b08x/script-craft-v2/internal/common"
	"github.com/b08x/script-craft-v2/internal/persona"
)

func (s *Server) handlePersonaAdd(w http.ResponseWriter, r *http.Request) {
	var p persona.Persona
	if err := decodeBody(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid persona payload: %w", err))
		return
	}
	saved, err := s.store.AddPersona(chi.URLParam(r, "sessionID"), p)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	common.Logger().Info("api: persona added", "persona", saved.ID, "name", saved.Name)
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handlePersonaUpdate(w http.ResponseWriter, r *http.Request) {
	var p persona.Persona
	if err := decodeBody(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid persona payload: %w", err))
		return
	}
	p.ID = chi.URLParam(r, "personaID")
	if err := s.store.UpdatePersona(chi.URLParam(r, "sessionID"), p); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePersonaRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemovePersona(chi.URLParam(r, "sessionID"), chi.URLParam(r, "personaID")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handlePersonaExport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	data, err := persona.Export(sess.Personas)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="personas.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handlePersonaImport(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, 10<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read import payload: %w", err))
		return
	}
	personas, skipped, err := persona.Import(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sessionID := chi.URLParam(r, "sessionID")
	if err := s.store.AddPersonas(sessionID, personas); err != nil {
		writeStoreError(w, err)
		return
	}
	common.Logger().Info("api: personas imported", "session", sessionID,
		"imported", len(personas), "skipped", skipped)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"personas": personas,
		"skipped":  skipped,
	})
}

func (s *Server) handleTranscriptAnalyze(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Transcript string `json:"transcript"`
	}
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid transcript payload: %w", err))
		return
	}
	draft, err := s.workflow.AnalyzeTranscript(r.Context(), payload.Transcript)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}
