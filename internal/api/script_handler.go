// File path: internal/api/script_handler.go
package api

import (
	"fmt"
	"net/http"
	"strings"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/b08x/script-craft-v2/internal/common"
	"github.com/b08x/script-craft-v2/internal/script"
)

type instructionPayload struct {
	Instruction string `json:"instruction"`
}

func (s *Server) handleScriptGenerate(w http.ResponseWriter, r *http.Request) {
	var payload instructionPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid generate payload: %w", err))
		return
	}
	sessionID := chi.URLParam(r, "sessionID")
	lines, err := s.workflow.GenerateScript(r.Context(), sessionID, payload.Instruction)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	common.Logger().Info("api: script generated", "session", sessionID, "lines", len(lines))
	writeJSON(w, http.StatusOK, map[string]interface{}{"script": lines})
}

func (s *Server) handleScriptNext(w http.ResponseWriter, r *http.Request) {
	var payload instructionPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid next-line payload: %w", err))
		return
	}
	line, err := s.workflow.GenerateNextLine(r.Context(), chi.URLParam(r, "sessionID"), payload.Instruction)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, line)
}

func (s *Server) handleLineRevise(w http.ResponseWriter, r *http.Request) {
	var payload instructionPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid revise payload: %w", err))
		return
	}
	line, err := s.workflow.ReviseLine(r.Context(), chi.URLParam(r, "sessionID"),
		chi.URLParam(r, "lineID"), payload.Instruction)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, line)
}

// handleLineInsert adds a manually written line. With afterId set the line
// lands right after that line; otherwise it is appended.
func (s *Server) handleLineInsert(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SpeakerID string `json:"speakerId"`
		Line      string `json:"line"`
		AfterID   string `json:"afterId"`
	}
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid line payload: %w", err))
		return
	}
	if strings.TrimSpace(payload.SpeakerID) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("speakerId required"))
		return
	}
	line := script.Line{ID: uuid.NewString(), SpeakerID: payload.SpeakerID, Text: payload.Line}
	sessionID := chi.URLParam(r, "sessionID")
	var err error
	if payload.AfterID != "" {
		err = s.store.InsertLineAfter(sessionID, payload.AfterID, line)
	} else {
		err = s.store.AppendLine(sessionID, line)
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, line)
}

func (s *Server) handleLineUpdate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Line string `json:"line"`
	}
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid line payload: %w", err))
		return
	}
	lineID := chi.URLParam(r, "lineID")
	if err := s.store.UpdateLine(chi.URLParam(r, "sessionID"), lineID, payload.Line); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": lineID, "line": payload.Line})
}

func (s *Server) handleLineRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveLine(chi.URLParam(r, "sessionID"), chi.URLParam(r, "lineID")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
