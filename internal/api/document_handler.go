// File path: internal/api/document_handler.go
package api

import (
	"fmt"
	"io"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/b08x/script-craft-v2/internal/common"
	"github.com/b08x/script-craft-v2/internal/document"
)

// handleDocumentUpload accepts one or more files in a multipart form under
// the "files" field and runs them through ingestion sequentially. Files that
// fail analysis come back with status "error"; the rest of the batch still
// runs.
func (s *Server) handleDocumentUpload(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	if err := r.ParseMultipartForm(document.MaxFileBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse upload: %w", err))
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("no files provided"))
		return
	}
	var inputs []document.Input
	for _, header := range r.MultipartForm.File["files"] {
		file, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("open upload %q: %w", header.Filename, err))
			return
		}
		data, err := io.ReadAll(io.LimitReader(file, document.MaxFileBytes+1))
		file.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("read upload %q: %w", header.Filename, err))
			return
		}
		inputs = append(inputs, document.Input{
			Name: header.Filename,
			MIME: header.Header.Get("Content-Type"),
			Data: data,
		})
	}
	sessionID := chi.URLParam(r, "sessionID")
	personaID := chi.URLParam(r, "personaID")
	logger.Info("api: document upload", "session", sessionID, "persona", personaID, "files", len(inputs))
	docs, err := s.workflow.IngestDocuments(r.Context(), sessionID, personaID, inputs)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

func (s *Server) handleDocumentRemove(w http.ResponseWriter, r *http.Request) {
	err := s.store.RemoveDocument(chi.URLParam(r, "sessionID"),
		chi.URLParam(r, "personaID"), chi.URLParam(r, "documentID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid topics payload: %w", err))
		return
	}
	topics, err := s.workflow.ExtractTopics(r.Context(), payload.Text)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"topics": topics})
}
