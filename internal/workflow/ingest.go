// File path: internal/workflow/ingest.go
package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/b08x/script-craft-v2/internal/common"
	"github.com/b08x/script-craft-v2/internal/common/telemetry"
	"github.com/b08x/script-craft-v2/internal/document"
	"github.com/b08x/script-craft-v2/internal/extract"
	"github.com/b08x/script-craft-v2/internal/llm"
	"github.com/b08x/script-craft-v2/internal/prompt"
)

const msgProcessDocument = "Failed to process document"

// analysisResult mirrors the JSON object the document-analysis schema
// requests from the model.
type analysisResult struct {
	FullText  string            `json:"fullText"`
	Metadata  document.Metadata `json:"metadata"`
	AllTopics []string          `json:"allTopics"`
	Chunks    []document.Chunk  `json:"chunks"`
}

// IngestDocuments attaches and analyzes the uploaded files one at a time.
// A failing file is marked error on its document record and does not stop
// the remaining uploads. The returned slice holds the final state of every
// document that was attached, in upload order.
func (m *Manager) IngestDocuments(ctx context.Context, sessionID, personaID string, files []document.Input) ([]document.SourceDocument, error) {
	logger := common.Logger()
	results := make([]document.SourceDocument, 0, len(files))
	failed := 0
	defer func() { telemetry.RecordIngestBatch(len(results), failed) }()
	for _, file := range files {
		doc := document.SourceDocument{
			ID:     uuid.NewString(),
			Name:   file.Name,
			Status: document.StatusProcessing,
		}
		if err := m.store.AttachDocument(sessionID, personaID, doc); err != nil {
			return results, err
		}
		final, err := m.analyzeDocument(ctx, sessionID, file)
		if err != nil {
			logger.Error("workflow: document ingestion failed", "session", sessionID,
				"persona", personaID, "document", file.Name, "error", err)
			failed++
			doc.Status = document.StatusError
			doc.Error = msgProcessDocument
			if ferr := m.store.FailDocument(sessionID, personaID, doc.ID, msgProcessDocument); ferr != nil {
				return results, ferr
			}
			results = append(results, doc)
			continue
		}
		final.ID = doc.ID
		final.Name = doc.Name
		final.Status = document.StatusCompleted
		if err := m.store.CompleteDocument(sessionID, personaID, final); err != nil {
			return results, err
		}
		logger.Info("workflow: document ingested", "session", sessionID,
			"persona", personaID, "document", file.Name, "chunks", len(final.Chunks))
		results = append(results, final)
	}
	return results, nil
}

// analyzeDocument runs one upload through extraction and model analysis.
func (m *Manager) analyzeDocument(ctx context.Context, sessionID string, file document.Input) (document.SourceDocument, error) {
	if len(file.Data) > document.MaxFileBytes {
		return document.SourceDocument{}, fmt.Errorf("file %q exceeds the %d byte limit", file.Name, document.MaxFileBytes)
	}
	kind := document.Detect(file.Name, file.MIME)
	if kind == document.KindUnsupported {
		return document.SourceDocument{}, fmt.Errorf("unsupported file type for %q", file.Name)
	}
	var text string
	if kind != document.KindPDF {
		extracted, err := document.ExtractText(kind, file.Name, file.Data)
		if err != nil {
			return document.SourceDocument{}, err
		}
		text = extracted
	}

	sess, err := m.store.Get(sessionID)
	if err != nil {
		return document.SourceDocument{}, err
	}
	// Document analysis always requests a schema, so grounding stays off
	// regardless of the session setting.
	cfg := llm.NewConfig(sess.Settings.Temperature, llm.DocumentSchema(), false, sess.Settings.ThinkingBudget)
	req := llm.Request{
		Model:  sess.Settings.ModelName,
		Parts:  prompt.DocumentAnalysis(file.Name, kind, file.Data, text),
		Config: cfg,
	}
	raw, err := m.generate(ctx, "document-analysis", req)
	if err != nil {
		return document.SourceDocument{}, err
	}
	var parsed analysisResult
	if err := extract.Object(raw, &parsed); err != nil {
		return document.SourceDocument{}, err
	}
	if parsed.FullText == "" {
		parsed.FullText = text
	}

	doc := document.SourceDocument{
		Content: parsed.FullText,
		Topics:  parsed.AllTopics,
	}
	if parsed.Metadata != (document.Metadata{}) {
		md := parsed.Metadata
		if md.FileType == "" {
			md.FileType = file.MIME
		}
		doc.Metadata = &md
	}
	for i := range parsed.Chunks {
		parsed.Chunks[i].ID = uuid.NewString()
	}
	doc.Chunks = parsed.Chunks
	if len(doc.Chunks) == 0 && doc.Content != "" {
		doc.Chunks = document.FallbackChunks(doc.Content)
	}
	return doc, nil
}
