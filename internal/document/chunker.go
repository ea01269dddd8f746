// File path: internal/document/chunker.go
package document

import (
	"strings"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	fallbackChunkSize    = 1200
	fallbackChunkOverlap = 150
)

// FallbackChunks splits content locally when the analysis model returned full
// text but no chunk list. Chunk ids are random so they stay unique across the
// whole session, not just within one document.
func FallbackChunks(content string) []Chunk {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil
	}
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(fallbackChunkSize),
		textsplitter.WithChunkOverlap(fallbackChunkOverlap),
	)
	parts, err := splitter.SplitText(trimmed)
	if err != nil || len(parts) == 0 {
		parts = []string{trimmed}
	}
	chunks := make([]Chunk, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		chunks = append(chunks, Chunk{ID: uuid.NewString(), Content: part})
	}
	return chunks
}
