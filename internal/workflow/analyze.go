// File path: internal/workflow/analyze.go
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/b08x/script-craft-v2/internal/common"
	"github.com/b08x/script-craft-v2/internal/extract"
	"github.com/b08x/script-craft-v2/internal/llm"
	"github.com/b08x/script-craft-v2/internal/persona"
	"github.com/b08x/script-craft-v2/internal/prompt"
	"github.com/b08x/script-craft-v2/internal/session"
)

const (
	msgAnalyzeTranscript = "Failed to analyze transcript"
	msgExtractTopics     = "Failed to extract topics"
)

// AnalyzeTranscript derives a persona draft from a sample of somebody's
// speech. The draft is returned unsaved; the caller decides whether to add
// it to a session.
func (m *Manager) AnalyzeTranscript(ctx context.Context, transcript string) (persona.Persona, error) {
	logger := common.Logger()
	if strings.TrimSpace(transcript) == "" {
		return persona.Persona{}, fmt.Errorf("transcript is empty")
	}
	settings := session.DefaultSettings()
	cfg := llm.NewConfig(settings.Temperature, llm.PersonaSchema(), false, 0)
	req := llm.Request{
		Parts:  []llm.Part{llm.TextPart(prompt.PersonaAnalysis(transcript))},
		Config: cfg,
	}
	raw, err := m.generate(ctx, "persona-analysis", req)
	if err != nil {
		logger.Error("workflow: transcript analysis failed", "error", err)
		return persona.Persona{}, userError(msgAnalyzeTranscript, err)
	}
	var draft persona.Persona
	if err := extract.Object(raw, &draft); err != nil {
		logger.Error("workflow: transcript analysis response rejected", "error", err, "raw", raw)
		return persona.Persona{}, userError(msgInvalidData, err)
	}
	if err := persona.Validate(draft); err != nil {
		logger.Error("workflow: transcript analysis produced incomplete persona", "error", err)
		return persona.Persona{}, userError(msgAnalyzeTranscript, err)
	}
	draft.ID = uuid.NewString()
	return persona.Normalize(draft), nil
}

// ExtractTopics lists the main topics of the given text.
func (m *Manager) ExtractTopics(ctx context.Context, text string) ([]string, error) {
	logger := common.Logger()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text is empty")
	}
	settings := session.DefaultSettings()
	cfg := llm.NewConfig(settings.Temperature, llm.TopicsSchema(), false, 0)
	req := llm.Request{
		Parts:  []llm.Part{llm.TextPart(prompt.Topics(text))},
		Config: cfg,
	}
	raw, err := m.generate(ctx, "topics", req)
	if err != nil {
		logger.Error("workflow: topic extraction failed", "error", err)
		return nil, userError(msgExtractTopics, err)
	}
	topics, err := extract.Strings(raw)
	if err != nil {
		logger.Error("workflow: topic extraction response rejected", "error", err, "raw", raw)
		return nil, userError(msgInvalidData, err)
	}
	return topics, nil
}
