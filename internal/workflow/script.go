// File path: internal/workflow/script.go
package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/b08x/script-craft-v2/internal/common"
	"github.com/b08x/script-craft-v2/internal/extract"
	"github.com/b08x/script-craft-v2/internal/llm"
	"github.com/b08x/script-craft-v2/internal/persona"
	"github.com/b08x/script-craft-v2/internal/prompt"
	"github.com/b08x/script-craft-v2/internal/script"
	"github.com/b08x/script-craft-v2/internal/session"
)

const (
	msgGenerateScript = "Failed to generate script"
	msgNextLine       = "Failed to generate next line"
	msgReviseLine     = "Failed to revise line"
	msgInvalidScript  = "Invalid script format"
	msgInvalidData    = "Invalid data format"
)

// GenerateScript produces a fresh script for the session, replacing any
// existing one.
func (m *Manager) GenerateScript(ctx context.Context, sessionID, instruction string) ([]script.Line, error) {
	logger := common.Logger()
	sess, err := m.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if len(sess.Personas) < 2 {
		return nil, fmt.Errorf("at least two personas are required to generate a script")
	}
	cfg := llm.NewConfig(sess.Settings.Temperature, llm.ScriptSchema(),
		sess.Settings.EnableSearchGrounding, sess.Settings.ThinkingBudget)
	req := llm.Request{
		Model:  sess.Settings.ModelName,
		Parts:  []llm.Part{llm.TextPart(prompt.Script(sess.Personas, sess.Settings, sess.ShowIntro, instruction))},
		Config: cfg,
	}
	raw, err := m.generate(ctx, "script", req)
	if err != nil {
		logger.Error("workflow: script generation failed", "session", sessionID, "error", err)
		return nil, userError(msgGenerateScript, err)
	}
	lines, err := extract.ScriptLines(raw, sess.Personas, m.policy)
	if err != nil {
		logger.Error("workflow: script response rejected", "session", sessionID, "error", err, "raw", raw)
		return nil, userError(msgInvalidScript, err)
	}
	if err := m.store.SetScript(sessionID, lines); err != nil {
		return nil, err
	}
	logger.Info("workflow: script generated", "session", sessionID, "lines", len(lines))
	return lines, nil
}

// GenerateNextLine extends the script by one line, choosing the speaker by
// strict round-robin over the persona order.
func (m *Manager) GenerateNextLine(ctx context.Context, sessionID, instruction string) (script.Line, error) {
	logger := common.Logger()
	sess, err := m.store.Get(sessionID)
	if err != nil {
		return script.Line{}, err
	}
	speaker, err := script.NextSpeaker(sess.Personas, sess.Script)
	if err != nil {
		return script.Line{}, err
	}
	cfg := llm.NewConfig(sess.Settings.Temperature, llm.NextLineSchema(),
		sess.Settings.EnableSearchGrounding, sess.Settings.ThinkingBudget)
	req := llm.Request{
		Model:  sess.Settings.ModelName,
		Parts:  []llm.Part{llm.TextPart(prompt.NextLine(sess.Personas, sess.Settings, sess.Script, speaker, instruction))},
		Config: cfg,
	}
	raw, err := m.generate(ctx, "next-line", req)
	if err != nil {
		logger.Error("workflow: next line generation failed", "session", sessionID, "error", err)
		return script.Line{}, userError(msgNextLine, err)
	}
	var parsed struct {
		Line string `json:"line"`
	}
	if err := extract.Object(raw, &parsed); err != nil {
		logger.Error("workflow: next line response rejected", "session", sessionID, "error", err, "raw", raw)
		return script.Line{}, userError(msgInvalidData, err)
	}
	line := script.Line{ID: uuid.NewString(), SpeakerID: speaker.ID, Text: parsed.Line}
	if err := m.store.AppendLine(sessionID, line); err != nil {
		return script.Line{}, err
	}
	logger.Info("workflow: next line generated", "session", sessionID, "speaker", speaker.ID)
	return line, nil
}

// ReviseLine rewrites one existing line according to the instruction.
func (m *Manager) ReviseLine(ctx context.Context, sessionID, lineID, instruction string) (script.Line, error) {
	logger := common.Logger()
	sess, err := m.store.Get(sessionID)
	if err != nil {
		return script.Line{}, err
	}
	var target script.Line
	found := false
	for _, line := range sess.Script {
		if line.ID == lineID {
			target = line
			found = true
			break
		}
	}
	if !found {
		return script.Line{}, session.ErrLineNotFound
	}
	var speakerPersona persona.Persona
	found = false
	for _, p := range sess.Personas {
		if p.ID == target.SpeakerID {
			speakerPersona = p
			found = true
			break
		}
	}
	if !found {
		return script.Line{}, errNoPersonaForLine
	}
	cfg := llm.NewConfig(sess.Settings.Temperature, llm.NextLineSchema(),
		sess.Settings.EnableSearchGrounding, sess.Settings.ThinkingBudget)
	req := llm.Request{
		Model:  sess.Settings.ModelName,
		Parts:  []llm.Part{llm.TextPart(prompt.Revise(speakerPersona, target, instruction))},
		Config: cfg,
	}
	raw, err := m.generate(ctx, "revise", req)
	if err != nil {
		logger.Error("workflow: line revision failed", "session", sessionID, "line", lineID, "error", err)
		return script.Line{}, userError(msgReviseLine, err)
	}
	var parsed struct {
		Line string `json:"line"`
	}
	if err := extract.Object(raw, &parsed); err != nil {
		logger.Error("workflow: revision response rejected", "session", sessionID, "error", err, "raw", raw)
		return script.Line{}, userError(msgInvalidData, err)
	}
	if err := m.store.UpdateLine(sessionID, lineID, parsed.Line); err != nil {
		return script.Line{}, err
	}
	target.Text = parsed.Line
	return target, nil
}

var errNoPersonaForLine = errors.New("line speaker matches no persona")
