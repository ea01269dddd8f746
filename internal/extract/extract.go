// File path: internal/extract/extract.go

// Package extract converts raw model responses into validated domain
// objects. Models wrap JSON in prose and code fences, especially when search
// grounding prepends citations, so extraction is deliberately lenient; the
// parse itself is strict and never accepts partial results.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/b08x/script-craft-v2/internal/common"
	"github.com/b08x/script-craft-v2/internal/persona"
	"github.com/b08x/script-craft-v2/internal/script"
)

// ErrInvalidFormat marks responses that could not be reduced to valid JSON
// of the expected shape. Callers surface it distinctly from transport
// failures.
var ErrInvalidFormat = errors.New("invalid response format")

// ErrUnknownSpeaker is returned under the strict speaker policy when a line
// references no known persona.
var ErrUnknownSpeaker = errors.New("unknown speaker id")

// JSON reduces raw model output to a parseable JSON payload. Stage one is a
// direct parse of the trimmed text; stage two looks for a fenced code block
// anywhere in the text; stage three, for arrays only, slices from the first
// '[' to the last ']'.
func JSON(raw string, wantArray bool) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidFormat
	}
	if json.Valid([]byte(trimmed)) {
		return trimmed, nil
	}
	if block, ok := fencedBlock(trimmed); ok && json.Valid([]byte(block)) {
		return block, nil
	}
	if wantArray {
		start := strings.IndexByte(trimmed, '[')
		end := strings.LastIndexByte(trimmed, ']')
		if start >= 0 && end > start {
			candidate := trimmed[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, nil
			}
		}
	}
	return "", ErrInvalidFormat
}

// fencedBlock returns the contents of the first triple-backtick block,
// tolerating an optional json language tag. The fence may sit anywhere in
// the text; grounded responses often lead with citations.
func fencedBlock(s string) (string, bool) {
	const fence = "```"
	start := strings.Index(s, fence)
	if start < 0 {
		return "", false
	}
	rest := s[start+len(fence):]
	if len(rest) >= 4 && strings.EqualFold(rest[:4], "json") {
		rest = rest[4:]
	}
	end := strings.Index(rest, fence)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// rawLine mirrors the declared script schema. SpeakerID is captured raw
// because models frequently return it as a bare number.
type rawLine struct {
	SpeakerID json.RawMessage `json:"speakerId"`
	Line      string          `json:"line"`
}

// ScriptLines parses a whole-script response into lines with fresh ids,
// stringified speaker ids and empty-string text defaults, then applies the
// speaker policy to any line whose speaker matches no persona.
func ScriptLines(raw string, personas []persona.Persona, policy script.SpeakerPolicy) ([]script.Line, error) {
	payload, err := JSON(raw, true)
	if err != nil {
		return nil, err
	}
	var entries []rawLine
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	logger := common.Logger()
	lines := make([]script.Line, 0, len(entries))
	for _, entry := range entries {
		sid := stringifyID(entry.SpeakerID)
		resolved, ok := script.ResolveSpeaker(personas, sid)
		if !ok {
			switch policy {
			case script.Strict:
				return nil, fmt.Errorf("%w: %q", ErrUnknownSpeaker, sid)
			case script.RepairToNearest:
				repaired, rerr := script.NextSpeaker(personas, lines)
				if rerr != nil {
					return nil, rerr
				}
				resolved = repaired.ID
				logger.Warn("extract: repaired unknown speaker", "speaker", sid, "assigned", resolved)
			default:
				logger.Warn("extract: dropped line with unknown speaker", "speaker", sid)
				continue
			}
		}
		lines = append(lines, script.Line{
			ID:        uuid.NewString(),
			SpeakerID: resolved,
			Text:      entry.Line,
		})
	}
	return lines, nil
}

// Object parses a single-object response into out, rejecting anything that
// is not a non-null JSON object.
func Object(raw string, out interface{}) error {
	payload, err := JSON(raw, false)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(strings.TrimSpace(payload), "{") {
		return fmt.Errorf("%w: expected a JSON object", ErrInvalidFormat)
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return nil
}

// Strings parses an array-of-strings response, used for topic extraction.
func Strings(raw string) ([]string, error) {
	payload, err := JSON(raw, true)
	if err != nil {
		return nil, err
	}
	var values []string
	if err := json.Unmarshal([]byte(payload), &values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

func stringifyID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return strings.TrimSpace(asString)
	}
	return strings.TrimSpace(string(raw))
}
