// File path: internal/script/policy.go
package script

import (
	"fmt"
	"strings"

	"github.com/b08x/script-craft-v2/internal/persona"
)

// SpeakerPolicy decides what happens to a parsed line whose speaker id does
// not reference a known persona. The original tool always dropped such lines
// silently; keeping the choice explicit lets deployments opt into failing
// fast or repairing instead.
type SpeakerPolicy int

const (
	// DropInvalid silently discards lines with unknown speakers.
	DropInvalid SpeakerPolicy = iota
	// Strict rejects the whole response when any speaker is unknown.
	Strict
	// RepairToNearest reassigns unknown speakers to the round-robin
	// successor of the previous line's speaker.
	RepairToNearest
)

// ParsePolicy maps a configuration string to a policy, defaulting to drop.
func ParsePolicy(raw string) (SpeakerPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "drop":
		return DropInvalid, nil
	case "strict":
		return Strict, nil
	case "repair":
		return RepairToNearest, nil
	default:
		return DropInvalid, fmt.Errorf("unknown speaker policy %q", raw)
	}
}

func (p SpeakerPolicy) String() string {
	switch p {
	case Strict:
		return "strict"
	case RepairToNearest:
		return "repair"
	default:
		return "drop"
	}
}

// ResolveSpeaker maps a raw model-supplied speaker id onto a persona id.
// Exact id matches win; an all-digit id in range is treated as a positional
// index, which is how mocked and loosely-prompted models refer to speakers.
func ResolveSpeaker(personas []persona.Persona, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	for _, p := range personas {
		if p.ID == raw {
			return p.ID, true
		}
	}
	if idx, ok := digitIndex(raw); ok && idx < len(personas) {
		return personas[idx].ID, true
	}
	return "", false
}

func digitIndex(s string) (int, bool) {
	if s == "" || len(s) > 3 {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
