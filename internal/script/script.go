// File path: internal/script/script.go
package script

import (
	"errors"

	"github.com/b08x/script-craft-v2/internal/persona"
)

// Line is one attributed utterance in the generated or edited dialogue.
type Line struct {
	ID        string `json:"id"`
	SpeakerID string `json:"speakerId"`
	Text      string `json:"line"`
}

// ErrNoPersonas is returned when rotation is asked to pick a speaker from an
// empty persona list.
var ErrNoPersonas = errors.New("no personas available")

// NextSpeaker applies the strict round-robin turn policy: the speaker after
// the last line's speaker in persona order; the first persona for an empty
// script; the only persona when just one exists. A last speaker that no
// longer matches any persona restarts the rotation at the first persona.
func NextSpeaker(personas []persona.Persona, lines []Line) (persona.Persona, error) {
	if len(personas) == 0 {
		return persona.Persona{}, ErrNoPersonas
	}
	if len(personas) == 1 || len(lines) == 0 {
		return personas[0], nil
	}
	last := lines[len(lines)-1].SpeakerID
	idx := -1
	for i, p := range personas {
		if p.ID == last {
			idx = i
			break
		}
	}
	return personas[(idx+1)%len(personas)], nil
}
