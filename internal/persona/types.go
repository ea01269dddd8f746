// File path: internal/persona/types.go
package persona

import (
	"fmt"
	"strings"

	"github.com/b08x/script-craft-v2/internal/document"
)

// Enumeration option lists offered by the persona form. Free-form values are
// tolerated on import; these are the canonical choices.
var (
	CommunicationStyles = []string{"formal", "conversational", "enthusiastic", "analytical", "humorous"}
	ExpertiseLevels     = []string{"novice", "intermediate", "expert", "authority"}
	SentenceLengths     = []string{"short", "medium", "long", "varied"}
	VocabularyLevels    = []string{"simple", "moderate", "advanced", "technical"}
	HumorLevels         = []string{"none", "occasional", "frequent", "constant"}
)

// ContextFile is an attachment that colors a persona's voice. Text
// attachments carry their decoded content; audio and video attachments are
// referenced by name and type only and their bytes never reach a prompt.
type ContextFile struct {
	Name string `json:"name"`
	MIME string `json:"mimeType"`
	Text string `json:"text,omitempty"`
}

// SpeakingPatterns captures how a persona phrases its lines.
type SpeakingPatterns struct {
	SentenceLength       string       `json:"sentenceLength,omitempty"`
	VocabularyComplexity string       `json:"vocabularyComplexity,omitempty"`
	HumorLevel           string       `json:"humorLevel,omitempty"`
	FillerWords          string       `json:"fillerWords,omitempty"`
	Pauses               string       `json:"pauses,omitempty"`
	Impediments          string       `json:"impediments,omitempty"`
	ContextFile          *ContextFile `json:"contextFile,omitempty"`
}

// Persona is one configured synthetic speaker profile.
type Persona struct {
	ID                 string                    `json:"id"`
	Name               string                    `json:"name"`
	Role               string                    `json:"role"`
	CommunicationStyle string                    `json:"communicationStyle,omitempty"`
	ExpertiseLevel     string                    `json:"expertiseLevel,omitempty"`
	PersonalityTraits  []string                  `json:"personalityTraits"`
	Quirks             string                    `json:"quirks,omitempty"`
	Motivations        string                    `json:"motivations,omitempty"`
	Backstory          string                    `json:"backstory,omitempty"`
	EmotionalRange     string                    `json:"emotionalRange,omitempty"`
	SpeakingPatterns   SpeakingPatterns          `json:"speakingPatterns"`
	ContextFile        *ContextFile              `json:"contextFile,omitempty"`
	SourceDocuments    []document.SourceDocument `json:"sourceDocuments"`
	AvatarURL          string                    `json:"avatarUrl,omitempty"`
}

// Validate reports whether the persona carries the required fields.
func Validate(p Persona) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("persona name required")
	}
	if strings.TrimSpace(p.Role) == "" {
		return fmt.Errorf("persona role required")
	}
	return nil
}

// Normalize fills the nested fields a partially-shaped persona may lack so
// downstream code never trips over nils.
func Normalize(p Persona) Persona {
	if p.PersonalityTraits == nil {
		p.PersonalityTraits = []string{}
	}
	if p.SourceDocuments == nil {
		p.SourceDocuments = []document.SourceDocument{}
	}
	if len(p.SourceDocuments) > document.MaxPerPersona {
		p.SourceDocuments = p.SourceDocuments[:document.MaxPerPersona]
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Role = strings.TrimSpace(p.Role)
	return p
}
