// File path: internal/session/settings.go
package session

// Fixed option lists offered by the settings form.
var (
	ConversationStyles = []string{"podcast", "debate", "interview", "panel", "casual chat", "lecture"}
	ComplexityLevels   = []string{"accessible", "balanced", "technical", "academic"}
)

const (
	MinDialogueMinutes = 1
	MaxDialogueMinutes = 30
)

// GenerationSettings tune how scripts are generated. Search grounding and
// structured output are mutually exclusive; the gateway config builder
// enforces that, the flag here just records the user's choice.
type GenerationSettings struct {
	DialogueLengthMinutes int     `json:"dialogueLengthInMinutes"`
	ConversationStyle     string  `json:"conversationStyle"`
	ComplexityLevel       string  `json:"complexityLevel"`
	ModelName             string  `json:"modelName,omitempty"`
	Temperature           float64 `json:"temperature"`
	EnableSearchGrounding bool    `json:"enableSearchGrounding"`
	ThinkingBudget        int32   `json:"thinkingBudget"`
}

func DefaultSettings() GenerationSettings {
	return GenerationSettings{
		DialogueLengthMinutes: 5,
		ConversationStyle:     "podcast",
		ComplexityLevel:       "balanced",
		Temperature:           0.8,
	}
}

// Clamp bounds the numeric settings to their allowed ranges.
func (s GenerationSettings) Clamp() GenerationSettings {
	if s.DialogueLengthMinutes < MinDialogueMinutes {
		s.DialogueLengthMinutes = MinDialogueMinutes
	}
	if s.DialogueLengthMinutes > MaxDialogueMinutes {
		s.DialogueLengthMinutes = MaxDialogueMinutes
	}
	if s.Temperature < 0 {
		s.Temperature = 0
	}
	if s.Temperature > 2 {
		s.Temperature = 2
	}
	if s.ThinkingBudget < 0 {
		s.ThinkingBudget = 0
	}
	return s
}
