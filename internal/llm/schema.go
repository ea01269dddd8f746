// File path: internal/llm/schema.go
package llm

// Declared output schemas for every structured operation the tool performs.
// Keeping them together makes the full request surface of the external model
// visible in one place.

// ScriptSchema constrains whole-script generation: an array of speaker
// attributed lines.
func ScriptSchema() *Schema {
	return &Schema{
		Type:  "array",
		Items: scriptLineSchema(),
	}
}

func scriptLineSchema() *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"speakerId": {Type: "string", Description: "id of the persona speaking this line"},
			"line":      {Type: "string", Description: "the spoken dialogue"},
		},
		Required: []string{"speakerId", "line"},
	}
}

// NextLineSchema constrains single-line generation and revision.
func NextLineSchema() *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"line": {Type: "string", Description: "the spoken dialogue"},
		},
		Required: []string{"line"},
	}
}

// PersonaSchema constrains transcript analysis into a persona draft.
func PersonaSchema() *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"name":               {Type: "string"},
			"role":               {Type: "string"},
			"communicationStyle": {Type: "string"},
			"expertiseLevel":     {Type: "string"},
			"personalityTraits":  {Type: "array", Items: &Schema{Type: "string"}},
			"quirks":             {Type: "string"},
			"motivations":        {Type: "string"},
			"backstory":          {Type: "string"},
			"emotionalRange":     {Type: "string"},
			"speakingPatterns": {
				Type: "object",
				Properties: map[string]*Schema{
					"sentenceLength":       {Type: "string"},
					"vocabularyComplexity": {Type: "string"},
					"humorLevel":           {Type: "string"},
					"fillerWords":          {Type: "string"},
					"pauses":               {Type: "string"},
					"impediments":          {Type: "string"},
				},
			},
		},
		Required: []string{"name", "role"},
	}
}

// DocumentSchema constrains source-document analysis.
func DocumentSchema() *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"fullText": {Type: "string", Description: "complete extracted text of the document"},
			"metadata": {
				Type: "object",
				Properties: map[string]*Schema{
					"author": {Type: "string"},
					"date":   {Type: "string"},
					"domain": {Type: "string"},
				},
			},
			"allTopics": {Type: "array", Items: &Schema{Type: "string"}},
			"chunks": {
				Type: "array",
				Items: &Schema{
					Type: "object",
					Properties: map[string]*Schema{
						"content": {Type: "string"},
						"topics":  {Type: "array", Items: &Schema{Type: "string"}},
					},
					Required: []string{"content"},
				},
			},
		},
		Required: []string{"fullText"},
	}
}

// TopicsSchema constrains standalone topic extraction.
func TopicsSchema() *Schema {
	return &Schema{
		Type:  "array",
		Items: &Schema{Type: "string"},
	}
}
