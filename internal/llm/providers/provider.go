// File path: internal/llm/providers/provider.go
package providers

import (
	"context"
	"fmt"
)

// Part is one segment of a prompt: either text or an inline binary
// attachment such as a PDF passed to the model for analysis.
type Part struct {
	Text string
	MIME string
	Data []byte
}

func TextPart(text string) Part {
	return Part{Text: text}
}

func BlobPart(mime string, data []byte) Part {
	return Part{MIME: mime, Data: data}
}

// IsBlob reports whether the part carries binary data rather than text.
func (p Part) IsBlob() bool {
	return len(p.Data) > 0
}

// Schema is a minimal JSON-schema tree declared alongside a request so the
// model constrains its output shape. Providers translate it to their native
// representation.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
}

// JSONMap renders the schema as a plain map for providers that accept raw
// JSON-schema documents.
func (s *Schema) JSONMap() map[string]interface{} {
	if s == nil {
		return nil
	}
	out := map[string]interface{}{"type": s.Type}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Properties) > 0 {
		props := make(map[string]interface{}, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.JSONMap()
		}
		out["properties"] = props
		out["additionalProperties"] = false
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONMap()
	}
	return out
}

// Config carries the per-request tunables. A response schema and search
// grounding can never travel together: grounded requests give up structured
// output and are parsed leniently instead.
type Config struct {
	Temperature     float64
	ResponseSchema  *Schema
	SearchGrounding bool
	ThinkingBudget  int32
}

// NewConfig builds a request config, enforcing the schema/grounding mutual
// exclusion by omitting the schema whenever grounding is enabled.
func NewConfig(temperature float64, schema *Schema, grounding bool, thinkingBudget int32) Config {
	cfg := Config{
		Temperature:     temperature,
		SearchGrounding: grounding,
		ThinkingBudget:  thinkingBudget,
	}
	if !grounding {
		cfg.ResponseSchema = schema
	}
	return cfg
}

// Validate rejects configs that were assembled by hand with both a schema
// and grounding set.
func (c Config) Validate() error {
	if c.SearchGrounding && c.ResponseSchema != nil {
		return fmt.Errorf("response schema and search grounding are mutually exclusive")
	}
	return nil
}

// Request is the single outbound operation the gateway supports: send a
// prompt to the configured model and get raw text back.
type Request struct {
	Model  string
	Parts  []Part
	Config Config
}

// Provider is the gateway strategy. Exactly one network call per invocation,
// no retries; live implementations and the canned offline one are selected
// at construction time.
type Provider interface {
	GenerateContent(ctx context.Context, req Request) (string, error)
	Name() string
}
