// File path: internal/llm/providers/gemini.go
package providers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/b08x/script-craft-v2/internal/common"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider talks to the Gemini API. It is the primary live gateway:
// response schemas, the search grounding tool and thinking budgets all map
// onto native request config fields.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	if model == "" {
		model = defaultGeminiModel
	}
	common.Logger().Info("llm: gemini provider configured", "model", model)
	return &GeminiProvider{client: client, model: model}, nil
}

func (g *GeminiProvider) GenerateContent(ctx context.Context, req Request) (string, error) {
	if err := req.Config.Validate(); err != nil {
		return "", err
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = g.model
	}
	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.IsBlob() {
			parts = append(parts, genai.NewPartFromBytes(p.Data, p.MIME))
			continue
		}
		parts = append(parts, genai.NewPartFromText(p.Text))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Config.Temperature)),
	}
	if req.Config.SearchGrounding {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	} else if req.Config.ResponseSchema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = geminiSchema(req.Config.ResponseSchema)
	}
	if budget := req.Config.ThinkingBudget; budget > 0 && geminiSupportsThinking(model) {
		cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(budget)}
	}

	logger := common.Logger()
	logger.Debug("llm: gemini request", "model", model, "parts", len(parts),
		"schema", req.Config.ResponseSchema != nil, "grounding", req.Config.SearchGrounding)
	resp, err := g.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		logger.Error("llm: gemini request failed", "error", err)
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

func (g *GeminiProvider) Name() string { return "gemini" }

// Thinking budgets only exist on the 2.5 generation; forwarding one to an
// older model is a request error.
func geminiSupportsThinking(model string) bool {
	return strings.Contains(model, "2.5") || strings.Contains(model, "thinking")
}

func geminiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{Description: s.Description}
	switch s.Type {
	case "object":
		out.Type = genai.TypeObject
	case "array":
		out.Type = genai.TypeArray
	case "number":
		out.Type = genai.TypeNumber
	case "integer":
		out.Type = genai.TypeInteger
	case "boolean":
		out.Type = genai.TypeBoolean
	default:
		out.Type = genai.TypeString
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = geminiSchema(prop)
		}
	}
	out.Required = s.Required
	out.Items = geminiSchema(s.Items)
	return out
}
