// File path: internal/llm/providers/anthropic.go
package providers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/b08x/script-craft-v2/internal/common"
)

const (
	defaultAnthropicModel     = "claude-sonnet-4-5"
	defaultAnthropicMaxTokens = 4096
)

// AnthropicProvider drives Claude models. Thinking budgets and web search
// are native; structured output is approximated with a trailing schema
// instruction because the API has no response-schema field.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	model := strings.TrimSpace(os.Getenv("ANTHROPIC_MODEL"))
	if model == "" {
		model = defaultAnthropicModel
	}
	client := anthropic.NewClient(
		anthropicoption.WithAPIKey(apiKey),
		anthropicoption.WithMaxRetries(0),
	)
	common.Logger().Info("llm: anthropic provider configured", "model", model)
	return &AnthropicProvider{client: client, model: model}
}

func (a *AnthropicProvider) GenerateContent(ctx context.Context, req Request) (string, error) {
	if err := req.Config.Validate(); err != nil {
		return "", err
	}
	logger := common.Logger()
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = a.model
	}
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(req.Parts)+1)
	for _, p := range req.Parts {
		if p.IsBlob() {
			blocks = append(blocks, anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{
				Data: base64.StdEncoding.EncodeToString(p.Data),
			}))
			continue
		}
		blocks = append(blocks, anthropic.NewTextBlock(p.Text))
	}
	if schema := req.Config.ResponseSchema; schema != nil {
		doc, err := json.Marshal(schema.JSONMap())
		if err != nil {
			return "", fmt.Errorf("encode response schema: %w", err)
		}
		blocks = append(blocks, anthropic.NewTextBlock(
			"Respond with raw JSON only, no prose and no code fences, matching this JSON schema:\n"+string(doc)))
	}
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   defaultAnthropicMaxTokens,
		Temperature: anthropic.Float(req.Config.Temperature),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
	}
	if req.Config.SearchGrounding {
		params.Tools = []anthropic.ToolUnionParam{{
			OfWebSearchTool20250305: &anthropic.WebSearchTool20250305Param{
				MaxUses: anthropic.Int(3),
			},
		}}
	}
	if budget := req.Config.ThinkingBudget; budget > 0 && anthropicSupportsThinking(model) {
		params.Thinking = anthropic.ThinkingConfigParamOfEnabled(int64(budget))
	}
	logger.Debug("llm: anthropic request", "model", model, "blocks", len(blocks),
		"grounding", req.Config.SearchGrounding)
	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		logger.Error("llm: anthropic request failed", "error", err)
		return "", fmt.Errorf("anthropic message: %w", err)
	}
	var builder strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}
	text := builder.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

func (a *AnthropicProvider) Name() string { return "anthropic" }

func anthropicSupportsThinking(model string) bool {
	return strings.Contains(model, "claude-3-7") ||
		strings.Contains(model, "claude-sonnet-4") ||
		strings.Contains(model, "claude-opus-4")
}
