// File path: internal/llm/providers/openai_client.go
package providers

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/b08x/script-craft-v2/internal/common"
)

const defaultOpenAIModel = "gpt-4o"

// OpenAIProvider drives chat-completions compatible models. Response schemas
// map to the structured-output response format; search grounding has no
// equivalent here, so grounded requests fall back to free-form text.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

func NewOpenAIProvider(apiKey, endpoint string) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
		opts = append(opts, option.WithBaseURL(endpoint))
	}
	model := strings.TrimSpace(os.Getenv("OPENAI_CHAT_MODEL"))
	if model == "" {
		model = defaultOpenAIModel
	}
	common.Logger().Info("llm: openai provider configured", "model", model, "endpoint", endpoint)
	return &OpenAIProvider{client: openai.NewClient(opts...), model: model}
}

func (o *OpenAIProvider) GenerateContent(ctx context.Context, req Request) (string, error) {
	if err := req.Config.Validate(); err != nil {
		return "", err
	}
	logger := common.Logger()
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = o.model
	}
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    []openai.ChatCompletionMessageParamUnion{buildOpenAIMessage(req.Parts)},
		Temperature: openai.Float(req.Config.Temperature),
	}
	if req.Config.SearchGrounding {
		logger.Warn("llm: openai provider has no search grounding; continuing without it")
	}
	if schema := req.Config.ResponseSchema; schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "response",
					Schema: schema.JSONMap(),
					Strict: openai.Bool(true),
				},
			},
		}
	}
	logger.Debug("llm: openai request", "model", model, "parts", len(req.Parts))
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("llm: openai request failed", "error", err)
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAIProvider) Name() string { return "openai" }

func buildOpenAIMessage(parts []Part) openai.ChatCompletionMessageParamUnion {
	hasBlob := false
	for _, p := range parts {
		if p.IsBlob() {
			hasBlob = true
			break
		}
	}
	if !hasBlob {
		texts := make([]string, 0, len(parts))
		for _, p := range parts {
			texts = append(texts, p.Text)
		}
		return openai.UserMessage(strings.Join(texts, "\n\n"))
	}
	content := make([]openai.ChatCompletionContentPartUnionParam, 0, len(parts))
	for _, p := range parts {
		if !p.IsBlob() {
			content = append(content, openai.TextContentPart(p.Text))
			continue
		}
		dataURL := "data:" + p.MIME + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
		content = append(content, openai.FileContentPart(openai.ChatCompletionContentPartFileFileParam{
			FileData: openai.String(dataURL),
			Filename: openai.String("attachment"),
		}))
	}
	return openai.UserMessage(content)
}
