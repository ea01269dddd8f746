// File path: internal/llm/llm.go
package llm

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/b08x/script-craft-v2/internal/common"
	"github.com/b08x/script-craft-v2/internal/llm/providers"
)

type (
	Part     = providers.Part
	Schema   = providers.Schema
	Config   = providers.Config
	Request  = providers.Request
	Provider = providers.Provider
)

var (
	TextPart  = providers.TextPart
	BlobPart  = providers.BlobPart
	NewConfig = providers.NewConfig
)

const cannedResponseDelay = 400 * time.Millisecond

// NewProvider selects the gateway implementation from the configured
// credentials: Gemini first, then Anthropic, then any OpenAI-compatible
// endpoint. With no credential at all every operation runs against the
// canned provider so the rest of the system stays usable.
func NewProvider(ctx context.Context) Provider {
	logger := common.Logger()
	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		provider, err := providers.NewGeminiProvider(ctx, key)
		if err == nil {
			return provider
		}
		logger.Error("llm: gemini provider init failed; trying next credential", "error", err)
	}
	if key := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); key != "" {
		return providers.NewAnthropicProvider(key)
	}
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		return providers.NewOpenAIProvider(key, os.Getenv("OPENAI_ENDPOINT"))
	}
	logger.Warn("llm: no API credential configured; using canned responses")
	return providers.NewCannedProvider(cannedResponseDelay)
}
