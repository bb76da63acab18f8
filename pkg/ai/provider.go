package ai

import (
	"context"
	"fmt"

	"github.com/johnquangdev/sales-coach/pkg/config"
)

// TextGenerator is implemented by every provider client in this package
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// NewGenerator returns the client selected by cfg.Provider
func NewGenerator(ctx context.Context, cfg config.LLMConfig) (TextGenerator, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic, "":
		return NewAnthropicClient(cfg), nil
	case config.ProviderGroq:
		return NewGroqClient(cfg), nil
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
