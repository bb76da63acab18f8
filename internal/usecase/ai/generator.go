package ai

import "context"

// Generator is the text-generation collaborator. Implementations must honour
// ctx cancellation and must not retry on their own.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// GeneratorFunc adapts a function to Generator
type GeneratorFunc func(ctx context.Context, prompt string, maxTokens int) (string, error)

// Generate calls f
func (f GeneratorFunc) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return f(ctx, prompt, maxTokens)
}
