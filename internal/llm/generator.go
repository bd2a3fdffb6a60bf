// Package llm hides the text-completion providers behind a single Generator
// capability and cleans up the free-form replies they return.
package llm

import (
	"context"
	"fmt"

	"formassist/internal/config"
)

// Generator is a single blocking text-completion call.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f(ctx, prompt).
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// systemPrompt is sent to providers that take a separate system message.
const systemPrompt = "You are a form analysis assistant helping people fill government forms. Follow the requested output format exactly and return valid JSON when asked for JSON."

// New builds the generator selected by cfg.AIProvider. It returns ErrMissingAPIKey
// when the selected provider has no key configured.
func New(ctx context.Context, cfg *config.Config) (Generator, error) {
	const op = "New"

	switch cfg.AIProvider {
	case config.ProviderOpenAI, config.ProviderGemini:
	default:
		return nil, &LLMError{Provider: cfg.AIProvider, Op: op, Err: fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.AIProvider)}
	}

	apiKey := cfg.ActiveAPIKey()
	if apiKey == "" {
		return nil, &LLMError{Provider: cfg.AIProvider, Op: op, Err: ErrMissingAPIKey}
	}

	if cfg.AIProvider == config.ProviderOpenAI {
		return NewOpenAIGenerator(apiKey, cfg.OpenAIModel, cfg.OpenAITemperature), nil
	}
	gen, err := NewGeminiGenerator(ctx, apiKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	return gen, nil
}
