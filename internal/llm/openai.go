package llm

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"formassist/internal/config"
	"formassist/internal/logger"
)

// OpenAIGenerator implements Generator with OpenAI chat completions.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	temperature float32
	log         zerolog.Logger
}

// NewOpenAIGenerator creates a generator for the given API key and model.
func NewOpenAIGenerator(apiKey, model string, temperature float32) *OpenAIGenerator {
	return NewOpenAIGeneratorWithClient(openai.NewClient(apiKey), model, temperature)
}

// NewOpenAIGeneratorWithClient creates a generator with an explicit client.
func NewOpenAIGeneratorWithClient(client *openai.Client, model string, temperature float32) *OpenAIGenerator {
	return &OpenAIGenerator{
		client:      client,
		model:       model,
		temperature: temperature,
		log:         logger.WithComponent("llm-openai"),
	}
}

// Generate sends prompt as the user message and returns the first choice.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	const op = "Generate"

	g.log.Debug().
		Str("model", g.model).
		Int("prompt_length", len(prompt)).
		Msg("Sending chat completion request")

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", &LLMError{Provider: config.ProviderOpenAI, Op: op, Err: err}
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &LLMError{Provider: config.ProviderOpenAI, Op: op, Err: ErrEmptyResponse}
	}

	content := resp.Choices[0].Message.Content
	g.log.Debug().Int("response_length", len(content)).Msg("Received chat completion")
	return content, nil
}
