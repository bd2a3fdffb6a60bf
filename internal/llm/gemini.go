package llm

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"formassist/internal/config"
	"formassist/internal/logger"
)

// GeminiGenerator implements Generator with Google Gemini.
type GeminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
	log    zerolog.Logger
}

// NewGeminiGenerator creates a Gemini client for apiKey using the named model.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &LLMError{Provider: config.ProviderGemini, Op: "NewGeminiGenerator", Err: err}
	}

	return &GeminiGenerator{
		client: client,
		model:  client.GenerativeModel(model),
		name:   model,
		log:    logger.WithComponent("llm-gemini"),
	}, nil
}

// Generate sends prompt as a single text part and joins the text parts of the first candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	const op = "Generate"

	g.log.Debug().
		Str("model", g.name).
		Int("prompt_length", len(prompt)).
		Msg("Sending generate content request")

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &LLMError{Provider: config.ProviderGemini, Op: op, Err: err}
	}

	text, err := geminiText(resp)
	if err != nil {
		return "", &LLMError{Provider: config.ProviderGemini, Op: op, Err: err}
	}

	g.log.Debug().Int("response_length", len(text)).Msg("Received generated content")
	return text, nil
}

func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

// Close releases the underlying Gemini client.
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}
