package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formassist/internal/config"
)

func newTestOpenAIClient(t *testing.T, handler http.HandlerFunc) *openai.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("sk-test")
	cfg.BaseURL = srv.URL + "/v1"
	return openai.NewClientWithConfig(cfg)
}

func TestOpenAIGenerator_Generate(t *testing.T) {
	var got openai.ChatCompletionRequest
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: `[{"question":"Name"}]`}},
			},
		})
	})

	gen := NewOpenAIGeneratorWithClient(client, "gpt-test", 0.3)
	out, err := gen.Generate(context.Background(), "extract the fields")
	require.NoError(t, err)

	assert.Equal(t, `[{"question":"Name"}]`, out)
	assert.Equal(t, "gpt-test", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	assert.Equal(t, "extract the fields", got.Messages[1].Content)
}

func TestOpenAIGenerator_EmptyChoices(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{})
	})

	_, err := NewOpenAIGeneratorWithClient(client, "gpt-test", 0).Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAIGenerator_APIError(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`))
	})

	_, err := NewOpenAIGeneratorWithClient(client, "gpt-test", 0).Generate(context.Background(), "p")
	require.Error(t, err)

	var llmErr *LLMError
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, config.ProviderOpenAI, llmErr.Provider)

	var apiErr *openai.APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestGeminiText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("```json\n"), genai.Text("[]\n```")}}},
		},
	}
	text, err := geminiText(resp)
	require.NoError(t, err)
	assert.Equal(t, "```json\n[]\n```", text)

	_, err = geminiText(&genai.GenerateContentResponse{})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = geminiText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{}}}})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestNew_MissingKey(t *testing.T) {
	for _, provider := range []string{config.ProviderGemini, config.ProviderOpenAI} {
		t.Run(provider, func(t *testing.T) {
			gen, err := New(context.Background(), &config.Config{AIProvider: provider})
			assert.Nil(t, gen)
			assert.ErrorIs(t, err, ErrMissingAPIKey)
		})
	}
}

func TestNew_UsesSelectedProviderKey(t *testing.T) {
	gen, err := New(context.Background(), &config.Config{AIProvider: config.ProviderOpenAI, GeminiAPIKey: "gm-test"})
	assert.Nil(t, gen)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNew_OpenAI(t *testing.T) {
	gen, err := New(context.Background(), &config.Config{AIProvider: config.ProviderOpenAI, OpenAIAPIKey: "sk-test", OpenAIModel: "gpt-test"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIGenerator{}, gen)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), &config.Config{AIProvider: "mystery"})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestGeneratorFunc(t *testing.T) {
	var gen Generator = GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
		return "echo: " + prompt, nil
	})
	out, err := gen.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", out)
}
