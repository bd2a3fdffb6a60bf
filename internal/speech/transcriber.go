// Package speech turns recorded answers into text with OpenAI Whisper.
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"formassist/internal/logger"
)

// uploadName is the file name reported to the transcription endpoint, which
// uses its extension to pick a decoder.
const uploadName = "input.wav"

const maxErrorExcerpt = 100

// Guidance shown instead of a transcript when transcription fails.
const (
	QuotaGuidance = "OpenAI API quota exceeded. Set AI_PROVIDER=gemini to keep using the assistant, or type your answer in the text field."
	AuthGuidance  = "Voice recognition is not configured. Set OPENAI_API_KEY, or set AI_PROVIDER=gemini with a Gemini API key and type your answer in the text field."
	genericFormat = "Voice recognition unavailable. Please type your answer in the text field. (%s)"
)

// ErrNotConfigured is returned when no OpenAI API key is available.
var ErrNotConfigured = errors.New("transcription requires an OpenAI api_key")

// Transcriber converts audio to text.
type Transcriber struct {
	client *openai.Client
	model  string
	log    zerolog.Logger
}

// NewTranscriber creates a transcriber for apiKey. An empty key yields a
// transcriber that always returns AuthGuidance.
func NewTranscriber(apiKey, model string) *Transcriber {
	var client *openai.Client
	if apiKey != "" {
		client = openai.NewClient(apiKey)
	}
	return NewTranscriberWithClient(client, model)
}

// NewTranscriberWithClient creates a transcriber with an explicit client.
func NewTranscriberWithClient(client *openai.Client, model string) *Transcriber {
	if model == "" {
		model = openai.Whisper1
	}
	return &Transcriber{
		client: client,
		model:  model,
		log:    logger.WithComponent("speech"),
	}
}

// Transcribe returns the spoken text, or a guidance message telling the user
// how to proceed when transcription is unavailable. It never fails.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte) string {
	text, err := t.transcribe(ctx, audio)
	if err != nil {
		log := logger.FromContext(ctx, t.log)
		log.Warn().Err(err).Msg("Transcription failed")
		return Guidance(err)
	}
	return text
}

func (t *Transcriber) transcribe(ctx context.Context, audio []byte) (string, error) {
	if t.client == nil {
		return "", ErrNotConfigured
	}

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: uploadName,
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// Guidance maps a transcription error to a message for the user.
func Guidance(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.Code == "insufficient_quota":
			return QuotaGuidance
		case apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden:
			return AuthGuidance
		}
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "insufficient_quota") || strings.Contains(msg, "429"):
		return QuotaGuidance
	case strings.Contains(lower, "api_key") || strings.Contains(lower, "auth"):
		return AuthGuidance
	default:
		return fmt.Sprintf(genericFormat, excerpt(msg, maxErrorExcerpt))
	}
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
