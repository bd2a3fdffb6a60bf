package speech

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *openai.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("sk-test")
	cfg.BaseURL = srv.URL + "/v1"
	return openai.NewClientWithConfig(cfg)
}

func TestTranscribe(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "input.wav", header.Filename)
		body, _ := io.ReadAll(file)
		assert.Equal(t, "RIFF-audio", string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"text": " Asha Verma "}`)
	})

	got := NewTranscriberWithClient(client, "").Transcribe(context.Background(), []byte("RIFF-audio"))
	assert.Equal(t, "Asha Verma", got)
}

func TestTranscribe_QuotaExceeded(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error": {"message": "You exceeded your current quota", "type": "insufficient_quota", "code": "insufficient_quota"}}`)
	})

	got := NewTranscriberWithClient(client, openai.Whisper1).Transcribe(context.Background(), []byte("a"))
	assert.Equal(t, QuotaGuidance, got)
}

func TestTranscribe_NoKey(t *testing.T) {
	got := NewTranscriber("", "").Transcribe(context.Background(), []byte("a"))
	assert.Equal(t, AuthGuidance, got)
}

func TestGuidance(t *testing.T) {
	assert.Equal(t, QuotaGuidance, Guidance(errors.New("status 429 from upstream")))
	assert.Equal(t, AuthGuidance, Guidance(&openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"}))
	assert.Equal(t, AuthGuidance, Guidance(errors.New("Authentication failed")))

	long := strings.Repeat("x", 150)
	got := Guidance(errors.New(long))
	assert.True(t, strings.HasPrefix(got, "Voice recognition unavailable."))
	assert.Contains(t, got, "("+strings.Repeat("x", 100)+")")
}
