package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned when the selected provider has no API key.
	ErrMissingAPIKey = errors.New("missing API key for AI provider")

	// ErrUnknownProvider is returned for an AI_PROVIDER value with no implementation.
	ErrUnknownProvider = errors.New("unknown AI provider")

	// ErrEmptyResponse is returned when the provider answered without any text.
	ErrEmptyResponse = errors.New("empty response from AI provider")
)

// LLMError wraps provider failures with the provider and operation involved.
type LLMError struct {
	Provider string
	Op       string
	Err      error
}

// Error implements the error interface.
func (e *LLMError) Error() string {
	return fmt.Sprintf("llm: %s %s failed: %v", e.Provider, e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *LLMError) Unwrap() error {
	return e.Err
}
