// Package answers checks user answers with a language model and suggests the
// next conversational prompt. Both operations degrade to permissive defaults
// when the model is missing or misbehaves, so they never block form filling.
package answers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"formassist/internal/llm"
	"formassist/internal/logger"
	"formassist/pkg/models"
)

const validationPrompt = `Question: %s
User's Answer: %s

Validate if this answer is appropriate and complete for the question.
If valid, return: {"valid": true, "suggestion": ""}
If invalid or incomplete, return: {"valid": false, "suggestion": "helpful suggestion to improve the answer"}

Return valid JSON only.`

// Validator judges whether an answer fits its question.
type Validator struct {
	generator llm.Generator
	log       zerolog.Logger
}

// NewValidator creates a validator. A nil gen accepts every answer.
func NewValidator(gen llm.Generator) *Validator {
	return &Validator{
		generator: gen,
		log:       logger.WithComponent("validator"),
	}
}

// Validate returns the model's verdict. Any failure is treated as a valid
// answer with no suggestion. A valid verdict never carries a suggestion.
func (v *Validator) Validate(ctx context.Context, question, answer string) models.ValidationResult {
	accepted := models.ValidationResult{IsValid: true}
	if v.generator == nil {
		return accepted
	}

	log := logger.FromContext(ctx, v.log)

	reply, err := v.generator.Generate(ctx, fmt.Sprintf(validationPrompt, question, answer))
	if err != nil {
		log.Warn().Err(err).Msg("Answer validation failed, accepting answer")
		return accepted
	}

	result, err := parseVerdict(llm.StripCodeFence(reply))
	if err != nil {
		log.Warn().Err(err).Str("reply", reply).Msg("Unreadable validation reply, accepting answer")
		return accepted
	}
	return result
}

func parseVerdict(reply string) (models.ValidationResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(reply), &fields); err != nil {
		return models.ValidationResult{}, fmt.Errorf("parse validation reply: %w", err)
	}

	result := models.ValidationResult{IsValid: true}
	if raw, ok := fields["valid"]; ok {
		var valid bool
		if json.Unmarshal(raw, &valid) == nil {
			result.IsValid = valid
		}
	}
	if !result.IsValid {
		if raw, ok := fields["suggestion"]; ok {
			var suggestion string
			if json.Unmarshal(raw, &suggestion) == nil {
				result.Suggestion = suggestion
			}
		}
	}
	return result, nil
}
