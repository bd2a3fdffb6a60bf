package questions

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"formassist/pkg/models"
)

var (
	// ErrNoGenerator is returned when AI extraction is attempted without a configured generator.
	ErrNoGenerator = errors.New("no text generator configured")
	// ErrMalformedReply is returned when the model reply is not a JSON array.
	ErrMalformedReply = errors.New("model reply is not a JSON array")
	// ErrNoValidQuestions is returned when the reply parses but holds no usable question.
	ErrNoValidQuestions = errors.New("model reply contains no valid questions")
)

// parseQuestions decodes a JSON array of question objects. Elements that are
// not objects, or lack a non-empty string "question", are dropped. Survivors
// are renumbered from 1; an unknown field_type becomes text and a non-boolean
// required becomes false.
func parseQuestions(reply string) ([]models.Question, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(reply), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	questions := make([]models.Question, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			continue
		}

		var label string
		if raw, ok := fields["question"]; !ok || json.Unmarshal(raw, &label) != nil {
			continue
		}
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}

		questions = append(questions, models.Question{
			ID:        len(questions) + 1,
			Question:  label,
			FieldType: fieldTypeOf(fields["field_type"]),
			Required:  requiredOf(fields["required"]),
		})
	}

	if len(questions) == 0 {
		return nil, ErrNoValidQuestions
	}
	return questions, nil
}

func fieldTypeOf(raw json.RawMessage) models.FieldType {
	var s string
	if raw == nil || json.Unmarshal(raw, &s) != nil {
		return models.FieldText
	}
	ft := models.FieldType(strings.ToLower(strings.TrimSpace(s)))
	if !ft.Valid() {
		return models.FieldText
	}
	return ft
}

func requiredOf(raw json.RawMessage) bool {
	var b bool
	if raw == nil || json.Unmarshal(raw, &b) != nil {
		return false
	}
	return b
}
