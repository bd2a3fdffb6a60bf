package answers

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"formassist/internal/llm"
	"formassist/internal/logger"
)

const nextQuestionPrompt = `You are a friendly AI form assistant helping users fill government forms.

Current field: %s
User's response: %s

Based on their response, ask the next logical question to continue form filling.
Be conversational, friendly, and encouraging. Keep questions simple and clear.

Next question:`

const defaultFollowUp = "Thank you! Please continue with the next field."

var followUps = map[string]string{
	"dateOfBirth": "Thank you! What is your complete address (House number, Street, City, PIN code)?",
	"address":     "Great! What is your phone number?",
	"phoneNumber": "Thank you! What is your email address?",
	"email":       "Perfect! We have all the information needed.",
}

// Assistant keeps the conversation going between form fields.
type Assistant struct {
	generator llm.Generator
	log       zerolog.Logger
}

// NewAssistant creates an assistant. A nil gen always uses the canned follow-ups.
func NewAssistant(gen llm.Generator) *Assistant {
	return &Assistant{
		generator: gen,
		log:       logger.WithComponent("assistant"),
	}
}

// NextQuestion asks the model for the next question given the field just
// answered. When the model is unavailable a canned follow-up for field is
// returned.
func (a *Assistant) NextQuestion(ctx context.Context, field, userResponse string) string {
	if a.generator == nil {
		return FollowUp(field)
	}

	reply, err := a.generator.Generate(ctx, fmt.Sprintf(nextQuestionPrompt, field, userResponse))
	if err == nil {
		if question := strings.TrimSpace(reply); question != "" {
			return question
		}
		err = llm.ErrEmptyResponse
	}

	log := logger.FromContext(ctx, a.log)
	log.Warn().Err(err).Str("field", field).Msg("Next question unavailable, using canned follow-up")
	return FollowUp(field)
}

// FollowUp returns the canned follow-up for field.
func FollowUp(field string) string {
	if q, ok := followUps[field]; ok {
		return q
	}
	return defaultFollowUp
}
