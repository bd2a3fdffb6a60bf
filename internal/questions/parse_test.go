package questions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formassist/pkg/models"
)

func TestParseQuestions(t *testing.T) {
	reply := `[
		{"id": 4, "question": "  Name ", "field_type": "TEXT", "required": true},
		{"question": "Phone", "field_type": "telephone", "required": "yes"},
		null,
		"Gender",
		{"question": 42},
		{"question": "Email", "field_type": "email"},
		{"question": "Date of Birth", "field_type": 7, "required": false}
	]`

	got, err := parseQuestions(reply)
	require.NoError(t, err)

	assert.Equal(t, []models.Question{
		{ID: 1, Question: "Name", FieldType: models.FieldText, Required: true},
		{ID: 2, Question: "Phone", FieldType: models.FieldText, Required: false},
		{ID: 3, Question: "Email", FieldType: models.FieldEmail, Required: false},
		{ID: 4, Question: "Date of Birth", FieldType: models.FieldText, Required: false},
	}, got)
}

func TestParseQuestions_Errors(t *testing.T) {
	_, err := parseQuestions(`{"question":"Name"}`)
	assert.ErrorIs(t, err, ErrMalformedReply)

	_, err = parseQuestions(`[]`)
	assert.ErrorIs(t, err, ErrNoValidQuestions)

	_, err = parseQuestions(`null`)
	assert.ErrorIs(t, err, ErrNoValidQuestions)
}
