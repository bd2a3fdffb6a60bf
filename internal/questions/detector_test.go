package questions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formassist/pkg/models"
)

type countingGenerator struct {
	reply   string
	err     error
	calls   int
	prompts []string
}

func (g *countingGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

const sparseForm = "APPLICATION\nName\nPhone\nEmail\nGender\nAddress"

func assertSequentialIDs(t *testing.T, qs []models.Question) {
	t.Helper()
	require.NotEmpty(t, qs)
	for i, q := range qs {
		assert.Equal(t, i+1, q.ID)
	}
}

func TestDetect_ErrorMarkerReturnsFallback(t *testing.T) {
	gen := &countingGenerator{reply: `[{"question":"Name"}]`}
	d := NewDetector(gen)

	got := d.Detect(context.Background(), "ERROR: Could not extract text from image. boom")

	assert.Equal(t, Fallback(), got)
	assert.Zero(t, gen.calls)
}

func TestDetect_EmptyTextReturnsFallback(t *testing.T) {
	gen := &countingGenerator{}
	got := NewDetector(gen).Detect(context.Background(), "")

	assert.Equal(t, Fallback(), got)
	assert.Zero(t, gen.calls)
}

func TestDetect_ConfidentPatternsSkipModel(t *testing.T) {
	gen := &countingGenerator{reply: `[{"question":"Should not be used"}]`}
	text := "Namo:\nMobile:\nEmailid:\nGonder:\nDate of Bich:\nAddeoss:"

	got := NewDetector(gen).Detect(context.Background(), text)

	assert.Zero(t, gen.calls)
	require.Len(t, got, 6)
	assertSequentialIDs(t, got)
	assert.Equal(t, "Name", got[0].Question)
	assert.Equal(t, models.FieldPhone, got[1].FieldType)
	assert.Equal(t, "Date of Birth", got[4].Question)
	assert.Equal(t, "Address", got[5].Question)
}

func TestDetect_FencedModelReply(t *testing.T) {
	gen := &countingGenerator{reply: "Here you go:\n```json\n[{\"id\": 9, \"question\": \"Name\", \"field_type\": \"text\", \"required\": true}, {\"question\": \"Mobile Number\", \"field_type\": \"phone\"}]\n```"}

	got := NewDetector(gen).Detect(context.Background(), sparseForm)

	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.prompts[0], sparseForm)
	assert.Equal(t, []models.Question{
		{ID: 1, Question: "Name", FieldType: models.FieldText, Required: true},
		{ID: 2, Question: "Mobile Number", FieldType: models.FieldPhone, Required: false},
	}, got)
}

func TestDetect_ModelFailuresReturnFallback(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{name: "provider error", err: errors.New("rate limited")},
		{name: "empty array", reply: "[]"},
		{name: "not json", reply: "I could not find any fields."},
		{name: "object instead of array", reply: `{"question": "Name"}`},
		{name: "no valid elements", reply: `[1, "Name", {"label": "Name"}, {"question": ""}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &countingGenerator{reply: tt.reply, err: tt.err}
			got := NewDetector(gen).Detect(context.Background(), sparseForm)

			assert.Equal(t, 1, gen.calls)
			assert.Equal(t, Fallback(), got)
		})
	}
}

func TestDetect_NilGeneratorReturnsFallback(t *testing.T) {
	got := NewDetector(nil).Detect(context.Background(), sparseForm)
	assert.Equal(t, Fallback(), got)
}

func TestFallback_ReturnsFreshCopy(t *testing.T) {
	first := Fallback()
	first[0].Question = "changed"

	second := Fallback()
	assert.Equal(t, "What is your full name?", second[0].Question)
	require.Len(t, second, 5)
	assertSequentialIDs(t, second)
	assert.False(t, second[4].Required)
}
