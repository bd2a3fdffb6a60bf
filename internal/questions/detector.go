// Package questions turns OCR text from a paper form into an ordered list of
// questions to put to the user.
//
// Detection is layered: a table of label patterns runs first, a language
// model is consulted when the patterns find too little, and a fixed
// five-question list is returned when everything else fails. Detect never
// returns an empty list.
package questions

import (
	"context"

	"github.com/rs/zerolog"

	"formassist/internal/llm"
	"formassist/internal/logger"
	"formassist/internal/ocr"
	"formassist/pkg/models"
)

// patternConfidenceThreshold is the number of rule matches that must be
// exceeded before the pattern result is trusted without consulting the model.
const patternConfidenceThreshold = 5

// Detector derives questions from form text.
type Detector struct {
	generator llm.Generator
	log       zerolog.Logger
}

// NewDetector creates a detector. gen may be nil, in which case forms with
// few recognised labels get the fallback list.
func NewDetector(gen llm.Generator) *Detector {
	return &Detector{
		generator: gen,
		log:       logger.WithComponent("questions"),
	}
}

// Detect returns the questions for the given OCR text.
func (d *Detector) Detect(ctx context.Context, text string) []models.Question {
	log := logger.FromContext(ctx, d.log)

	if text == "" || ocr.IsErrorText(text) {
		log.Warn().Msg("No usable form text, using fallback questions")
		return Fallback()
	}

	matched := MatchPatterns(text)
	if len(matched) > patternConfidenceThreshold {
		log.Info().Int("questions", len(matched)).Msg("Questions detected from label patterns")
		return matched
	}

	log.Debug().Int("pattern_matches", len(matched)).Msg("Too few label matches, asking model")
	questions, err := d.extractWithModel(ctx, text)
	if err != nil {
		log.Warn().Err(err).Msg("Model extraction failed, using fallback questions")
		return Fallback()
	}

	log.Info().Int("questions", len(questions)).Msg("Questions detected by model")
	return questions
}

func (d *Detector) extractWithModel(ctx context.Context, text string) ([]models.Question, error) {
	if d.generator == nil {
		return nil, ErrNoGenerator
	}

	reply, err := d.generator.Generate(ctx, buildExtractionPrompt(text))
	if err != nil {
		return nil, err
	}

	return parseQuestions(llm.ExtractJSONArray(reply))
}
