// Package identity pulls personal details out of the OCR text of Indian
// identity documents (Aadhaar, PAN, Voter ID, Driving License) so they can
// pre-fill form answers.
package identity

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"formassist/internal/logger"
	"formassist/internal/ocr"
	"formassist/pkg/models"
)

// ExtractFromText classifies the document and extracts every field it can
// find. Fields that are not present are left nil. Text carrying the OCR error
// marker yields an *ExtractionError and no data.
func ExtractFromText(text string) (*models.IdentityData, error) {
	if ocr.IsErrorText(text) {
		return nil, &ExtractionError{Marker: text}
	}

	upper := strings.ToUpper(text)
	lines := strings.Split(text, "\n")

	docType, idNumber := classify(text, upper)

	return &models.IdentityData{
		RawText:      text,
		DocumentType: docType,
		Name:         extractName(lines),
		DOB:          extractDOB(lines, text),
		IDNumber:     idNumber,
		Address:      extractAddress(lines),
		Phone:        extractPhone(text),
		Email:        extractEmail(text),
		Gender:       extractGender(upper),
	}, nil
}

// Extractor reads identity documents from images.
type Extractor struct {
	ocr ocr.OCRService
	log zerolog.Logger
}

// NewExtractor creates an extractor backed by svc. A nil svc makes every
// extraction fail with the "not configured" marker.
func NewExtractor(svc ocr.OCRService) *Extractor {
	return &Extractor{
		ocr: svc,
		log: logger.WithComponent("identity"),
	}
}

// ExtractFromImage runs OCR on image and extracts the identity fields.
func (e *Extractor) ExtractFromImage(ctx context.Context, image []byte) (*models.IdentityData, error) {
	log := logger.FromContext(ctx, e.log)

	text := ocr.TextOrMarker(ctx, e.ocr, image)
	data, err := ExtractFromText(text)
	if err != nil {
		log.Warn().Err(err).Msg("Identity document could not be read")
		return nil, err
	}

	log.Info().
		Str("document_type", string(data.DocumentType)).
		Bool("has_name", data.Name != nil).
		Bool("has_id_number", data.IDNumber != nil).
		Msg("Identity document extracted")
	return data, nil
}
