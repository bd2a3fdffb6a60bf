package ocr

import (
	"context"
	"errors"
	"strings"

	"formassist/internal/logger"
)

// ErrorMarker prefixes text that reports a failed extraction instead of carrying image text.
const ErrorMarker = "ERROR:"

// IsErrorText reports whether text is an extraction failure report.
func IsErrorText(text string) bool {
	return strings.HasPrefix(text, ErrorMarker)
}

// TextOrMarker extracts text from image and folds every failure into an
// ErrorMarker-prefixed message. A nil service is reported as unconfigured.
// An image with no readable text yields the empty string.
func TextOrMarker(ctx context.Context, svc OCRService, image []byte) string {
	log := logger.FromContext(ctx, logger.WithComponent("ocr"))

	if svc == nil {
		return ErrorMarker + " OCR service is not configured. Set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS to enable text extraction."
	}

	text, err := svc.ExtractText(ctx, image)
	switch {
	case err == nil:
		return text
	case errors.Is(err, ErrEmptyDocument):
		log.Info().Msg("No readable text found in image")
		return ""
	case errors.Is(err, ErrMissingCredentials):
		log.Error().Err(err).Msg("OCR credentials rejected")
		return ErrorMarker + " OCR service credentials are missing or invalid. Check GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS."
	default:
		log.Error().Err(err).Msg("OCR extraction failed")
		return ErrorMarker + " Could not extract text from image. " + err.Error()
	}
}
