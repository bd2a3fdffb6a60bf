// Package ocr turns images of paper forms and identity documents into text.
//
// Two backends are available, selected by OCR_PROVIDER:
//   - vision: Google Cloud Vision document text detection on inline image bytes
//   - documentai: a Google Document AI OCR processor
//
// Required Environment Variables:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//   - GOOGLE_CLOUD_PROJECT, DOCUMENT_AI_PROCESSOR_ID: documentai backend only
//
// Callers that follow the text-only contract use TextOrMarker, which never
// fails: a failed extraction comes back as text starting with ErrorMarker.
package ocr

import (
	"context"
	"os"

	"google.golang.org/api/option"
)

const (
	// MaxImageSizeBytes is the largest image accepted for synchronous processing (20MB)
	MaxImageSizeBytes = 20 * 1024 * 1024
)

// OCRService defines the interface for OCR text extraction services.
type OCRService interface {
	// ExtractText returns all text found in the image, in reading order.
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// credentialOptions picks up credentials from the environment the same way for every Google client.
// An empty result means application default credentials.
func credentialOptions() []option.ClientOption {
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(credJSON))}
	}
	if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		return []option.ClientOption{option.WithCredentialsFile(credFile)}
	}
	return nil
}

func validateImage(op string, image []byte) error {
	if len(image) == 0 {
		return WrapOCRError(op, ErrEmptyImage, "")
	}
	if len(image) > MaxImageSizeBytes {
		return WrapOCRError(op, ErrImageTooLarge, "")
	}
	return nil
}
