package ocr

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"formassist/internal/logger"
)

// DocumentAIConfig holds configuration for Google Document AI OCR processing.
type DocumentAIConfig struct {
	// ProjectID is the Google Cloud project ID where Document AI is enabled.
	ProjectID string

	// Location is the processing location (e.g., "us", "eu").
	Location string

	// ProcessorID is the Document AI OCR processor ID.
	ProcessorID string

	// Timeout is the maximum time to wait for processing.
	Timeout time.Duration
}

// DocumentAIOCRService implements OCRService using a Document AI OCR processor.
type DocumentAIOCRService struct {
	client *documentai.DocumentProcessorClient
	config DocumentAIConfig
	log    zerolog.Logger
}

// NewDocumentAIOCRService creates a Document AI backed OCR service with credentials from environment.
func NewDocumentAIOCRService(ctx context.Context, config DocumentAIConfig) (*DocumentAIOCRService, error) {
	const op = "NewDocumentAIOCRService"

	if config.Location == "" {
		config.Location = "us"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	clientOptions := credentialOptions()
	hasCredentials := len(clientOptions) > 0

	// Non-US processors live behind a regional endpoint
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if !hasCredentials {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapOCRError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return &DocumentAIOCRService{
		client: client,
		config: config,
		log:    logger.WithComponent("ocr-documentai"),
	}, nil
}

// ExtractText sends the raw image to the configured OCR processor.
func (p *DocumentAIOCRService) ExtractText(ctx context.Context, image []byte) (string, error) {
	const op = "ExtractText"

	if err := validateImage(op, image); err != nil {
		return "", err
	}

	processCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	req := &documentaipb.ProcessRequest{
		Name: p.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  image,
				MimeType: http.DetectContentType(image),
			},
		},
	}

	resp, err := p.client.ProcessDocument(processCtx, req)
	if err != nil {
		return "", p.handleProcessingError(op, err)
	}

	text, err := documentText(resp)
	if err != nil {
		return "", WrapOCRError(op, err, "failed to process Document AI response")
	}

	p.log.Debug().Int("text_length", len(text)).Msg("Document AI OCR completed")
	return text, nil
}

// processorName constructs the full processor name for Document AI API.
func (p *DocumentAIOCRService) processorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		p.config.ProjectID, p.config.Location, p.config.ProcessorID)
}

// handleProcessingError converts Document AI errors to OCR errors.
func (p *DocumentAIOCRService) handleProcessingError(op string, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "PERMISSION_DENIED"), strings.Contains(errStr, "Unauthenticated"):
		return WrapOCRError(op, ErrMissingCredentials, "insufficient permissions for Document AI")
	case strings.Contains(errStr, "NOT_FOUND"):
		return WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("processor not found: %s", p.config.ProcessorID))
	case strings.Contains(errStr, "context deadline exceeded"):
		return WrapOCRError(op, context.DeadlineExceeded, "processing timeout")
	default:
		return WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Document AI error: %v", err))
	}
}

func documentText(resp *documentaipb.ProcessResponse) (string, error) {
	if resp == nil || resp.Document == nil {
		return "", fmt.Errorf("%w: no document in response", ErrOCRFailed)
	}
	if strings.TrimSpace(resp.Document.Text) == "" {
		return "", ErrEmptyDocument
	}
	return resp.Document.Text, nil
}

// Close closes the underlying Document AI client.
func (p *DocumentAIOCRService) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
