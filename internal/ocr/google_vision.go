package ocr

import (
	"context"
	"fmt"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/rs/zerolog"

	"formassist/internal/logger"
)

// GoogleVisionOCRService implements OCRService using Google Cloud Vision API.
type GoogleVisionOCRService struct {
	client *vision.ImageAnnotatorClient
	log    zerolog.Logger
}

// NewGoogleVisionOCRService creates a new OCR service with credentials from environment.
// It expects either GOOGLE_APPLICATION_CREDENTIALS path or GOOGLE_CREDENTIALS JSON in env.
func NewGoogleVisionOCRService(ctx context.Context) (*GoogleVisionOCRService, error) {
	const op = "NewGoogleVisionOCRService"

	opts := credentialOptions()
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		if len(opts) == 0 {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapOCRError(op, err, "failed to create Vision client")
	}

	return NewGoogleVisionOCRServiceWithClient(client), nil
}

// NewGoogleVisionOCRServiceWithClient creates a new OCR service with an explicit client.
func NewGoogleVisionOCRServiceWithClient(client *vision.ImageAnnotatorClient) *GoogleVisionOCRService {
	return &GoogleVisionOCRService{
		client: client,
		log:    logger.WithComponent("ocr-vision"),
	}
}

// ExtractText runs document text detection over a single image.
func (g *GoogleVisionOCRService) ExtractText(ctx context.Context, image []byte) (string, error) {
	const op = "ExtractText"

	if err := validateImage(op, image); err != nil {
		return "", err
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}

	g.log.Debug().Int("image_bytes", len(image)).Msg("Sending image to Vision API")

	resp, err := g.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return "", WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}

	text, err := visionText(resp)
	if err != nil {
		return "", WrapOCRError(op, err, "failed to process Vision API response")
	}

	g.log.Debug().Int("text_length", len(text)).Msg("Vision API text detection completed")
	return text, nil
}

// visionText pulls the full text annotation out of a single-image response.
func visionText(resp *visionpb.BatchAnnotateImagesResponse) (string, error) {
	if resp == nil || len(resp.Responses) == 0 {
		return "", fmt.Errorf("%w: no response from Vision API", ErrOCRFailed)
	}

	imageResp := resp.Responses[0]
	if imageResp.Error != nil && imageResp.Error.Message != "" {
		return "", fmt.Errorf("%w: Vision API error: %s", ErrOCRFailed, imageResp.Error.Message)
	}

	var text string
	switch {
	case imageResp.FullTextAnnotation != nil:
		text = imageResp.FullTextAnnotation.Text
	case len(imageResp.TextAnnotations) > 0:
		// The first annotation spans the whole image
		text = imageResp.TextAnnotations[0].Description
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

// Close closes the underlying Vision client.
func (g *GoogleVisionOCRService) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
