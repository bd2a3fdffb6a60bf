package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"formassist/internal/config"
	"formassist/internal/llm"
	"formassist/internal/ocr"
)

// createContextWithTimeout creates a context with timeout and signal handling
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

func loadConfig(log zerolog.Logger) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return nil, err
	}
	return cfg, nil
}

// readInputFile checks that path is a non-empty regular file within limit and returns its contents.
func readInputFile(path string, limit int64, log zerolog.Logger) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().Str("file", path).Msg("File not found")
			return nil, fmt.Errorf("file not found: %s", path)
		}
		if os.IsPermission(err) {
			log.Error().Str("file", path).Msg("Permission denied accessing file")
			return nil, fmt.Errorf("permission denied accessing file: %s", path)
		}
		return nil, fmt.Errorf("error accessing file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("path is not a regular file: %s", path)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("file is empty: %s", path)
	}
	if info.Size() > limit {
		log.Error().
			Str("file", path).
			Int64("size", info.Size()).
			Int64("max_size", limit).
			Msg("File exceeds maximum size limit")
		return nil, fmt.Errorf("file too large (%d bytes). Maximum size is %d bytes", info.Size(), limit)
	}

	return os.ReadFile(path)
}

// createOCRService builds the OCR backend selected by OCR_PROVIDER. The
// returned close function is never nil.
func createOCRService(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ocr.OCRService, func(), error) {
	hasCredentials := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" || os.Getenv("GOOGLE_CREDENTIALS") != ""
	if !hasCredentials {
		log.Warn().Msg("No explicit Google Cloud credentials, falling back to Application Default Credentials")
	}

	var (
		svc ocr.OCRService
		err error
	)
	switch cfg.OCRProvider {
	case config.OCRDocumentAI:
		svc, err = ocr.NewDocumentAIOCRService(ctx, ocr.DocumentAIConfig{
			ProjectID:   cfg.GoogleCloudProject,
			Location:    cfg.GoogleCloudLocation,
			ProcessorID: cfg.DocumentAIProcessorID,
		})
	default:
		svc, err = ocr.NewGoogleVisionOCRService(ctx)
	}
	if err != nil {
		if errors.Is(err, ocr.ErrMissingCredentials) {
			return nil, func() {}, fmt.Errorf("Google Cloud credentials validation failed. Please verify:\n\n" +
				"1. GOOGLE_APPLICATION_CREDENTIALS points to a readable service account JSON file, or\n" +
				"2. GOOGLE_CREDENTIALS holds the JSON inline, or\n" +
				"3. gcloud auth application-default login has been run\n\n" +
				"Original error: %w", err)
		}
		return nil, func() {}, fmt.Errorf("failed to create OCR service: %w", err)
	}

	log.Debug().Str("provider", cfg.OCRProvider).Msg("OCR service created")
	return svc, closerFor(svc, log), nil
}

// createGenerator builds the configured language model. A missing API key is
// not an error: callers get a nil generator and fall back to fixed answers.
func createGenerator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (llm.Generator, func(), error) {
	gen, err := llm.New(ctx, cfg)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			log.Warn().Str("provider", cfg.AIProvider).Msg("No API key configured, AI features disabled")
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}
	return gen, closerFor(gen, log), nil
}

func closerFor(v interface{}, log zerolog.Logger) func() {
	c, ok := v.(io.Closer)
	if !ok {
		return func() {}
	}
	return func() {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close client")
		}
	}
}

// handleRunError provides user-friendly messages for context failures
func handleRunError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Command failed")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("processing timed out. Try increasing --timeout")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("processing was canceled")
	default:
		return err
	}
}

// writeOutput writes data to outputPath, or to stdout when outputPath is empty.
func writeOutput(data []byte, outputPath string, log zerolog.Logger) error {
	if outputPath == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		log.Error().
			Err(err).
			Str("output_file", outputPath).
			Msg("Failed to write output file")
		return fmt.Errorf("failed to write output file: %w", err)
	}

	log.Info().
		Str("output_file", outputPath).
		Int("bytes", len(data)).
		Msg("Results written to file")
	return nil
}
