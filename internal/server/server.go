// Package server exposes the form assistant over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"formassist/internal/answers"
	"formassist/internal/identity"
	"formassist/internal/logger"
	"formassist/internal/ocr"
	"formassist/internal/profile"
	"formassist/internal/questions"
	"formassist/internal/sheets"
	"formassist/pkg/models"
)

const (
	maxUploadBytes  = ocr.MaxImageSizeBytes
	requestTimeout  = 120 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Transcriber converts recorded audio to text, or to guidance when it cannot.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) string
}

// SubmissionLogger records completed forms.
type SubmissionLogger interface {
	AppendSubmission(ctx context.Context, sub sheets.Submission) error
}

// Dependencies are the services behind the API. OCR, Speech and Submissions
// may be nil.
type Dependencies struct {
	OCR         ocr.OCRService
	Detector    *questions.Detector
	Identity    *identity.Extractor
	Validator   *answers.Validator
	Assistant   *answers.Assistant
	Speech      Transcriber
	Profiles    *profile.Store
	Submissions SubmissionLogger
	// OutputDir keeps a copy of every generated PDF when set.
	OutputDir string
}

// Server is the HTTP server for the form assistant API.
type Server struct {
	deps   Dependencies
	addr   string
	log    zerolog.Logger
	now    func() time.Time
	render func(models.FillRequest) ([]byte, error)
	server *http.Server
}

// NewServer creates a server listening on host:port.
func NewServer(host string, port int, deps Dependencies) *Server {
	return &Server{
		deps:   deps,
		addr:   fmt.Sprintf("%s:%d", host, port),
		log:    logger.WithComponent("server"),
		now:    time.Now,
		render: renderPDF,
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(corsPolicy())
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Post("/scan-form", s.handleScanForm)
	r.Post("/speech-to-text", s.handleSpeechToText)
	r.Post("/upload-document", s.handleUploadDocument)
	r.Post("/auto-fill-from-id", s.handleAutoFillFromID)
	r.Post("/register", s.handleRegister)
	r.Post("/login", s.handleLogin)
	r.Post("/save-profile", s.handleSaveProfile)
	r.Get("/get-profile/{email}", s.handleGetProfile)
	r.Post("/generate-filled-form", s.handleGenerateFilledForm)
	r.Post("/validate-answer", s.handleValidateAnswer)
	r.Post("/next-question", s.handleNextQuestion)
	r.Get("/health", s.handleHealth)

	return r
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("Starting server")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info().Msg("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}
