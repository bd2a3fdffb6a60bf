package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"formassist/internal/answers"
	"formassist/internal/identity"
	"formassist/internal/logger"
	"formassist/internal/ocr"
	"formassist/internal/profile"
	"formassist/internal/questions"
	"formassist/internal/server"
	"formassist/internal/sheets"
	"formassist/internal/speech"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the form assistant HTTP API",
	Long: `Start the HTTP API used by the form assistant front end: form scanning,
identity document reading, answer validation, speech transcription, user
profiles and PDF generation.

Every AI-backed endpoint keeps working without credentials by answering from
its fallback, so the server can be started with an empty environment.`,
	Example: `  formassist serve
  formassist serve --host 127.0.0.1 --port 9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "Listen address (default: SERVER_HOST)")
	serveCmd.Flags().Int("port", 0, "Listen port (default: SERVER_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetInt("port")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if host == "" {
		host = cfg.ServerHost
	}
	if port == 0 {
		port = cfg.ServerPort
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// OCR is optional: without it the scan endpoints answer with fallbacks.
	var ocrService ocr.OCRService
	svc, closeOCR, err := createOCRService(ctx, cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("OCR unavailable, scans will use standard questions")
	} else {
		ocrService = svc
		defer closeOCR()
	}

	gen, closeGen, err := createGenerator(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeGen()

	deps := server.Dependencies{
		OCR:       ocrService,
		Detector:  questions.NewDetector(gen),
		Identity:  identity.NewExtractor(ocrService),
		Validator: answers.NewValidator(gen),
		Assistant: answers.NewAssistant(gen),
		Profiles:  profile.NewStore(),
		OutputDir: cfg.OutputDir,
	}

	if cfg.OpenAIAPIKey != "" {
		deps.Speech = speech.NewTranscriber(cfg.OpenAIAPIKey, cfg.OpenAITranscribeModel)
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, speech recognition disabled")
	}

	if cfg.SubmissionsSheetURL != "" {
		sheetSvc, err := sheets.NewSheetsService(ctx, cfg.SubmissionsSheetURL, cfg.SubmissionsWorksheet)
		if err != nil {
			log.Warn().Err(err).Msg("Submission logging disabled")
		} else {
			deps.Submissions = sheetSvc
		}
	}

	log.Info().
		Str("ai_provider", cfg.AIProvider).
		Bool("ai_enabled", gen != nil).
		Bool("ocr_enabled", ocrService != nil).
		Bool("speech_enabled", deps.Speech != nil).
		Bool("submission_log", deps.Submissions != nil).
		Msg("Dependencies ready")

	return server.NewServer(host, port, deps).Start(ctx)
}
