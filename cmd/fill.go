package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"formassist/internal/logger"
	"formassist/internal/render"
	"formassist/internal/sheets"
	"formassist/pkg/models"
)

const maxRequestSizeBytes = 5 * 1024 * 1024

var fillCmd = &cobra.Command{
	Use:   "fill [request-file]",
	Short: "Render collected answers into a completed PDF form",
	Long: `Read a JSON fill request and write the completed form as a PDF.

The request has the same shape as the body of POST /generate-filled-form:

  {
    "answers": {"1": {"question": "What is your full name?", "answer": "Asha Rao"}},
    "user_profile": {"email": "asha@example.com", "name": "Asha Rao"},
    "documents": {"aadhaar": "aadhaar.jpg"}
  }

Optional environment variables:
  OUTPUT_DIR - Directory for generated PDFs (default: output)
  SUBMISSIONS_SHEET_URL - Google Sheet that receives one row per submission
  SUBMISSIONS_WORKSHEET - Worksheet name (default: Submissions)`,
	Example: `  formassist fill request.json
  formassist fill request.json --output-dir ./out --sheet`,
	Args: cobra.ExactArgs(1),
	RunE: runFill,
}

func init() {
	rootCmd.AddCommand(fillCmd)

	fillCmd.Flags().String("output-dir", "", "Directory for the PDF (default: OUTPUT_DIR)")
	fillCmd.Flags().Bool("sheet", false, "Also append the submission to SUBMISSIONS_SHEET_URL")
	fillCmd.Flags().Int("timeout", 60, "Processing timeout in seconds")
}

func runFill(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("fill")

	outputDir, _ := cmd.Flags().GetString("output-dir")
	logToSheet, _ := cmd.Flags().GetBool("sheet")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	if logToSheet && cfg.SubmissionsSheetURL == "" {
		return fmt.Errorf("--sheet requires SUBMISSIONS_SHEET_URL to be set")
	}

	raw, err := readInputFile(args[0], maxRequestSizeBytes, log)
	if err != nil {
		return err
	}

	var req models.FillRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("invalid fill request: %w", err)
	}

	path, err := render.WriteFile(outputDir, req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate PDF")
		return err
	}
	log.Info().Str("file", path).Int("answers", len(req.Answers)).Msg("Form generated")
	fmt.Fprintln(os.Stdout, path)

	if !logToSheet {
		return nil
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	svc, err := sheets.NewSheetsService(ctx, cfg.SubmissionsSheetURL, cfg.SubmissionsWorksheet)
	if err != nil {
		return fmt.Errorf("failed to create Sheets service: %w", err)
	}
	if err := svc.AppendSubmission(ctx, sheets.NewSubmission(req, time.Now())); err != nil {
		if ctx.Err() != nil {
			return handleRunError(ctx.Err(), log)
		}
		return fmt.Errorf("failed to log submission: %w", err)
	}
	log.Info().Str("worksheet", cfg.SubmissionsWorksheet).Msg("Submission logged")
	return nil
}
