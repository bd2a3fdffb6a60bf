package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"formassist/internal/logger"
	"formassist/internal/ocr"
	"formassist/internal/questions"
	"formassist/pkg/models"
)

var scanCmd = &cobra.Command{
	Use:   "scan [image-file]",
	Short: "Detect the questions asked by a scanned form",
	Long: `Run OCR on a photo or scan of a paper form and turn its field labels into
questions.

Well-known labels (Name, Mobile, Gender, Address, ...) are matched directly,
tolerating common OCR misreadings. When fewer than six are found the
configured AI provider is asked to read the form. If neither works a short
standard list of questions is printed, so the command always produces output.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string

Optional environment variables:
  AI_PROVIDER - gemini (default) or openai
  GEMINI_API_KEY / OPENAI_API_KEY - Key for the selected provider
  OCR_PROVIDER - vision (default) or documentai`,
	Example: `  # Print the detected questions as JSON
  formassist scan application.jpg

  # Include the OCR text and save to a file
  formassist scan application.jpg --text -o questions.json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

// ScanOutput is the JSON written by the scan command
type ScanOutput struct {
	File           string            `json:"file"`
	ExtractedText  string            `json:"extracted_text,omitempty"`
	Questions      []models.Question `json:"questions"`
	TotalQuestions int               `json:"total_questions"`
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	scanCmd.Flags().Bool("text", false, "Include the extracted OCR text")
	scanCmd.Flags().Int("timeout", 120, "Processing timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("scan")

	outputPath, _ := cmd.Flags().GetString("output")
	includeText, _ := cmd.Flags().GetBool("text")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	imagePath := args[0]

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	image, err := readInputFile(imagePath, ocr.MaxImageSizeBytes, log)
	if err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	ocrService, closeOCR, err := createOCRService(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeOCR()

	gen, closeGen, err := createGenerator(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeGen()

	text := ocr.TextOrMarker(ctx, ocrService, image)
	if ocr.IsErrorText(text) {
		log.Warn().Str("reason", text).Msg("OCR failed, standard questions will be used")
	}
	if err := ctx.Err(); err != nil {
		return handleRunError(err, log)
	}

	qs := questions.NewDetector(gen).Detect(ctx, text)
	log.Info().Int("questions", len(qs)).Msg("Form scanned")

	out := ScanOutput{File: imagePath, Questions: qs, TotalQuestions: len(qs)}
	if includeText {
		out.ExtractedText = text
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}
	return writeOutput(append(data, '\n'), outputPath, log)
}
