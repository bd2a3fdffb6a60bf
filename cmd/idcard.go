package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"formassist/internal/identity"
	"formassist/internal/logger"
	"formassist/internal/ocr"
)

var idcardCmd = &cobra.Command{
	Use:   "idcard [image-file]",
	Short: "Read personal details from an identity document",
	Long: `Run OCR on a photo of an Aadhaar card, PAN card or similar document and
extract the holder's name, date of birth, gender, address, phone number,
e-mail and document number. Fields that cannot be found are null.`,
	Example: `  formassist idcard aadhaar.jpg
  formassist idcard pan.png -o identity.json`,
	Args: cobra.ExactArgs(1),
	RunE: runIDCard,
}

func init() {
	rootCmd.AddCommand(idcardCmd)

	idcardCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	idcardCmd.Flags().Int("timeout", 60, "Processing timeout in seconds")
}

func runIDCard(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("idcard")

	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	image, err := readInputFile(args[0], ocr.MaxImageSizeBytes, log)
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

	data, err := identity.NewExtractor(ocrService).ExtractFromImage(ctx, image)
	if err != nil {
		if ctx.Err() != nil {
			return handleRunError(ctx.Err(), log)
		}
		return fmt.Errorf("could not read identity document: %w", err)
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}
	return writeOutput(append(out, '\n'), outputPath, log)
}
