package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"formassist/internal/batch"
	"formassist/internal/logger"
	"formassist/internal/ocr"
	"formassist/internal/questions"
	"formassist/pkg/models"
)

var scanBatchCmd = &cobra.Command{
	Use:   "scan-batch [folder-path]",
	Short: "Detect questions for every form image in a folder",
	Long: `Scan all images (png, jpg, gif, bmp, webp, tiff) below a folder in parallel
and write one JSON document listing the questions found for each form.

Optional environment variables:
  BATCH_WORKERS - Number of parallel workers (default: 4)`,
	Example: `  # Scan a folder and print a summary
  formassist scan-batch ./forms -o forms.json

  # Use more workers
  formassist scan-batch ./forms --workers 8 -o forms.json`,
	Args: cobra.ExactArgs(1),
	RunE: runScanBatch,
}

// BatchScanResult is one entry of the scan-batch output
type BatchScanResult struct {
	File      string            `json:"file"`
	Status    string            `json:"status"` // "success", "fallback", "error"
	Error     string            `json:"error,omitempty"`
	Questions []models.Question `json:"questions,omitempty"`
}

type scanOutcome struct {
	questions []models.Question
	ocrFailed bool
}

func init() {
	rootCmd.AddCommand(scanBatchCmd)

	scanBatchCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	scanBatchCmd.Flags().Int("workers", 0, "Number of parallel workers (default: BATCH_WORKERS)")
	scanBatchCmd.Flags().Int("timeout", 1800, "Overall timeout in seconds")
}

func runScanBatch(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("scan-batch")

	folderPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	workers, _ := cmd.Flags().GetInt("workers")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if workers <= 0 {
		workers = cfg.BatchWorkers
	}

	folderInfo, err := os.Stat(folderPath)
	if err != nil {
		return fmt.Errorf("folder not found: %s", folderPath)
	}
	if !folderInfo.IsDir() {
		return fmt.Errorf("path is not a directory: %s", folderPath)
	}

	images, err := batch.FindImages(folderPath)
	if err != nil {
		return fmt.Errorf("failed to find images: %w", err)
	}
	if len(images) == 0 {
		fmt.Fprintln(os.Stderr, "No images found in folder.")
		return nil
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

	detector := questions.NewDetector(gen)

	log.Info().
		Str("folder", folderPath).
		Int("images", len(images)).
		Int("workers", workers).
		Msg("Starting batch scan")

	scanOne := func(ctx context.Context, path string) (scanOutcome, error) {
		image, err := readInputFile(path, ocr.MaxImageSizeBytes, log)
		if err != nil {
			return scanOutcome{}, err
		}
		text := ocr.TextOrMarker(ctx, ocrService, image)
		return scanOutcome{
			questions: detector.Detect(ctx, text),
			ocrFailed: ocr.IsErrorText(text),
		}, nil
	}

	progress := func(done, total int, r batch.Result[scanOutcome]) {
		status := batchStatus(r)
		fmt.Fprintf(os.Stderr, "[%d/%d] %s - %s", done, total, filepath.Base(r.Path), status)
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, " (%s)", r.Err.Error())
		} else {
			fmt.Fprintf(os.Stderr, " (%d questions)", len(r.Value.questions))
		}
		fmt.Fprintln(os.Stderr)
	}

	results := batch.Run(ctx, images, workers, scanOne, progress)

	out := make([]BatchScanResult, len(results))
	counts := map[string]int{}
	for i, r := range results {
		entry := BatchScanResult{File: r.Path, Status: batchStatus(r)}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		} else {
			entry.Questions = r.Value.questions
		}
		counts[entry.Status]++
		out[i] = entry
	}

	log.Info().
		Int("total", len(results)).
		Int("success", counts["success"]).
		Int("fallback", counts["fallback"]).
		Int("errors", counts["error"]).
		Msg("Batch scan completed")

	if err := ctx.Err(); err != nil {
		return handleRunError(err, log)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}
	if err := writeOutput(append(data, '\n'), outputPath, log); err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, strings.Repeat("=", 50))
	fmt.Fprintf(os.Stderr, "Scanned: %d  Fallback: %d  Errors: %d\n", counts["success"], counts["fallback"], counts["error"])
	return nil
}

func batchStatus(r batch.Result[scanOutcome]) string {
	switch {
	case r.Err != nil:
		return "error"
	case r.Value.ocrFailed:
		return "fallback"
	default:
		return "success"
	}
}
