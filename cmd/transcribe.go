package cmd

import (
	"github.com/spf13/cobra"

	"formassist/internal/logger"
	"formassist/internal/speech"
)

// maxAudioSizeBytes matches the upload limit of the transcription API.
const maxAudioSizeBytes = 25 * 1024 * 1024

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [audio-file]",
	Short: "Turn a spoken answer into text",
	Long: `Send a WAV recording to the OpenAI transcription API and print the text.
Failures are printed as guidance for the user instead of an error.

Required environment variables:
  OPENAI_API_KEY - OpenAI API key

Optional environment variables:
  OPENAI_TRANSCRIBE_MODEL - Transcription model (default: whisper-1)`,
	Example: `  formassist transcribe answer.wav`,
	Args:    cobra.ExactArgs(1),
	RunE:    runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)

	transcribeCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	transcribeCmd.Flags().Int("timeout", 60, "Processing timeout in seconds")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("transcribe")

	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	audio, err := readInputFile(args[0], maxAudioSizeBytes, log)
	if err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	text := speech.NewTranscriber(cfg.OpenAIAPIKey, cfg.OpenAITranscribeModel).Transcribe(ctx, audio)
	return writeOutput([]byte(text+"\n"), outputPath, log)
}
