package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"formassist/internal/answers"
	"formassist/internal/logger"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check whether an answer fits its question",
	Long: `Ask the configured AI provider whether an answer is appropriate for a form
question. Without an API key, or when the provider fails, every answer is
reported as valid.`,
	Example: `  formassist validate --question "What is your email address?" --answer "not an email"`,
	Args:    cobra.NoArgs,
	RunE:    runValidate,
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Suggest the follow-up question for a form field",
	Example: `  formassist next --field dateOfBirth
  formassist next --field address --response "I live in Pune"`,
	Args: cobra.NoArgs,
	RunE: runNext,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(nextCmd)

	validateCmd.Flags().String("question", "", "Question text (required)")
	validateCmd.Flags().String("answer", "", "Answer to check")
	validateCmd.Flags().Int("timeout", 60, "Processing timeout in seconds")
	_ = validateCmd.MarkFlagRequired("question")

	nextCmd.Flags().String("field", "", "Field name, e.g. dateOfBirth (required)")
	nextCmd.Flags().String("response", "", "What the user said so far")
	nextCmd.Flags().Int("timeout", 60, "Processing timeout in seconds")
	_ = nextCmd.MarkFlagRequired("field")
}

func runValidate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("validate")

	question, _ := cmd.Flags().GetString("question")
	answer, _ := cmd.Flags().GetString("answer")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	gen, closeGen, err := createGenerator(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeGen()

	result := answers.NewValidator(gen).Validate(ctx, question, answer)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}
	return writeOutput(append(data, '\n'), "", log)
}

func runNext(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("next")

	field, _ := cmd.Flags().GetString("field")
	response, _ := cmd.Flags().GetString("response")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	gen, closeGen, err := createGenerator(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeGen()

	question := answers.NewAssistant(gen).NextQuestion(ctx, field, response)
	return writeOutput([]byte(question+"\n"), "", log)
}
