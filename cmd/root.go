package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"formassist/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "formassist",
	Short: "Form assistant - turn paper forms into guided questions",
	Long: `formassist reads scanned application forms and identity documents,
works out which questions the form asks, checks the answers and produces
a completed PDF.

Run "formassist serve" for the HTTP API used by the web front end, or use
the subcommands below to run each step from the command line.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("formassist executed")

		fmt.Println("Welcome to formassist!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
