// Package cli implements the StudyGram command-line interface using Cobra.
// Each subcommand maps to one daemon operation (init, status, quests, ...).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "studygram",
	Short: "StudyGram — gamified study companion",
	Long: `StudyGram is a local-first study companion.
Track streaks, daily quests, badges, and focus sessions on your machine,
with an optional AI tutor behind any OpenAI-compatible endpoint.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
