// Package cli provides the ragqa command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// version is set at build time via SetVersion.
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ragqa",
	Short: "Ask questions about your documents",
	Long: `ragqa answers questions about PDF, Word and text documents.

Documents are split into overlapping chunks, embedded, and indexed. Each
question retrieves the most similar chunks and a language model answers
using them as context.

Configuration lives in ~/.ragqa/config.toml. API keys are read from the
environment or a .env file in the working directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if rt != nil {
			rt.Log.SetVerbose(verbose)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logging")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}
