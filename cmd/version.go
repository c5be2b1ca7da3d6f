package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/resume-ranker/internal/embedding"
)

// Actual version can be specified in build command.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the embedding dimension",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s (embedding dimension %d)\n", app, version, embedding.Dimension)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
