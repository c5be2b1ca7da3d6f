package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/candidates"
	"github.com/spigell/resume-ranker/internal/search"
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Find resume sentences answering a free-text query",
	Run: func(cmd *cobra.Command, _ []string) {
		ask(cmd)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringP("query", "q", "", "text to look for in resumes")
	askCmd.Flags().IntP("k", "k", search.DefaultK, "maximum number of results")
}

func ask(cmd *cobra.Command) {
	log, config := setup()

	query, _ := cmd.Flags().GetString("query")
	k, _ := cmd.Flags().GetInt("k")

	resumes, err := candidates.Load(config.Resumes)
	if err != nil {
		log.Fatal("loading resumes", zap.Error(err))
	}

	results, err := search.Ask(resumes, query, k)
	if err != nil {
		log.Fatal("searching resumes", zap.Error(err))
	}

	log.Info("search finished",
		zap.String("query", query),
		zap.Int("resumes", len(resumes)),
		zap.Int("results", len(results)),
	)

	if err := printJSON(cmd.OutOrStdout(), map[string]any{"results": results}); err != nil {
		log.Fatal("printing results", zap.Error(err))
	}
}
