package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/logger"
)

var embedCmd = &cobra.Command{
	Use:   "embed [text...]",
	Short: "Print the embedding of a text as a JSON array",
	Run: func(cmd *cobra.Command, args []string) {
		embed(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(embedCmd)

	embedCmd.Flags().StringP("file", "f", "", "read the text from a file, - for stdin")
}

func embed(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	log, config := setup()

	file, _ := cmd.Flags().GetString("file")
	text, err := inputText(args, file)
	if err != nil {
		log.Fatal("reading input", zap.Error(err))
	}

	embedder, err := newEmbedder(ctx, config.Embedder, log)
	if err != nil {
		log.Fatal("creating an embedder", zap.Error(err))
	}
	log = logger.WithFields(log, zap.String(logger.FieldEmbedder, embedder.Name()))

	v, err := embedder.Embed(ctx, text)
	if err != nil {
		log.Fatal("embedding text", zap.Error(err))
	}

	log.Debug("text embedded", zap.Int("dimension", len(v)), zap.Float64("norm", v.Norm()))

	if err := printJSON(cmd.OutOrStdout(), v); err != nil {
		log.Fatal("printing embedding", zap.Error(err))
	}
}
