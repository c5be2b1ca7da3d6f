package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/requirements"
)

var requirementsCmd = &cobra.Command{
	Use:   "requirements [text...]",
	Short: "Print the requirements found in a job description",
	Run: func(cmd *cobra.Command, args []string) {
		extractRequirements(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(requirementsCmd)

	requirementsCmd.Flags().StringP("file", "f", "", "read the description from a file, - for stdin")
}

func extractRequirements(cmd *cobra.Command, args []string) {
	log, _ := setup()

	file, _ := cmd.Flags().GetString("file")
	text, err := inputText(args, file)
	if err != nil {
		log.Fatal("reading input", zap.Error(err))
	}

	found := requirements.Extract(text)
	log.Debug("requirements extracted", zap.Int("count", len(found)))

	if err := printJSON(cmd.OutOrStdout(), found); err != nil {
		log.Fatal("printing requirements", zap.Error(err))
	}
}
