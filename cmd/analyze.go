package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/scoring"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze CAND_ID",
	Short: "Fetch a stored candidate and print the CV quality assessment",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func analyze(cmd *cobra.Command, id string) {
	config, logger := setup()
	client := newBackend(config, logger)

	cand, err := client.GetCandidate(cmd.Context(), id)
	if err != nil {
		logger.Fatal("getting candidate", zap.String("candidate_id", id), zap.Error(err))
	}

	printCandidate(os.Stdout, cand)
	printAssessment(os.Stdout, scoring.Assess(cand))
}
