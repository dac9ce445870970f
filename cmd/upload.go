package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/scoring"
)

var uploadCmd = &cobra.Command{
	Use:   "upload FILE",
	Short: "Upload a CV (pdf, docx or txt) and print the parsed candidate",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		uploadCV(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func uploadCV(cmd *cobra.Command, path string) {
	ctx := cmd.Context()

	config, logger := setup()
	client := newBackend(config, logger)

	orchestrator := newOrchestrator(config, client, logger)
	defer orchestrator.Close()

	cand, err := uploadFile(ctx, orchestrator, path)
	if err != nil {
		logger.Fatal("uploading cv", zap.String("file", path), zap.Error(err))
	}

	printCandidate(os.Stdout, cand)
	printAssessment(os.Stdout, scoring.Assess(cand))
}
