package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/filtering"
	"github.com/spigell/cvmatch/internal/matching"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search jobs for a candidate and print the filtered, sorted list",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		search(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().String("cand-id", "", "candidate id returned by upload")
	searchCmd.Flags().StringP("keyword", "k", "", "optional keyword to refine the search")
	searchCmd.Flags().StringP("location", "l", filtering.All, "keep jobs whose location contains this value")
	searchCmd.Flags().StringP("experience", "e", filtering.All, "keep jobs with exactly this experience level")
	searchCmd.Flags().StringP("sort", "s", "", "sort by score, date or salary (default is search.sort-by)")
	searchCmd.Flags().Int("top-k", 0, "number of jobs to request (default is search.top-k)")

	searchCmd.MarkFlagRequired("cand-id")

	viper.BindPFlag("search.sort-by", searchCmd.Flags().Lookup("sort"))
	viper.BindPFlag("search.top-k", searchCmd.Flags().Lookup("top-k"))
}

func search(cmd *cobra.Command) {
	ctx := cmd.Context()

	config, logger := setup()
	client := newBackend(config, logger)

	sortBy, err := matching.ParseSortKey(config.Search.SortBy)
	if err != nil {
		logger.Fatal("parsing sort key", zap.Error(err))
	}

	candID, _ := cmd.Flags().GetString("cand-id")
	keyword, _ := cmd.Flags().GetString("keyword")
	location, _ := cmd.Flags().GetString("location")
	experience, _ := cmd.Flags().GetString("experience")

	registry := matching.NewRegistry(client, config.Search.TopK, config.Search.SessionTTL, logger)
	session := registry.Open(candID)
	defer registry.Close(session.ID)

	if err := session.Search(ctx, keyword); err != nil {
		logger.Fatal("searching jobs", zap.Error(err))
	}

	view, err := session.View(ctx, matching.ViewOptions{
		Location:   location,
		Experience: experience,
		SortBy:     sortBy,
	})
	if err != nil {
		logger.Fatal("building job list", zap.Error(err))
	}

	logger.Info("found jobs", zap.Int("total", len(session.Results())), zap.Int("shown", len(view)))

	printJobs(os.Stdout, view)
}
