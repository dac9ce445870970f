package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/asaskevich/EventBus"
	"github.com/manifoldco/promptui"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/ai"
	"github.com/spigell/cvmatch/internal/candidate"
	"github.com/spigell/cvmatch/internal/filtering"
	"github.com/spigell/cvmatch/internal/jobs"
	"github.com/spigell/cvmatch/internal/matching"
	"github.com/spigell/cvmatch/internal/scoring"
	"github.com/spigell/cvmatch/internal/upload"
)

const (
	PromptShowJobs    = "Show jobs"
	PromptSelectJob   = "Select a job"
	PromptSearchAgain = "Search again"
	PromptSort        = "Change sort"
	PromptLocation    = "Filter by location"
	PromptExperience  = "Filter by experience"
	PromptAnalysis    = "Show CV analysis"
	PromptPitch       = "Draft application message"
	PromptExit        = "Exit"
	PromptBack        = "back"
)

var errExit = errors.New("exit requested")

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Upload a CV and browse the matched jobs interactively",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("keyword", "k", "", "keyword for the first search")
}

// dashboard is the state of one interactive session.
type dashboard struct {
	logger    *zap.Logger
	session   *matching.Session
	candidate *candidate.Candidate
	pitcher   ai.Pitcher
	view      matching.ViewOptions
}

// run is the main command for the cli.
func run(cmd *cobra.Command, path string) {
	ctx := cmd.Context()

	config, logger := setup()

	logger.Info("starting the cvmatch", zap.String("version", version))

	client := newBackend(config, logger)
	registry := matching.NewRegistry(client, config.Search.TopK, config.Search.SessionTTL, logger)

	sortBy, err := matching.ParseSortKey(config.Search.SortBy)
	if err != nil {
		logger.Fatal("parsing sort key", zap.Error(err))
	}

	pitcher, err := newPitcher(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("skipping application message assistant", zap.Error(err))
	}

	// The session is opened by the upload event, the same way a search page
	// would pick up a freshly parsed candidate.
	sessions := make(chan *matching.Session, 1)
	bus := EventBus.New()
	err = bus.SubscribeOnce(upload.TopicCandidateUploaded, func(c *candidate.Candidate) {
		sessions <- registry.Open(c.ID)
	})
	if err != nil {
		logger.Fatal("subscribing to upload events", zap.Error(err))
	}

	orchestrator := newOrchestrator(config, client, logger, upload.WithEventBus(bus))
	defer orchestrator.Close()

	cand, err := uploadFile(ctx, orchestrator, path)
	if err != nil {
		logger.Fatal("uploading cv", zap.String("file", path), zap.Error(err))
	}

	session := <-sessions
	defer registry.Close(session.ID)

	printCandidate(os.Stdout, cand)

	d := &dashboard{
		logger:    logger,
		session:   session,
		candidate: cand,
		pitcher:   pitcher,
		view: matching.ViewOptions{
			Location:   filtering.All,
			Experience: filtering.All,
			SortBy:     sortBy,
		},
	}

	keyword, _ := cmd.Flags().GetString("keyword")
	if err := d.search(ctx, keyword); err != nil {
		logger.Fatal("searching jobs", zap.Error(err))
	}

	if d.nothingFound() {
		logger.Info("exiting", zap.String("reason", "no jobs found"))
		return
	}

	for {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Jobs (sort: %s, location: %s, experience: %s)", d.view.SortBy, d.view.Location, d.view.Experience),
			Items: d.actions(),
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := d.handleAction(ctx, action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// nothingFound reports a successful search without results. A failed search
// keeps the dashboard open so the user can search again.
func (d *dashboard) nothingFound() bool {
	return d.session.Err() == "" && len(d.session.Results()) == 0
}

func (d *dashboard) actions() []string {
	actions := []string{PromptShowJobs, PromptSelectJob, PromptSearchAgain, PromptSort, PromptLocation, PromptExperience, PromptAnalysis}
	if d.pitcher != nil {
		actions = append(actions, PromptPitch)
	}
	return append(actions, PromptExit)
}

func (d *dashboard) handleAction(ctx context.Context, action string) error {
	switch action {
	case PromptShowJobs:
		return d.showJobs(ctx)
	case PromptSelectJob:
		return d.selectJob(ctx)
	case PromptSearchAgain:
		keyword, err := (&promptui.Prompt{Label: "Keyword (empty for none)"}).Run()
		if err != nil {
			return err
		}
		return d.search(ctx, keyword)
	case PromptSort:
		return d.chooseSort()
	case PromptLocation:
		value, err := chooseValue("Location", lo.Map(d.session.Results(), func(j jobs.JobMatch, _ int) string { return j.LocationNorm }))
		if err != nil {
			return err
		}
		d.view.Location = value
		return d.showJobs(ctx)
	case PromptExperience:
		value, err := chooseValue("Experience level", lo.Map(d.session.Results(), func(j jobs.JobMatch, _ int) string { return j.ExperienceLevel }))
		if err != nil {
			return err
		}
		d.view.Experience = value
		return d.showJobs(ctx)
	case PromptAnalysis:
		printAssessment(os.Stdout, scoring.Assess(d.candidate))
		return nil
	case PromptPitch:
		return d.draftPitch(ctx)
	case PromptExit:
		d.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

// search keeps the previous list on failure, so the error is only reported.
func (d *dashboard) search(ctx context.Context, keyword string) error {
	err := d.session.Search(ctx, keyword)
	if err == nil {
		return d.showJobs(ctx)
	}

	if errors.Is(err, context.Canceled) {
		return err
	}

	d.logger.Warn("search failed", zap.String("message", d.session.Err()))
	fmt.Fprintf(os.Stdout, "Search failed: %s\n", d.session.Err())
	return nil
}

func (d *dashboard) showJobs(ctx context.Context) error {
	view, err := d.session.View(ctx, d.view)
	if err != nil {
		return err
	}

	printJobs(os.Stdout, view)
	return nil
}

func (d *dashboard) selectJob(ctx context.Context) error {
	view, err := d.session.View(ctx, d.view)
	if err != nil {
		return err
	}
	if len(view) == 0 {
		fmt.Fprintln(os.Stdout, "No jobs match the current filters.")
		return nil
	}

	items := append(lo.Map(view, func(j jobs.JobMatch, _ int) string { return jobLine(j) }), PromptBack)

	cursor := 0
	if selected, ok := d.session.Selected(); ok {
		cursor = max(slices.IndexFunc(view, func(j jobs.JobMatch) bool { return j.JobID == selected.JobID }), 0)
	}

	prompt := promptui.Select{
		Label:     "Select a job",
		Items:     items,
		Size:      10,
		CursorPos: cursor,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return err
	}
	if idx == len(view) {
		return nil
	}

	if err := d.session.Select(view[idx].JobID); err != nil {
		return err
	}

	selected, _ := d.session.Selected()
	printJob(os.Stdout, selected)
	return nil
}

func (d *dashboard) chooseSort() error {
	keys := []string{string(matching.SortByScore), string(matching.SortByDate), string(matching.SortBySalary)}

	_, choice, err := (&promptui.Select{Label: "Sort by", Items: keys}).Run()
	if err != nil {
		return err
	}

	key, err := matching.ParseSortKey(choice)
	if err != nil {
		return err
	}
	d.view.SortBy = key
	return nil
}

func (d *dashboard) draftPitch(ctx context.Context) error {
	job, ok := d.session.Selected()
	if !ok {
		fmt.Fprintln(os.Stdout, "Select a job first.")
		return nil
	}

	pitch, err := d.pitcher.Draft(ctx, d.candidate, job)
	if err != nil {
		d.logger.Warn("drafting application message", zap.Int("job_id", job.JobID), zap.Error(err))
		return nil
	}

	printPitch(os.Stdout, pitch)
	return nil
}

// chooseValue offers "all" plus the distinct non-empty values seen in the results.
func chooseValue(label string, values []string) (string, error) {
	values = lo.Uniq(lo.Compact(lo.Map(values, func(v string, _ int) string { return strings.TrimSpace(v) })))
	slices.Sort(values)

	prompt := promptui.Select{
		Label: label,
		Items: append([]string{filtering.All}, values...),
		Size:  10,
	}

	_, value, err := prompt.Run()
	return value, err
}
