package filtering

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/spigell/cvmatch/internal/jobs"
)

type experienceFilter struct {
	enabled bool
	reason  string
	level   string
}

// NewExperience keeps matches whose experience level equals level, ignoring case.
func NewExperience(level string) Filter {
	f := &experienceFilter{
		enabled: true,
		level:   strings.TrimSpace(level),
	}
	if isSentinel(level) {
		f.Disable("experience level is not selected")
	}
	return f
}

func (f *experienceFilter) Name() string { return "experience" }

func (f *experienceFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *experienceFilter) IsEnabled() bool { return f.enabled }

func (f *experienceFilter) Validate() error { return nil }

func (f *experienceFilter) Apply(_ context.Context, items []jobs.JobMatch) ([]jobs.JobMatch, Step, error) {
	kept := lo.Filter(items, func(job jobs.JobMatch, _ int) bool {
		return strings.EqualFold(job.ExperienceLevel, f.level)
	})

	return kept, Step{Initial: len(items), Dropped: len(items) - len(kept), Left: len(kept)}, nil
}

func (f *experienceFilter) Status() Status {
	details := map[string]string{}
	if f.level != "" {
		details["level"] = f.level
	}
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: details}
}
