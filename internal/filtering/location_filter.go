package filtering

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/spigell/cvmatch/internal/jobs"
)

type locationFilter struct {
	enabled bool
	reason  string
	value   string
}

// NewLocation keeps matches whose location contains value, ignoring case.
func NewLocation(value string) Filter {
	f := &locationFilter{
		enabled: true,
		value:   strings.TrimSpace(value),
	}
	if isSentinel(value) {
		f.Disable("location is not selected")
	}
	return f
}

func (f *locationFilter) Name() string { return "location" }

func (f *locationFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *locationFilter) IsEnabled() bool { return f.enabled }

func (f *locationFilter) Validate() error { return nil }

func (f *locationFilter) Apply(_ context.Context, items []jobs.JobMatch) ([]jobs.JobMatch, Step, error) {
	needle := strings.ToLower(f.value)

	kept := lo.Filter(items, func(job jobs.JobMatch, _ int) bool {
		return strings.Contains(strings.ToLower(job.LocationNorm), needle)
	})

	return kept, Step{Initial: len(items), Dropped: len(items) - len(kept), Left: len(kept)}, nil
}

func (f *locationFilter) Status() Status {
	details := map[string]string{}
	if f.value != "" {
		details["location"] = f.value
	}
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: details}
}
