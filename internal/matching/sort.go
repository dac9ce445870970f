package matching

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spigell/cvmatch/internal/jobs"
)

type SortKey string

const (
	SortByScore  SortKey = "score"
	SortByDate   SortKey = "date"
	SortBySalary SortKey = "salary"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(s))); key {
	case SortByScore, SortByDate, SortBySalary:
		return key, nil
	case "":
		return SortByScore, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

// Sort returns a sorted copy of items, best first. Unknown keys keep the order.
func Sort(items []jobs.JobMatch, key SortKey) []jobs.JobMatch {
	sorted := slices.Clone(items)
	if sorted == nil {
		return []jobs.JobMatch{}
	}

	var cmp func(a, b jobs.JobMatch) int
	switch key {
	case SortByScore:
		cmp = func(a, b jobs.JobMatch) int { return compareDesc(a.Score, b.Score) }
	case SortByDate:
		cmp = func(a, b jobs.JobMatch) int { return postedAt(b).Compare(postedAt(a)) }
	case SortBySalary:
		cmp = func(a, b jobs.JobMatch) int { return compareDesc(upperSalary(a), upperSalary(b)) }
	default:
		return sorted
	}

	slices.SortStableFunc(sorted, cmp)
	return sorted
}

func compareDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

// postedAt parses the posting date. Missing or unparseable dates are the zero
// time, which sorts after every real date.
func postedAt(job jobs.JobMatch) time.Time {
	if job.DatePosted == nil {
		return time.Time{}
	}

	raw := strings.TrimSpace(*job.DatePosted)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func upperSalary(job jobs.JobMatch) float64 {
	if job.SalaryMax == nil {
		return 0
	}
	return *job.SalaryMax
}
