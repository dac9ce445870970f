// Package scoring turns match scores into display tiers and rates CV quality.
package scoring

import "math"

// Tier is a qualitative bucket derived from a match score.
type Tier int

const (
	TierFair Tier = iota
	TierGood
	TierExcellent
)

const (
	excellentThreshold = 0.8
	goodThreshold      = 0.6
)

// Classify maps a score in [0,1] to its tier. Thresholds are inclusive.
func Classify(score float64) Tier {
	switch {
	case score >= excellentThreshold:
		return TierExcellent
	case score >= goodThreshold:
		return TierGood
	default:
		return TierFair
	}
}

func (t Tier) Label() string {
	switch t {
	case TierExcellent:
		return "Excellent Match"
	case TierGood:
		return "Good Match"
	default:
		return "Fair Match"
	}
}

// Color is the display color bucket of the tier.
func (t Tier) Color() string {
	switch t {
	case TierExcellent:
		return "green"
	case TierGood:
		return "yellow"
	default:
		return "red"
	}
}

func (t Tier) String() string { return t.Label() }

// Label is a shortcut for Classify(score).Label().
func Label(score float64) string { return Classify(score).Label() }

// Percent is the display percentage of a score.
func Percent(score float64) int {
	return int(math.Round(score * 100))
}
