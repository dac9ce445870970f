package scoring

import (
	"math"

	"github.com/spigell/cvmatch/internal/candidate"
)

const (
	skillPoints     = 6
	skillCap        = 60
	yearPoints      = 5
	yearCap         = 25
	educationPoints = 5
	educationCap    = 15
	qualityCap      = 100
)

// Assessment is the self-assessment view of a CV. It is never used for ranking.
type Assessment struct {
	Score        float64
	Strengths    []string
	Improvements []string
}

// CVQuality computes the composite 0-100 quality score of a candidate.
// Fractional years count, so the score is not always whole.
func CVQuality(c *candidate.Candidate) float64 {
	if c == nil {
		return 0
	}

	years := math.Max(c.ExpYears, 0)

	score := math.Min(float64(len(c.SkillsNorm)*skillPoints), skillCap) +
		math.Min(years*yearPoints, yearCap) +
		math.Min(float64(len(c.EducationEntries)*educationPoints), educationCap)

	return math.Min(score, qualityCap)
}

// Assess returns the quality score together with strengths and improvement hints.
func Assess(c *candidate.Candidate) Assessment {
	a := Assessment{
		Score:        CVQuality(c),
		Strengths:    []string{},
		Improvements: []string{},
	}
	if c == nil {
		return a
	}

	skills := len(c.SkillsNorm)
	education := len(c.EducationEntries)

	strengths := []struct {
		ok   bool
		text string
	}{
		{skills > 5, "Strong technical skill set"},
		{c.ExpYears > 3, "Solid work experience"},
		{education > 0, "Good education background"},
		{skills > 10, "Versatile skill profile"},
		{c.ExpYears > 7, "Senior-level experience"},
		{education > 2, "Diverse education history"},
	}
	for _, s := range strengths {
		if s.ok {
			a.Strengths = append(a.Strengths, s.text)
		}
	}

	improvements := []struct {
		ok   bool
		text string
	}{
		{skills < 5, "Add more relevant technical skills"},
		{c.ExpYears < 2, "Highlight internships or projects to show experience"},
		{education == 0, "Include your education details"},
	}
	for _, i := range improvements {
		if i.ok {
			a.Improvements = append(a.Improvements, i.text)
		}
	}

	return a
}
