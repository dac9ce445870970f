package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/spigell/cvmatch/internal/ai"
	"github.com/spigell/cvmatch/internal/candidate"
	"github.com/spigell/cvmatch/internal/jobs"
	"github.com/spigell/cvmatch/internal/scoring"
)

func printCandidate(w io.Writer, c *candidate.Candidate) {
	fmt.Fprintf(w, "Candidate %s\n", c.ID)
	fmt.Fprintf(w, "  Name:       %s\n", orDash(c.Name))
	fmt.Fprintf(w, "  Emails:     %s\n", joinOrDash(c.Emails))
	fmt.Fprintf(w, "  Phones:     %s\n", joinOrDash(c.Phones))
	fmt.Fprintf(w, "  Locations:  %s\n", joinOrDash(c.Locations))
	fmt.Fprintf(w, "  Experience: %.1f years\n", c.ExpYears)
	fmt.Fprintf(w, "  Skills:     %s\n", joinOrDash(c.SkillsNorm))
}

func printAssessment(w io.Writer, a scoring.Assessment) {
	fmt.Fprintf(w, "CV quality: %s/100\n", strconv.FormatFloat(a.Score, 'f', -1, 64))
	for _, s := range a.Strengths {
		fmt.Fprintf(w, "  + %s\n", s)
	}
	for _, i := range a.Improvements {
		fmt.Fprintf(w, "  - %s\n", i)
	}
}

// jobLine is the one-line summary used in lists and menus.
func jobLine(job jobs.JobMatch) string {
	tier := scoring.Classify(job.Score)
	return fmt.Sprintf("%d | %s @ %s | %d%% %s | %s | %s",
		job.JobID,
		orDash(job.Title),
		orDash(job.CompanyNorm),
		scoring.Percent(job.Score),
		tier.Label(),
		orDash(job.LocationNorm),
		job.Salary(),
	)
}

func printJobs(w io.Writer, list []jobs.JobMatch) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No jobs match the current filters.")
		return
	}
	for _, job := range list {
		fmt.Fprintln(w, jobLine(job))
	}
}

func printJob(w io.Writer, job jobs.JobMatch) {
	tier := scoring.Classify(job.Score)

	fmt.Fprintf(w, "%s (%s)\n", orDash(job.Title), orDash(job.CompanyNorm))
	fmt.Fprintf(w, "  Match:      %d%% %s [%s]\n", scoring.Percent(job.Score), tier.Label(), tier.Color())
	fmt.Fprintf(w, "  Location:   %s\n", orDash(job.LocationNorm))
	fmt.Fprintf(w, "  Level:      %s\n", orDash(job.ExperienceLevel))
	fmt.Fprintf(w, "  Type:       %s\n", orDash(job.JobType))
	fmt.Fprintf(w, "  Industry:   %s\n", orDash(job.Industry))
	fmt.Fprintf(w, "  Salary:     %s\n", job.Salary())
	if job.DatePosted != nil {
		fmt.Fprintf(w, "  Posted:     %s\n", *job.DatePosted)
	}
	if job.ExternalLink != nil {
		fmt.Fprintf(w, "  Link:       %s\n", *job.ExternalLink)
	}
	fmt.Fprintf(w, "  Matching:   %s\n", joinOrDash(job.Reasons.OverlapSkills))
	fmt.Fprintf(w, "  Missing:    %s\n", joinOrDash(job.Reasons.MissingSkills))
	if desc := strings.TrimSpace(job.Description); desc != "" {
		fmt.Fprintf(w, "\n%s\n", desc)
	}
}

func printPitch(w io.Writer, p *ai.Pitch) {
	if p.Subject != "" {
		fmt.Fprintf(w, "Subject: %s\n\n", p.Subject)
	}
	fmt.Fprintln(w, p.Message)
	if len(p.Highlight) > 0 {
		fmt.Fprintf(w, "\nHighlights: %s\n", strings.Join(p.Highlight, ", "))
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func joinOrDash(values []string) string {
	values = lo.Compact(values)
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
