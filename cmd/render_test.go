package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spigell/cvmatch/internal/jobs"
	"github.com/spigell/cvmatch/internal/scoring"
)

func TestJobLine(t *testing.T) {
	maximum := 20_000_000.0
	job := jobs.JobMatch{
		JobID:          3,
		Score:          0.834,
		Title:          "Go Developer",
		CompanyNorm:    "acme",
		LocationNorm:   "Ha Noi",
		SalaryMax:      &maximum,
		SalaryCurrency: "VND",
	}

	assert.Equal(t, "3 | Go Developer @ acme | 83% Excellent Match | Ha Noi | 20M VND", jobLine(job))
}

func TestPrintJobsEmpty(t *testing.T) {
	var buf bytes.Buffer
	printJobs(&buf, nil)

	assert.Equal(t, "No jobs match the current filters.\n", buf.String())
}

func TestPrintJobMissingFields(t *testing.T) {
	var buf bytes.Buffer
	printJob(&buf, jobs.JobMatch{SalaryCurrency: "VND"})

	out := buf.String()
	assert.Contains(t, out, "Salary:     Negotiable")
	assert.Contains(t, out, "Matching:   -")
	assert.NotContains(t, out, "Posted:")
}

func TestPrintAssessmentKeepsFraction(t *testing.T) {
	var buf bytes.Buffer
	printAssessment(&buf, scoring.Assessment{Score: 12.5})

	assert.Equal(t, "CV quality: 12.5/100\n", buf.String())
}
