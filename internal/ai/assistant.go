// Package ai drafts application messages for matched jobs. It never takes
// part in ranking.
package ai

import (
	"context"

	"github.com/spigell/cvmatch/internal/candidate"
	"github.com/spigell/cvmatch/internal/jobs"
)

// Pitch is a drafted application message.
type Pitch struct {
	Subject   string
	Message   string
	Highlight []string
	Raw       string
}

type Pitcher interface {
	Draft(ctx context.Context, cand *candidate.Candidate, job jobs.JobMatch) (*Pitch, error)
}
