package matching

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/backend"
	"github.com/spigell/cvmatch/internal/filtering"
	"github.com/spigell/cvmatch/internal/jobs"
	"github.com/spigell/cvmatch/internal/logger"
	"github.com/spigell/cvmatch/internal/metrics"
)

var (
	// ErrSuperseded is returned by a search whose result lost to a newer search.
	ErrSuperseded = errors.New("search superseded by a newer one")
	ErrUnknownJob = errors.New("job is not in the current results")
)

// Searcher issues job searches against the ranking service.
type Searcher interface {
	Ready() bool
	SearchJobs(ctx context.Context, search backend.SearchRequest) ([]any, error)
}

// ViewOptions are the dashboard controls applied to the stored results.
type ViewOptions struct {
	Location   string
	Experience string
	SortBy     SortKey
}

// Session owns the results and the selection of one dashboard.
type Session struct {
	ID          string
	candidateID string
	topK        int
	searcher    Searcher
	logger      *zap.Logger

	mu         sync.Mutex
	results    []jobs.JobMatch
	selected   *jobs.JobMatch
	errMessage string
	loading    bool
	seq        uint64
	cancel     context.CancelFunc
}

func NewSession(id, candidateID string, searcher Searcher, log *zap.Logger) *Session {
	return &Session{
		ID:          id,
		candidateID: strings.TrimSpace(candidateID),
		topK:        backend.DefaultTopK,
		searcher:    searcher,
		logger:      logger.WithSession(log, id, candidateID),
		results:     []jobs.JobMatch{},
	}
}

func (s *Session) SetTopK(k int) {
	if k > 0 {
		s.topK = k
	}
}

func (s *Session) CandidateID() string { return s.candidateID }

// Search replaces the results with a fresh ranking for keyword. A failed
// search keeps the previous results. Starting a search cancels the one in
// flight, and an older response never overwrites a newer one.
func (s *Session) Search(ctx context.Context, keyword string) error {
	if s.searcher == nil || !s.searcher.Ready() {
		s.logger.Debug("skipping search", zap.String("reason", "backend is not ready"))
		return nil
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.loading = true
	s.errMessage = ""
	s.mu.Unlock()

	defer cancel()

	request := backend.SearchRequest{
		CandID:  optional(s.candidateID),
		Keyword: optional(keyword),
		TopK:    s.topK,
	}

	s.logger.Info("searching jobs", zap.String("keyword", keyword), zap.Int("top_k", request.TopK))

	raw, err := s.searcher.SearchJobs(ctx, request)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		metrics.SearchesCounter.WithLabelValues("superseded").Inc()
		s.logger.Debug("dropping superseded search result", zap.Uint64("seq", seq), zap.Uint64("latest", s.seq))
		return ErrSuperseded
	}

	s.loading = false
	s.cancel = nil

	if err != nil {
		metrics.SearchesCounter.WithLabelValues("failed").Inc()
		s.errMessage = err.Error()
		s.logger.Warn("search failed, keeping previous results",
			zap.Error(err),
			zap.Int("kept_results", len(s.results)),
		)
		return err
	}

	s.results = s.normalize(raw)
	metrics.SearchesCounter.WithLabelValues("succeeded").Inc()

	if s.selected == nil && len(s.results) > 0 {
		first := s.results[0]
		s.selected = &first
	}

	s.logger.Info("search completed", zap.Int("results", len(s.results)))

	return nil
}

func (s *Session) normalize(raw []any) []jobs.JobMatch {
	decoded := jobs.DecodeAll(raw)
	results := make([]jobs.JobMatch, 0, len(decoded))

	for _, res := range decoded {
		for _, d := range res.Diagnostics {
			metrics.NormalizationDiagnostics.WithLabelValues(d.Field).Inc()
			s.logger.Debug("job field defaulted",
				zap.Int("job_id", res.Job.JobID),
				zap.String("field", d.Field),
				zap.String("reason", d.Reason),
			)
		}
		results = append(results, res.Job)
	}

	return results
}

// View filters and sorts a copy of the stored results.
func (s *Session) View(ctx context.Context, opts ViewOptions) ([]jobs.JobMatch, error) {
	items := s.Results()

	f := filtering.New([]filtering.Filter{
		filtering.NewLocation(opts.Location),
		filtering.NewExperience(opts.Experience),
	}, s.logger)

	filtered, err := f.RunFilters(ctx, items)
	if err != nil {
		return nil, err
	}

	return Sort(filtered, opts.SortBy), nil
}

// Results returns a copy of the unsorted results of the last successful search.
func (s *Session) Results() []jobs.JobMatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.results)
}

// Select makes the job with jobID the selected one.
func (s *Session) Select(jobID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.results, func(job jobs.JobMatch) bool { return job.JobID == jobID })
	if idx < 0 {
		return ErrUnknownJob
	}

	selected := s.results[idx]
	s.selected = &selected
	return nil
}

func (s *Session) Selected() (jobs.JobMatch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil {
		return jobs.JobMatch{}, false
	}
	return *s.selected, true
}

// Err is the message of the last failed search, empty after a success.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMessage
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Close cancels the search in flight, if any.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func optional(v string) *string {
	if v = strings.TrimSpace(v); v == "" {
		return nil
	}
	return &v
}
