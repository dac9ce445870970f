package matching

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/backend"
)

type stubSearcher struct {
	mu       sync.Mutex
	ready    bool
	calls    []backend.SearchRequest
	respond  func(ctx context.Context, call int) ([]any, error)
	response []any
	err      error
}

func (s *stubSearcher) Ready() bool { return s.ready }

func (s *stubSearcher) SearchJobs(ctx context.Context, search backend.SearchRequest) ([]any, error) {
	s.mu.Lock()
	s.calls = append(s.calls, search)
	call := len(s.calls)
	respond, response, err := s.respond, s.response, s.err
	s.mu.Unlock()

	if respond != nil {
		return respond(ctx, call)
	}
	return response, err
}

func (s *stubSearcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func rawJob(id int, score float64, location, level string) map[string]any {
	return map[string]any{
		"job_id":           float64(id),
		"score":            score,
		"title":            "Engineer",
		"location_norm":    location,
		"experience_level": level,
	}
}

func TestSearchSkipsWhenNotReady(t *testing.T) {
	searcher := &stubSearcher{ready: false}
	s := NewSession("s1", "c1", searcher, zap.NewNop())

	require.NoError(t, s.Search(context.Background(), "go"))

	assert.Zero(t, searcher.callCount())
	assert.Empty(t, s.Results())
	assert.False(t, s.Loading())
}

func TestSearchSendsRequest(t *testing.T) {
	searcher := &stubSearcher{ready: true, response: []any{}}
	s := NewSession("s1", "c1", searcher, zap.NewNop())

	require.NoError(t, s.Search(context.Background(), "golang"))
	require.NoError(t, s.Search(context.Background(), "  "))

	require.Len(t, searcher.calls, 2)
	assert.Equal(t, "c1", *searcher.calls[0].CandID)
	assert.Equal(t, "golang", *searcher.calls[0].Keyword)
	assert.Equal(t, backend.DefaultTopK, searcher.calls[0].TopK)
	assert.Nil(t, searcher.calls[1].Keyword)
}

func TestSearchNormalizesAndSelectsFirst(t *testing.T) {
	searcher := &stubSearcher{ready: true, response: []any{
		rawJob(7, 0.9, "Ha Noi", "Senior"),
		rawJob(8, 0.4, "Da Nang", "Junior"),
		"garbage",
	}}
	s := NewSession("s1", "c1", searcher, zap.NewNop())

	require.NoError(t, s.Search(context.Background(), ""))

	results := s.Results()
	require.Len(t, results, 3)
	assert.Equal(t, "Ha Noi", results[0].Reasons.LocJob)
	assert.Equal(t, "VND", results[2].SalaryCurrency)
	assert.NotNil(t, results[2].SkillsNorm)

	selected, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, 7, selected.JobID)
	assert.Empty(t, s.Err())
}

func TestSearchKeepsSelectionAcrossRefresh(t *testing.T) {
	searcher := &stubSearcher{ready: true, response: []any{
		rawJob(1, 0.9, "", ""),
		rawJob(2, 0.8, "", ""),
	}}
	s := NewSession("s1", "c1", searcher, zap.NewNop())

	require.NoError(t, s.Search(context.Background(), ""))
	require.NoError(t, s.Select(2))

	searcher.response = []any{rawJob(3, 0.95, "", "")}
	require.NoError(t, s.Search(context.Background(), ""))

	selected, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, 2, selected.JobID)
	assert.Equal(t, []int{3}, jobIDs(s.Results()))
}

func TestSearchFailureKeepsPreviousResults(t *testing.T) {
	searcher := &stubSearcher{ready: true, response: []any{rawJob(1, 0.9, "", "")}}
	s := NewSession("s1", "c1", searcher, zap.NewNop())
	require.NoError(t, s.Search(context.Background(), ""))

	searcher.response = nil
	searcher.err = &backend.ApplicationError{StatusCode: 404, Message: "Candidate not found"}

	err := s.Search(context.Background(), "")

	var appErr *backend.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Candidate not found", s.Err())
	assert.Equal(t, []int{1}, jobIDs(s.Results()))
	assert.False(t, s.Loading())

	searcher.err = nil
	searcher.response = []any{}
	require.NoError(t, s.Search(context.Background(), ""))
	assert.Empty(t, s.Err())
}

func TestSupersededSearchNeverOverwrites(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	searcher := &stubSearcher{ready: true}
	searcher.respond = func(ctx context.Context, call int) ([]any, error) {
		if call == 1 {
			close(firstStarted)
			<-releaseFirst
			return []any{rawJob(1, 0.5, "", "")}, nil
		}
		return []any{rawJob(2, 0.9, "", "")}, nil
	}
	s := NewSession("s1", "c1", searcher, zap.NewNop())

	firstErr := make(chan error, 1)
	go func() { firstErr <- s.Search(context.Background(), "old") }()

	<-firstStarted
	require.NoError(t, s.Search(context.Background(), "new"))
	close(releaseFirst)

	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(time.Second):
		t.Fatal("first search did not return")
	}

	assert.Equal(t, []int{2}, jobIDs(s.Results()))
	assert.False(t, s.Loading())
}

func TestNewSearchCancelsInFlight(t *testing.T) {
	started := make(chan struct{})
	searcher := &stubSearcher{ready: true}
	searcher.respond = func(ctx context.Context, call int) ([]any, error) {
		if call == 1 {
			close(started)
			<-ctx.Done()
			return nil, &backend.TransportError{Err: ctx.Err()}
		}
		return []any{}, nil
	}
	s := NewSession("s1", "c1", searcher, zap.NewNop())

	firstErr := make(chan error, 1)
	go func() { firstErr <- s.Search(context.Background(), "") }()
	<-started

	require.NoError(t, s.Search(context.Background(), ""))

	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(time.Second):
		t.Fatal("in-flight search was not cancelled")
	}
	assert.Empty(t, s.Err())
}

func TestViewFiltersAndSortsCopy(t *testing.T) {
	searcher := &stubSearcher{ready: true, response: []any{
		rawJob(1, 0.5, "Ho Chi Minh City", "Senior"),
		rawJob(2, 0.9, "Ha Noi", "Senior"),
		rawJob(3, 0.8, "ho chi minh", "senior"),
		rawJob(4, 0.7, "Ho Chi Minh City", "Junior"),
	}}
	s := NewSession("s1", "c1", searcher, zap.NewNop())
	require.NoError(t, s.Search(context.Background(), ""))

	view, err := s.View(context.Background(), ViewOptions{Location: "chi minh", Experience: "SENIOR", SortBy: SortByScore})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, jobIDs(view))

	all, err := s.View(context.Background(), ViewOptions{Location: "all", Experience: "All"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, jobIDs(all))

	assert.Equal(t, []int{1, 2, 3, 4}, jobIDs(s.Results()), "stored results stay unsorted")
}

func TestSelectUnknownJob(t *testing.T) {
	s := NewSession("s1", "c1", &stubSearcher{}, zap.NewNop())

	assert.ErrorIs(t, s.Select(42), ErrUnknownJob)

	_, ok := s.Selected()
	assert.False(t, ok)
}

func TestCloseCancelsInFlight(t *testing.T) {
	started := make(chan struct{})
	searcher := &stubSearcher{ready: true}
	searcher.respond = func(ctx context.Context, _ int) ([]any, error) {
		close(started)
		<-ctx.Done()
		return nil, &backend.TransportError{Err: ctx.Err()}
	}
	s := NewSession("s1", "c1", searcher, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- s.Search(context.Background(), "") }()
	<-started

	s.Close()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("search was not cancelled by Close")
	}
}
