package matching

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	DefaultSessionTTL = 30 * time.Minute
	cleanupInterval   = 10 * time.Minute
)

// Registry keeps one Session per dashboard so dashboards never share results.
type Registry struct {
	sessions *gocache.Cache
	searcher Searcher
	topK     int
	logger   *zap.Logger
}

func NewRegistry(searcher Searcher, topK int, ttl time.Duration, logger *zap.Logger) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sessions := gocache.New(ttl, cleanupInterval)
	sessions.OnEvicted(func(id string, v interface{}) {
		if s, ok := v.(*Session); ok {
			s.Close()
		}
		logger.Debug("session closed", zap.String("session_id", id))
	})

	return &Registry{
		sessions: sessions,
		searcher: searcher,
		topK:     topK,
		logger:   logger,
	}
}

// Open starts a new session for candidateID.
func (r *Registry) Open(candidateID string) *Session {
	s := NewSession(uuid.NewString(), candidateID, r.searcher, r.logger)
	s.SetTopK(r.topK)

	r.sessions.Set(s.ID, s, gocache.DefaultExpiration)
	return s
}

// Get returns a live session and extends its lifetime.
func (r *Registry) Get(id string) (*Session, bool) {
	v, found := r.sessions.Get(id)
	if !found {
		return nil, false
	}

	s := v.(*Session)
	r.sessions.Set(id, s, gocache.DefaultExpiration)
	return s, true
}

func (r *Registry) Close(id string) {
	r.sessions.Delete(id)
}

func (r *Registry) Len() int {
	return r.sessions.ItemCount()
}
