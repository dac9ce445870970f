package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/candidate"
	"github.com/spigell/cvmatch/internal/logger"
	"github.com/spigell/cvmatch/internal/metrics"
)

// TopicCandidateUploaded is published with the *candidate.Candidate after a
// successful upload.
const TopicCandidateUploaded = "candidate:uploaded"

var ErrClosed = errors.New("upload orchestrator is closed")

// Uploader sends a CV to the parsing service.
type Uploader interface {
	UploadCV(ctx context.Context, filename, contentType string, file io.Reader) (*candidate.Candidate, error)
}

// File is a CV picked by the user. ContentType is the declared type.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Snapshot is the observable state of an Orchestrator.
type Snapshot struct {
	Status    Status
	Progress  int
	Message   string
	Candidate *candidate.Candidate
}

type Option func(*Orchestrator)

func WithEventBus(bus EventBus.Bus) Option {
	return func(o *Orchestrator) { o.bus = bus }
}

func WithProgressInterval(d time.Duration) Option {
	return func(o *Orchestrator) { o.interval = d }
}

// WithProgressObserver registers fn to receive every progress change.
// fn must not call back into the Orchestrator.
func WithProgressObserver(fn func(progress int)) Option {
	return func(o *Orchestrator) { o.onProgress = fn }
}

// Orchestrator drives one CV upload at a time through its lifecycle.
type Orchestrator struct {
	uploader   Uploader
	logger     *zap.Logger
	bus        EventBus.Bus
	interval   time.Duration
	onProgress func(int)

	mu        sync.Mutex
	status    Status
	progress  int
	message   string
	candidate *candidate.Candidate
	task      *progressTask
	closed    bool
}

func New(uploader Uploader, log *zap.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		uploader: uploader,
		logger:   logger.WithFields(log, zap.String("component", "upload")),
		interval: DefaultProgressInterval,
		status:   StatusIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit validates file and uploads it. Invalid files fail without any
// request. Submit is only allowed from idle; call Reset after a result.
func (o *Orchestrator) Submit(ctx context.Context, file File) (*candidate.Candidate, error) {
	o.mu.Lock()

	if o.closed {
		o.mu.Unlock()
		return nil, ErrClosed
	}

	// Pre-flight checks only run from idle. A busy or finished orchestrator
	// keeps its state untouched.
	if o.status != StatusIdle {
		status := o.status
		o.mu.Unlock()
		return nil, fmt.Errorf("%w: submit while %s", ErrInvalidTransition, status)
	}

	if err := Validate(file.ContentType, file.Size); err != nil {
		o.status = StatusError
		o.message = err.Error()
		o.mu.Unlock()

		metrics.UploadsCounter.WithLabelValues("invalid").Inc()
		o.logger.Warn("rejected file",
			zap.String("file", file.Name),
			zap.String("content_type", file.ContentType),
			zap.Int64("size", file.Size),
			zap.String("reason", err.Error()),
		)
		return nil, err
	}

	o.status = StatusUploading
	o.progress = 0
	o.message = ""
	o.candidate = nil

	task := startProgress(o.interval, o.tick)
	o.task = task
	o.mu.Unlock()

	defer task.Stop()

	o.notify(0)
	o.logger.Info("uploading cv", zap.String("file", file.Name), zap.Int64("size", file.Size))

	cand, err := o.uploader.UploadCV(ctx, file.Name, file.ContentType, file.Reader)

	task.Stop()

	if err != nil {
		if ferr := o.finish(StatusError, err.Error(), nil); ferr != nil {
			return nil, ferr
		}
		metrics.UploadsCounter.WithLabelValues("error").Inc()
		o.logger.Error("upload failed", zap.String("file", file.Name), zap.Error(err))
		return nil, fmt.Errorf("upload %s: %w", file.Name, err)
	}

	if err := o.finish(StatusSuccess, "", cand); err != nil {
		return nil, err
	}
	metrics.UploadsCounter.WithLabelValues("success").Inc()
	o.logger.Info("upload completed",
		zap.String("file", file.Name),
		zap.String(logger.FieldCandidate, cand.ID),
		zap.Int("skills", len(cand.SkillsNorm)),
	)

	if o.bus != nil {
		o.bus.Publish(TopicCandidateUploaded, cand)
	}

	return cand, nil
}

// finish applies the terminal state. The progress task is already stopped.
func (o *Orchestrator) finish(status Status, message string, cand *candidate.Candidate) error {
	o.mu.Lock()
	o.task = nil
	if err := transition(o.status, status); err != nil {
		o.mu.Unlock()
		o.logger.Error("dropping upload result", zap.Error(err))
		return err
	}
	o.status = status
	o.progress = 100
	o.message = message
	o.candidate = cand
	o.mu.Unlock()

	o.notify(100)
	return nil
}

func (o *Orchestrator) tick(delta int) {
	o.mu.Lock()
	if o.status != StatusUploading {
		o.mu.Unlock()
		return
	}
	next := advance(o.progress, delta)
	changed := next != o.progress
	o.progress = next
	o.mu.Unlock()

	if changed {
		o.notify(next)
	}
}

func (o *Orchestrator) notify(progress int) {
	if o.onProgress != nil {
		o.onProgress(progress)
	}
}

// Reset returns a finished upload to idle. It does nothing when idle.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status == StatusIdle {
		return nil
	}
	if err := transition(o.status, StatusIdle); err != nil {
		return err
	}

	o.status = StatusIdle
	o.progress = 0
	o.message = ""
	o.candidate = nil
	return nil
}

// Close stops the progress task of an upload in flight. The upload itself
// still resolves, but no further Submit is accepted.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	task := o.task
	o.mu.Unlock()

	if task != nil {
		task.Stop()
	}
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	return Snapshot{
		Status:    o.status,
		Progress:  o.progress,
		Message:   o.message,
		Candidate: o.candidate,
	}
}

// SearchHandoff returns the id of the uploaded candidate for job search.
func (o *Orchestrator) SearchHandoff() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status != StatusSuccess || o.candidate == nil {
		return "", false
	}
	return o.candidate.ID, true
}

// QualityHandoff returns the whole uploaded candidate for CV analysis.
func (o *Orchestrator) QualityHandoff() (*candidate.Candidate, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status != StatusSuccess || o.candidate == nil {
		return nil, false
	}
	return o.candidate, true
}
