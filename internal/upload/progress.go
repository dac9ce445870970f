package upload

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	DefaultProgressInterval = 300 * time.Millisecond

	progressCap      = 85
	progressMaxDelta = 15
)

// progressTask ticks simulated progress until stopped. Stop returns only
// after the ticking goroutine has exited.
type progressTask struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func startProgress(interval time.Duration, tick func(delta int)) *progressTask {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	task := &progressTask{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(task.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tick(rand.IntN(progressMaxDelta))
			}
		}
	}()

	return task
}

func (t *progressTask) Stop() {
	t.once.Do(func() {
		t.cancel()
		<-t.done
	})
}

func advance(current, delta int) int {
	if current >= progressCap {
		return current
	}
	return min(current+delta, progressCap)
}
