package appstate

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/KirkDiggler/unplugged/internal/metrics"
)

const (
	// DefaultSaveTimeout bounds a single background save
	DefaultSaveTimeout = 10 * time.Second

	// DefaultSaveQueueSize is the number of saves that can wait before Enqueue blocks
	DefaultSaveQueueSize = 256
)

// SaverConfig holds configuration for the background saver
type SaverConfig struct {
	Timeout   time.Duration
	QueueSize int
	Metrics   *metrics.Metrics
}

type saveJob struct {
	userID  string
	what    string
	save    func(ctx context.Context) error
	barrier chan struct{}
}

// Saver runs fire-and-forget saves on a single worker, in submission order.
// Failures are logged and counted; nothing is retried.
type Saver struct {
	timeout time.Duration
	metrics *metrics.Metrics

	mu     sync.RWMutex
	closed bool
	jobs   chan saveJob
	done   chan struct{}
}

// NewSaver creates a saver and starts its worker
func NewSaver(cfg *SaverConfig) *Saver {
	if cfg == nil {
		cfg = &SaverConfig{}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultSaveTimeout
	}

	size := cfg.QueueSize
	if size <= 0 {
		size = DefaultSaveQueueSize
	}

	s := &Saver{
		timeout: timeout,
		metrics: cfg.Metrics,
		jobs:    make(chan saveJob, size),
		done:    make(chan struct{}),
	}

	go s.run()

	return s
}

// Enqueue schedules a save. Saves submitted after Close are dropped.
func (s *Saver) Enqueue(userID, what string, save func(ctx context.Context) error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		log.Printf("appstate: save %s for %s dropped: saver closed", what, userID)
		return
	}

	s.jobs <- saveJob{userID: userID, what: what, save: save}
}

// Flush waits until every save enqueued before the call has run
func (s *Saver) Flush(ctx context.Context) error {
	barrier := make(chan struct{})

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrSaverClosed
	}
	s.jobs <- saveJob{barrier: barrier}
	s.mu.RUnlock()

	select {
	case <-barrier:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains pending saves and stops the worker
func (s *Saver) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closed = true
	close(s.jobs)
	s.mu.Unlock()

	<-s.done
}

func (s *Saver) run() {
	defer close(s.done)

	for job := range s.jobs {
		if job.barrier != nil {
			close(job.barrier)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		err := job.save(ctx)
		cancel()

		if err != nil {
			log.Printf("appstate: save %s for %s failed: %v", job.what, job.userID, err)
			s.metrics.SaveFailed(job.what)
		}
	}
}
