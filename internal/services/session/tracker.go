package session

import (
	"sync"
	"time"

	"github.com/KirkDiggler/unplugged/internal/common/clock"
	"github.com/KirkDiggler/unplugged/internal/common/uuid"
	"github.com/KirkDiggler/unplugged/internal/models"
)

// Tracker owns the single live session slot
type Tracker struct {
	clock         clock.Clock
	uuidGenerator uuid.UUID
	tickInterval  time.Duration

	mu          sync.Mutex
	state       State
	stopTicking chan struct{}
	tickerDone  chan struct{}

	// subMu guards subscribers; the tick goroutine takes it without mu
	subMu       sync.Mutex
	subscribers map[int]chan time.Duration
	nextSub     int
}

// New creates a session tracker in the Idle state
func New(cfg *Config) (*Tracker, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	interval := cfg.TickInterval
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	return &Tracker{
		clock:         cfg.Clock,
		uuidGenerator: cfg.UUIDGenerator,
		tickInterval:  interval,
		state:         Idle{},
		subscribers:   make(map[int]chan time.Duration),
	}, nil
}

// State returns the current state; an Active state carries a copy of the session
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	if active, ok := t.state.(Active); ok {
		s := *active.Session
		active.Session = &s
		return active
	}
	return Idle{}
}

// Start begins a new session and its UI refresh tick
func (t *Tracker) Start(input *StartInput) (*models.Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.state.(Active); ok {
		return nil, ErrSessionActive
	}

	if input == nil {
		input = &StartInput{}
	}

	session := &models.Session{
		ID:          t.uuidGenerator.NewUUID(),
		StartTime:   t.clock.Now(),
		Strict:      input.Strict,
		ChallengeID: input.ChallengeID,
	}

	t.state = Active{Session: session}
	t.stopTicking = make(chan struct{})
	t.tickerDone = make(chan struct{})

	go t.tick(*session, t.stopTicking, t.tickerDone)

	started := *session
	return &started, nil
}

// Elapsed returns the live session's duration, or zero when Idle
func (t *Tracker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	active, ok := t.state.(Active)
	if !ok {
		return 0
	}
	return models.Elapsed(active.Session, t.clock.Now())
}

// Ticks subscribes to the elapsed-time stream of the live session. Every
// subscriber gets its own channel, closed when the session stops or on
// unsubscribe. The channel is nil when Idle. Slow readers miss ticks.
func (t *Tracker) Ticks() (<-chan time.Duration, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.state.(Active); !ok {
		return nil, func() {}
	}

	t.subMu.Lock()
	defer t.subMu.Unlock()

	id := t.nextSub
	t.nextSub++
	ch := make(chan time.Duration, 1)
	t.subscribers[id] = ch

	return ch, func() { t.unsubscribe(id) }
}

func (t *Tracker) unsubscribe(id int) {
	t.subMu.Lock()
	defer t.subMu.Unlock()

	if ch, ok := t.subscribers[id]; ok {
		delete(t.subscribers, id)
		close(ch)
	}
}

// Subscribers returns the number of open tick streams
func (t *Tracker) Subscribers() int {
	t.subMu.Lock()
	defer t.subMu.Unlock()
	return len(t.subscribers)
}

// Stop ends the live session. ok is false when there was nothing to stop.
func (t *Tracker) Stop() (*StopOutput, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.stopLocked(false)
}

// Background marks a live strict session as interrupted and reports whether it did
func (t *Tracker) Background() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	active, ok := t.state.(Active)
	if !ok || !active.Session.Strict {
		return false
	}

	active.Interrupted = true
	t.state = active
	return true
}

// Foreground fails an interrupted strict session. ok is false when nothing was stopped.
func (t *Tracker) Foreground() (*StopOutput, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	active, ok := t.state.(Active)
	if !ok || !active.Interrupted {
		return nil, false
	}

	return t.stopLocked(true)
}

func (t *Tracker) stopLocked(failed bool) (*StopOutput, bool) {
	active, ok := t.state.(Active)
	if !ok {
		return nil, false
	}

	end := t.clock.Now()
	if end.Before(active.Session.StartTime) {
		end = active.Session.StartTime
	}

	ended := *active.Session
	ended.EndTime = &end

	close(t.stopTicking)
	<-t.tickerDone

	t.subMu.Lock()
	for id, ch := range t.subscribers {
		delete(t.subscribers, id)
		close(ch)
	}
	t.subMu.Unlock()

	t.state = Idle{}
	t.stopTicking = nil
	t.tickerDone = nil

	return &StopOutput{
		Session:  &ended,
		Duration: models.Elapsed(&ended, end),
		Failed:   failed,
	}, true
}

// tick publishes elapsed time to every subscriber until stop is closed
func (t *Tracker) tick(live models.Session, stop <-chan struct{}, done chan<- struct{}) {
	ticker := time.NewTicker(t.tickInterval)
	defer func() {
		ticker.Stop()
		close(done)
	}()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			elapsed := models.Elapsed(&live, t.clock.Now())

			t.subMu.Lock()
			for _, ch := range t.subscribers {
				select {
				case ch <- elapsed:
				default:
				}
			}
			t.subMu.Unlock()
		}
	}
}
