package clock

import (
	"sync"
	"time"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/KirkDiggler/unplugged/internal/common/clock Clock

// Clock is the time source for anything that stamps sessions, records or journal entries
type Clock interface {
	Now() time.Time
}

// DefaultClock implements the Clock interface using the system clock
type DefaultClock struct{}

// Now returns the current local time
func (c *DefaultClock) Now() time.Time {
	return time.Now()
}

// Fixed is a Clock that only moves when told to, for tests that do not need gomock
type Fixed struct {
	mu sync.RWMutex
	at time.Time
}

// NewFixed creates a clock frozen at t
func NewFixed(t time.Time) *Fixed {
	return &Fixed{at: t}
}

// Now returns the frozen instant
func (c *Fixed) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.at
}

// Advance moves the frozen instant forward by d
func (c *Fixed) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = c.at.Add(d)
}
