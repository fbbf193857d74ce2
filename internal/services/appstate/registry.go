package appstate

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Registry hands out one loaded Manager per user
type Registry struct {
	deps Dependencies

	// loads runs one store load per user; other callers wait for it
	loads singleflight.Group

	mu       sync.Mutex
	managers map[string]*registryEntry
	closed   bool
}

type registryEntry struct {
	manager  *Manager
	lastUsed time.Time
}

// NewRegistry creates a registry over shared dependencies
func NewRegistry(deps *Dependencies) (*Registry, error) {
	if deps == nil {
		return nil, ErrNilConfig
	}

	// Validate once up front so Get only fails on load errors
	probe := &Config{UserID: "registry", Dependencies: *deps}
	if err := validate(probe); err != nil {
		return nil, err
	}

	return &Registry{
		deps:     *deps,
		managers: make(map[string]*registryEntry),
	}, nil
}

// Get returns the user's Manager, loading it on first use. A non-empty
// nickname updates the one shown on the leaderboard.
func (r *Registry) Get(ctx context.Context, userID, nickname string) (*Manager, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	m, ok := r.lookup(userID)
	if !ok {
		loaded, err, _ := r.loads.Do(userID, func() (any, error) {
			return r.load(ctx, userID, nickname)
		})
		if err != nil {
			return nil, err
		}
		m = loaded.(*Manager)
	}

	m.SetNickname(nickname)
	return m, nil
}

func (r *Registry) lookup(userID string) (*Manager, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.managers[userID]
	if !ok {
		return nil, false
	}
	entry.lastUsed = r.deps.Clock.Now()
	return entry.manager, true
}

// load reads a user's state outside the registry lock
func (r *Registry) load(ctx context.Context, userID, nickname string) (*Manager, error) {
	if m, ok := r.lookup(userID); ok {
		return m, nil
	}

	m, err := New(&Config{
		UserID:       userID,
		Nickname:     nickname,
		Dependencies: r.deps,
	})
	if err != nil {
		return nil, err
	}

	// Waiting callers share this load, so one caller leaving must not fail it
	if err := m.Load(context.WithoutCancel(ctx)); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}

	r.managers[userID] = &registryEntry{manager: m, lastUsed: r.deps.Clock.Now()}
	return m, nil
}

// DeleteAccount deletes the user's account and forgets the Manager
func (r *Registry) DeleteAccount(ctx context.Context, userID string, authTime time.Time) error {
	m, err := r.Get(ctx, userID, "")
	if err != nil {
		return err
	}

	if err := m.DeleteAccount(ctx, authTime); err != nil {
		return err
	}

	r.Remove(userID)
	return nil
}

// Remove closes and forgets a user's Manager
func (r *Registry) Remove(userID string) {
	r.mu.Lock()
	entry, ok := r.managers[userID]
	delete(r.managers, userID)
	r.mu.Unlock()

	if ok {
		entry.manager.Close()
	}
}

// EvictIdle unloads users not seen for idle. Users with a live session or an
// unsaved journal stay loaded. It returns the number evicted.
func (r *Registry) EvictIdle(idle time.Duration) int {
	cutoff := r.deps.Clock.Now().Add(-idle)

	r.mu.Lock()
	var stale []string
	for userID, entry := range r.managers {
		if entry.lastUsed.Before(cutoff) {
			stale = append(stale, userID)
		}
	}
	r.mu.Unlock()

	evicted := 0
	for _, userID := range stale {
		if r.evict(userID, cutoff) {
			evicted++
		}
	}
	return evicted
}

func (r *Registry) evict(userID string, cutoff time.Time) bool {
	r.mu.Lock()
	entry, ok := r.managers[userID]
	if !ok || !entry.lastUsed.Before(cutoff) {
		r.mu.Unlock()
		return false
	}

	m := entry.manager
	if m.SessionStatus().Active {
		r.mu.Unlock()
		return false
	}
	if _, pending := m.PendingJournal(); pending {
		r.mu.Unlock()
		return false
	}

	delete(r.managers, userID)
	r.mu.Unlock()

	m.Close()
	return true
}

// RunEviction calls EvictIdle every interval until ctx is done
func (r *Registry) RunEviction(ctx context.Context, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictIdle(idle); n > 0 {
				log.Printf("Registry: evicted %d idle user(s)", n)
			}
		}
	}
}

// Len returns the number of loaded users
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.managers)
}

// Close closes every Manager and drains the saver
func (r *Registry) Close() {
	r.mu.Lock()
	managers := r.managers
	r.managers = make(map[string]*registryEntry)
	r.closed = true
	r.mu.Unlock()

	for _, entry := range managers {
		entry.manager.Close()
	}

	r.deps.Saver.Close()
}
