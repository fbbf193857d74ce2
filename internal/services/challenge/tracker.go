package challenge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/KirkDiggler/unplugged/internal/common/clock"
	"github.com/KirkDiggler/unplugged/internal/common/uuid"
	"github.com/KirkDiggler/unplugged/internal/models"
	publicRepo "github.com/KirkDiggler/unplugged/internal/repositories/public_challenge"
)

// Tracker holds one user's personal challenges in memory and talks to the
// shared public collection. Persisting the personal list is the caller's job.
type Tracker struct {
	userID        string
	publicStore   publicRepo.Repository
	clock         clock.Clock
	uuidGenerator uuid.UUID

	mu         sync.Mutex
	challenges []*models.Challenge
}

// New creates an empty challenge tracker
func New(cfg *Config) (*Tracker, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.UserID == "" {
		return nil, ErrEmptyUserID
	}

	if cfg.PublicStore == nil {
		return nil, ErrNilPublicStore
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	return &Tracker{
		userID:        cfg.UserID,
		publicStore:   cfg.PublicStore,
		clock:         cfg.Clock,
		uuidGenerator: cfg.UUIDGenerator,
		challenges:    []*models.Challenge{},
	}, nil
}

// Load replaces the personal list
func (t *Tracker) Load(challenges []*models.Challenge) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.challenges = make([]*models.Challenge, 0, len(challenges))
	for _, c := range challenges {
		t.challenges = append(t.challenges, c.Clone())
	}
}

// List returns copies of the personal challenges in creation order
func (t *Tracker) List() []*models.Challenge {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]*models.Challenge, 0, len(t.challenges))
	for _, c := range t.challenges {
		out = append(out, c.Clone())
	}
	return out
}

// Get returns a copy of a personal challenge
func (t *Tracker) Get(id string) (*models.Challenge, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if c := t.find(id); c != nil {
		return c.Clone(), true
	}
	return nil, false
}

// AddPersonal appends a new, uncompleted, private challenge
func (t *Tracker) AddPersonal(input *AddPersonalInput) (*models.Challenge, error) {
	if input == nil || strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidTitle
	}

	if input.DurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	c := &models.Challenge{
		ID:              t.uuidGenerator.NewUUID(),
		Title:           strings.TrimSpace(input.Title),
		DurationMinutes: input.DurationMinutes,
		CreatedAt:       t.clock.Now(),
		OwnerID:         t.userID,
	}

	t.mu.Lock()
	t.challenges = append(t.challenges, c)
	t.mu.Unlock()

	return c.Clone(), nil
}

// MarkCompleted sets the completion flag. Unknown IDs are ignored.
func (t *Tracker) MarkCompleted(id string) (*models.Challenge, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := t.find(id)
	if c == nil {
		return nil, false
	}

	c.IsCompleted = true
	return c.Clone(), true
}

// ShareToPublic flips the personal copy to public and creates the mirror if absent.
// The local flip stands even if the store call fails.
func (t *Tracker) ShareToPublic(ctx context.Context, id string) (*ShareOutput, error) {
	t.mu.Lock()
	c := t.find(id)
	if c == nil {
		t.mu.Unlock()
		return nil, ErrChallengeNotFound
	}
	c.IsPublic = true
	shared := c.Clone()
	t.mu.Unlock()

	out, err := t.publicStore.CreateIfAbsent(ctx, &publicRepo.CreateIfAbsentInput{
		Challenge: shared,
		SharerID:  t.userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to share challenge %s: %w", id, err)
	}

	return &ShareOutput{
		Challenge: shared,
		Created:   out.Created,
	}, nil
}

// CompletePublic records userID's completion of a public challenge. The shared
// counter only moves on the user's first completion.
func (t *Tracker) CompletePublic(ctx context.Context, userID, challengeID string) (*CompletePublicOutput, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	out, err := t.publicStore.CompleteFirstTime(ctx, &publicRepo.CompleteFirstTimeInput{
		ChallengeID: challengeID,
		UserID:      userID,
	})
	if err != nil {
		if errors.Is(err, publicRepo.ErrPublicChallengeNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to complete public challenge %s: %w", challengeID, err)
	}

	if out.Incremented {
		t.mu.Lock()
		if c := t.find(challengeID); c != nil {
			c.UsersCompletedCount = out.UsersCompletedCount
		}
		t.mu.Unlock()
	}

	return &CompletePublicOutput{
		Incremented:         out.Incremented,
		UsersCompletedCount: out.UsersCompletedCount,
	}, nil
}

// Delete removes a personal challenge and, if it was shared, its public mirror.
// The personal removal stands when the mirror removal fails; the returned error
// then wraps ErrPublicCleanupFailed. Unknown IDs return nil, nil.
func (t *Tracker) Delete(ctx context.Context, id string) (*models.Challenge, error) {
	t.mu.Lock()
	var removed *models.Challenge
	for i, c := range t.challenges {
		if c.ID == id {
			removed = c
			t.challenges = append(t.challenges[:i], t.challenges[i+1:]...)
			break
		}
	}
	t.mu.Unlock()

	if removed == nil {
		return nil, nil
	}

	if !removed.IsPublic {
		return removed, nil
	}

	err := t.publicStore.DeletePublicChallenge(ctx, &publicRepo.DeletePublicChallengeInput{
		ChallengeID: id,
	})
	if err != nil {
		log.Printf("Challenge: failed to remove public mirror %s: %v", id, err)
		return removed, fmt.Errorf("%w %s: %w", ErrPublicCleanupFailed, id, err)
	}

	return removed, nil
}

// Open resolves a deep-linked challenge ID: the personal copy first, then the public one
func (t *Tracker) Open(ctx context.Context, id string) (*OpenOutput, error) {
	if id == "" {
		return nil, ErrChallengeNotFound
	}

	if c, ok := t.Get(id); ok {
		return &OpenOutput{Challenge: c, Personal: true}, nil
	}

	c, err := t.publicStore.GetPublicChallenge(ctx, &publicRepo.GetPublicChallengeInput{
		ChallengeID: id,
	})
	if err != nil {
		if errors.Is(err, publicRepo.ErrPublicChallengeNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to open challenge %s: %w", id, err)
	}

	return &OpenOutput{Challenge: c}, nil
}

// ListPublic returns the public collection, newest first
func (t *Tracker) ListPublic(ctx context.Context, limit int) ([]*models.Challenge, error) {
	out, err := t.publicStore.ListPublicChallenges(ctx, &publicRepo.ListPublicChallengesInput{
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list public challenges: %w", err)
	}
	return out.Challenges, nil
}

// WatchPublic streams snapshots of the public collection until ctx is done
func (t *Tracker) WatchPublic(ctx context.Context, limit int) (<-chan []*models.Challenge, error) {
	return t.publicStore.WatchPublicChallenges(ctx, &publicRepo.WatchPublicChallengesInput{
		Limit: limit,
	})
}

func (t *Tracker) find(id string) *models.Challenge {
	for _, c := range t.challenges {
		if c.ID == id {
			return c
		}
	}
	return nil
}
