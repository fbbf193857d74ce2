package appstate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/KirkDiggler/unplugged/internal/common/clock"
	"github.com/KirkDiggler/unplugged/internal/common/uuid"
	"github.com/KirkDiggler/unplugged/internal/metrics"
	"github.com/KirkDiggler/unplugged/internal/models"
	challengeRepo "github.com/KirkDiggler/unplugged/internal/repositories/challenge"
	journalRepo "github.com/KirkDiggler/unplugged/internal/repositories/journal"
	publicRepo "github.com/KirkDiggler/unplugged/internal/repositories/public_challenge"
	statsRepo "github.com/KirkDiggler/unplugged/internal/repositories/stats"
	"github.com/KirkDiggler/unplugged/internal/services/challenge"
	"github.com/KirkDiggler/unplugged/internal/services/leaderboard"
	"github.com/KirkDiggler/unplugged/internal/services/session"
	"github.com/KirkDiggler/unplugged/internal/services/stats"
)

// Manager is one user's state container. Every mutation is applied in memory
// first and then handed to the Saver; a failed save is logged and the
// in-memory state is kept as is.
type Manager struct {
	userID string

	statsRepo     statsRepo.Repository
	challengeRepo challengeRepo.Repository
	journalRepo   journalRepo.Repository
	publicStore   publicRepo.Repository
	leaderboard   *leaderboard.Service
	entitlements  EntitlementChecker
	accounts      AccountDeleter
	clock         clock.Clock
	uuidGenerator uuid.UUID
	saver         *Saver
	metrics       *metrics.Metrics
	engine        *stats.Engine
	reauthWindow  time.Duration
	defaultGoal   int

	session    *session.Tracker
	challenges *challenge.Tracker

	mu              sync.Mutex
	nickname        string
	stats           *models.UserStats
	journal         []*models.JournalEntry
	pending         *PendingJournal
	activeChallenge *models.Challenge
}

// New creates a Manager with empty state; call Load to read the stored state
func New(cfg *Config) (*Manager, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	leaderboardService, err := leaderboard.New(&leaderboard.Config{Repository: cfg.LeaderboardRepo})
	if err != nil {
		return nil, err
	}

	sessionTracker, err := session.New(&session.Config{
		Clock:         cfg.Clock,
		UUIDGenerator: cfg.UUIDGenerator,
		TickInterval:  cfg.TickInterval,
	})
	if err != nil {
		return nil, err
	}

	challengeTracker, err := challenge.New(&challenge.Config{
		UserID:        cfg.UserID,
		PublicStore:   cfg.PublicStore,
		Clock:         cfg.Clock,
		UUIDGenerator: cfg.UUIDGenerator,
	})
	if err != nil {
		return nil, err
	}

	engine := cfg.Engine
	if engine == nil {
		engine = stats.New(nil)
	}

	reauthWindow := cfg.ReauthWindow
	if reauthWindow <= 0 {
		reauthWindow = DefaultReauthWindow
	}

	defaultGoal := cfg.DefaultDailyGoalMinutes
	if defaultGoal <= 0 {
		defaultGoal = DefaultDailyGoalMinutes
	}

	return &Manager{
		userID:        cfg.UserID,
		nickname:      cfg.Nickname,
		statsRepo:     cfg.StatsRepo,
		challengeRepo: cfg.ChallengeRepo,
		journalRepo:   cfg.JournalRepo,
		publicStore:   cfg.PublicStore,
		leaderboard:   leaderboardService,
		entitlements:  cfg.Entitlements,
		accounts:      cfg.Accounts,
		clock:         cfg.Clock,
		uuidGenerator: cfg.UUIDGenerator,
		saver:         cfg.Saver,
		metrics:       cfg.Metrics,
		engine:        engine,
		reauthWindow:  reauthWindow,
		defaultGoal:   defaultGoal,
		session:       sessionTracker,
		challenges:    challengeTracker,
		stats:         &models.UserStats{DailyGoalMinutes: defaultGoal},
		journal:       []*models.JournalEntry{},
	}, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg == nil:
		return ErrNilConfig
	case cfg.UserID == "":
		return ErrEmptyUserID
	case cfg.StatsRepo == nil:
		return ErrNilStatsRepo
	case cfg.ChallengeRepo == nil:
		return ErrNilChallengeRepo
	case cfg.JournalRepo == nil:
		return ErrNilJournalRepo
	case cfg.PublicStore == nil:
		return ErrNilPublicStore
	case cfg.LeaderboardRepo == nil:
		return ErrNilLeaderboard
	case cfg.Entitlements == nil:
		return ErrNilEntitlements
	case cfg.Accounts == nil:
		return ErrNilAccountDeleter
	case cfg.Clock == nil:
		return ErrNilClock
	case cfg.UUIDGenerator == nil:
		return ErrNilUUIDGenerator
	case cfg.Saver == nil:
		return ErrNilSaver
	}
	return nil
}

// UserID returns the user the state belongs to
func (m *Manager) UserID() string {
	return m.userID
}

// Nickname returns the name shown on the leaderboard
func (m *Manager) Nickname() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nickname
}

// SetNickname changes the leaderboard name and republishes the entry
func (m *Manager) SetNickname(nickname string) {
	m.mu.Lock()
	if nickname == "" || nickname == m.nickname {
		m.mu.Unlock()
		return
	}
	m.nickname = nickname
	entry := m.leaderboardEntryLocked()
	m.mu.Unlock()

	m.publishLeaderboard(entry)
}

// Load reads the user's stats, challenges and journal from the store
func (m *Manager) Load(ctx context.Context) error {
	userStats, err := m.statsRepo.GetStats(ctx, &statsRepo.GetStatsInput{UserID: m.userID})
	if err != nil {
		if !errors.Is(err, statsRepo.ErrStatsNotFound) {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		userStats = &models.UserStats{DailyGoalMinutes: m.defaultGoal}
	}

	challenges, err := m.challengeRepo.ListChallenges(ctx, &challengeRepo.ListChallengesInput{UserID: m.userID})
	if err != nil {
		return fmt.Errorf("failed to load challenges: %w", err)
	}

	entries, err := m.journalRepo.ListEntries(ctx, &journalRepo.ListEntriesInput{UserID: m.userID})
	if err != nil {
		return fmt.Errorf("failed to load journal: %w", err)
	}

	m.challenges.Load(challenges.Challenges)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats = userStats
	m.engine.RecomputeStreak(m.stats, m.clock.Now())
	m.journal = entries.Entries

	return nil
}

// StartSession begins a session. A challenge session is always strict.
func (m *Manager) StartSession(ctx context.Context, input *StartSessionInput) (*models.Session, error) {
	if input == nil {
		input = &StartSessionInput{}
	}

	var target *models.Challenge
	if input.ChallengeID != "" {
		opened, err := m.challenges.Open(ctx, input.ChallengeID)
		if err != nil {
			return nil, err
		}
		target = opened.Challenge
	}

	started, err := m.session.Start(&session.StartInput{
		Strict:      input.Strict || target != nil,
		ChallengeID: input.ChallengeID,
	})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.activeChallenge = target
	m.mu.Unlock()

	return started, nil
}

// StopSession ends the live session and folds it into the stats. With
// recordJournal the duration is staged for a journal entry. Stopping with no
// live session is a no-op.
func (m *Manager) StopSession(ctx context.Context, recordJournal bool) (*StopSessionOutput, error) {
	stopped, ok := m.session.Stop()
	if !ok {
		return &StopSessionOutput{}, nil
	}

	m.metrics.SessionCompleted()

	m.mu.Lock()
	recorded := m.engine.RecordSession(m.stats, stopped.Duration, m.clock.Now())
	if recordJournal {
		m.pending = &PendingJournal{
			SessionID: stopped.Session.ID,
			Duration:  stopped.Duration,
		}
	}
	target := m.activeChallenge
	m.activeChallenge = nil
	snapshot := m.stats.Clone()
	entry := m.leaderboardEntryLocked()
	m.mu.Unlock()

	m.saveStats(snapshot)
	m.publishLeaderboard(entry)

	out := &StopSessionOutput{
		Stopped:       true,
		Session:       stopped.Session,
		Duration:      stopped.Duration,
		PointsEarned:  recorded.PointsEarned,
		Streak:        recorded.Streak,
		JournalStaged: recordJournal,
	}

	if target != nil && stopped.Duration >= time.Duration(target.DurationMinutes)*time.Minute {
		completion, err := m.CompleteChallenge(ctx, target.ID)
		if err != nil {
			log.Printf("StopSession: failed to complete challenge %s for %s: %v", target.ID, m.userID, err)
		} else {
			out.Challenge = completion
		}
	}

	return out, nil
}

// Background reports that the app lost focus
func (m *Manager) Background() bool {
	return m.session.Background()
}

// Foreground reports that the app regained focus. An interrupted strict
// session is failed: no points, no journal prompt.
func (m *Manager) Foreground() *StopSessionOutput {
	stopped, ok := m.session.Foreground()
	if !ok {
		return &StopSessionOutput{}
	}

	m.metrics.SessionFailed()

	m.mu.Lock()
	m.activeChallenge = nil
	m.mu.Unlock()

	return &StopSessionOutput{
		Stopped:  true,
		Session:  stopped.Session,
		Duration: stopped.Duration,
		Failed:   true,
	}
}

// SessionStatus returns the state of the session slot
func (m *Manager) SessionStatus() *SessionStatus {
	active, ok := m.session.State().(session.Active)
	if !ok {
		return &SessionStatus{}
	}

	return &SessionStatus{
		Active:      true,
		Session:     active.Session,
		Elapsed:     m.session.Elapsed(),
		Interrupted: active.Interrupted,
	}
}

// SessionTicks subscribes to the live session's elapsed time; nil when idle.
// Call unsubscribe when done reading.
func (m *Manager) SessionTicks() (<-chan time.Duration, func()) {
	return m.session.Ticks()
}

// Stats returns a copy of the stats with today's goal progress
func (m *Manager) Stats() *StatsOutput {
	m.mu.Lock()
	defer m.mu.Unlock()

	return &StatsOutput{
		Stats: m.stats.Clone(),
		Goal:  m.engine.DailyGoalProgress(m.stats, m.clock.Now()),
	}
}

// SetDailyGoal changes the daily goal in minutes
func (m *Manager) SetDailyGoal(minutes int) error {
	if minutes < 0 {
		return ErrInvalidDailyGoal
	}

	m.mu.Lock()
	m.stats.DailyGoalMinutes = minutes
	snapshot := m.stats.Clone()
	m.mu.Unlock()

	m.saveStats(snapshot)
	return nil
}

// AddChallenge creates a personal challenge
func (m *Manager) AddChallenge(input *challenge.AddPersonalInput) (*models.Challenge, error) {
	c, err := m.challenges.AddPersonal(input)
	if err != nil {
		return nil, err
	}

	m.saveChallenge(c)
	return c, nil
}

// ListChallenges returns the personal challenges
func (m *Manager) ListChallenges() []*models.Challenge {
	return m.challenges.List()
}

// CompleteChallenge marks a challenge completed and awards its bonus. The bonus
// is awarded on every call; a shared challenge's counter only moves on this
// user's first completion. Unknown IDs report Found=false.
func (m *Manager) CompleteChallenge(ctx context.Context, id string) (*CompleteChallengeOutput, error) {
	c, personal := m.challenges.MarkCompleted(id)
	if personal {
		m.saveChallenge(c)
	} else {
		opened, err := m.challenges.Open(ctx, id)
		if err != nil {
			if errors.Is(err, challenge.ErrChallengeNotFound) {
				return &CompleteChallengeOutput{}, nil
			}
			return nil, err
		}
		c = opened.Challenge
	}

	m.mu.Lock()
	bonus := m.engine.RecordChallengeBonus(m.stats, c)
	snapshot := m.stats.Clone()
	entry := m.leaderboardEntryLocked()
	m.mu.Unlock()

	m.saveStats(snapshot)
	m.publishLeaderboard(entry)
	m.metrics.ChallengeCompleted()

	out := &CompleteChallengeOutput{
		Found:     true,
		Challenge: c,
		Bonus:     bonus,
	}

	if !c.IsPublic {
		return out, nil
	}

	public, err := m.challenges.CompletePublic(ctx, m.userID, id)
	if err != nil {
		log.Printf("CompleteChallenge: public completion of %s for %s failed: %v", id, m.userID, err)
		return out, nil
	}
	out.Public = public

	if public.Incremented {
		m.metrics.PublicFirstCompletion()
		out.Challenge.UsersCompletedCount = public.UsersCompletedCount
		if updated, ok := m.challenges.Get(id); ok {
			m.saveChallenge(updated)
		}
	}

	return out, nil
}

// ShareChallenge publishes a personal challenge to the public collection.
// The personal copy is marked public even when the store call fails.
func (m *Manager) ShareChallenge(ctx context.Context, id string) (*challenge.ShareOutput, error) {
	out, err := m.challenges.ShareToPublic(ctx, id)
	if errors.Is(err, challenge.ErrChallengeNotFound) {
		return nil, err
	}

	if c, ok := m.challenges.Get(id); ok {
		m.saveChallenge(c)
	}

	return out, err
}

// DeleteChallenge removes a personal challenge and its public mirror. The
// personal removal stands when the mirror removal fails.
func (m *Manager) DeleteChallenge(ctx context.Context, id string) error {
	removed, err := m.challenges.Delete(ctx, id)
	if removed != nil {
		m.saver.Enqueue(m.userID, "challenge", func(ctx context.Context) error {
			return m.challengeRepo.DeleteChallenge(ctx, &challengeRepo.DeleteChallengeInput{
				UserID:      m.userID,
				ChallengeID: id,
			})
		})
	}
	return err
}

// OpenChallenge resolves a bare challenge ID from a link
func (m *Manager) OpenChallenge(ctx context.Context, id string) (*challenge.OpenOutput, error) {
	return m.challenges.Open(ctx, id)
}

// PublicChallenges lists the shared collection
func (m *Manager) PublicChallenges(ctx context.Context, limit int) ([]*models.Challenge, error) {
	return m.challenges.ListPublic(ctx, limit)
}

// WatchPublicChallenges streams the shared collection until ctx is done
func (m *Manager) WatchPublicChallenges(ctx context.Context, limit int) (<-chan []*models.Challenge, error) {
	return m.challenges.WatchPublic(ctx, limit)
}

// PendingJournal returns the session waiting for a journal entry, if any
func (m *Manager) PendingJournal() (PendingJournal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending == nil {
		return PendingJournal{}, false
	}
	return *m.pending, true
}

// SaveJournal writes a journal entry for the staged session
func (m *Manager) SaveJournal(thoughts string) (*models.JournalEntry, error) {
	m.mu.Lock()
	if m.pending == nil {
		m.mu.Unlock()
		return nil, ErrNoPendingJournal
	}

	entry := &models.JournalEntry{
		ID:       m.uuidGenerator.NewUUID(),
		Date:     m.clock.Now(),
		Duration: m.pending.Duration.Seconds(),
		Thoughts: thoughts,
	}

	m.journal = append([]*models.JournalEntry{entry}, m.journal...)
	m.pending = nil
	m.mu.Unlock()

	saved := *entry
	m.saver.Enqueue(m.userID, "journal", func(ctx context.Context) error {
		return m.journalRepo.SaveEntry(ctx, &journalRepo.SaveEntryInput{
			UserID: m.userID,
			Entry:  &saved,
		})
	})

	out := *entry
	return &out, nil
}

// DiscardJournal drops the staged session without an entry
func (m *Manager) DiscardJournal() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	had := m.pending != nil
	m.pending = nil
	return had
}

// Journal returns copies of the journal entries, newest first
func (m *Manager) Journal() []*models.JournalEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.JournalEntry, 0, len(m.journal))
	for _, e := range m.journal {
		cp := *e
		out = append(out, &cp)
	}
	return out
}

// Leaderboard returns the ranked board and the user's standing
func (m *Manager) Leaderboard(ctx context.Context, limit int) (*LeaderboardOutput, error) {
	return m.leaderboard.Get(ctx, &leaderboard.GetInput{
		UserID: m.userID,
		Limit:  limit,
	})
}

// IsPremium asks the entitlement provider about this user
func (m *Manager) IsPremium(ctx context.Context) (bool, error) {
	return m.entitlements.IsEntitled(ctx, m.userID)
}

// DeleteAccount removes the user's data and identity. It fails fast with
// ErrReauthRequired when the sign-in at authTime is older than the reauth window.
func (m *Manager) DeleteAccount(ctx context.Context, authTime time.Time) error {
	if authTime.IsZero() || m.clock.Now().Sub(authTime) > m.reauthWindow {
		return ErrReauthRequired
	}

	m.session.Stop()

	// Queued saves must land before the deletes or they would recreate data
	if err := m.saver.Flush(ctx); err != nil {
		return fmt.Errorf("failed to flush pending saves: %w", err)
	}

	var errs []error

	for _, c := range m.challenges.List() {
		if !c.IsPublic {
			continue
		}
		err := m.publicStore.DeletePublicChallenge(ctx, &publicRepo.DeletePublicChallengeInput{ChallengeID: c.ID})
		if err != nil && !errors.Is(err, publicRepo.ErrPublicChallengeNotFound) {
			errs = append(errs, fmt.Errorf("public challenge %s: %w", c.ID, err))
		}
	}

	if err := m.challengeRepo.DeleteAllChallenges(ctx, &challengeRepo.DeleteAllChallengesInput{UserID: m.userID}); err != nil {
		errs = append(errs, err)
	}

	if err := m.statsRepo.DeleteStats(ctx, &statsRepo.DeleteStatsInput{UserID: m.userID}); err != nil {
		errs = append(errs, err)
	}

	if err := m.journalRepo.DeleteAllEntries(ctx, &journalRepo.DeleteAllEntriesInput{UserID: m.userID}); err != nil {
		errs = append(errs, err)
	}

	if err := m.leaderboard.Remove(ctx, m.userID); err != nil {
		errs = append(errs, err)
	}

	// Keep the identity while data remains so the user can retry
	if len(errs) > 0 {
		return fmt.Errorf("failed to delete account data: %w", errors.Join(errs...))
	}

	if err := m.accounts.DeleteUser(ctx, m.userID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	m.challenges.Load(nil)

	m.mu.Lock()
	m.stats = &models.UserStats{DailyGoalMinutes: m.defaultGoal}
	m.journal = []*models.JournalEntry{}
	m.pending = nil
	m.activeChallenge = nil
	m.mu.Unlock()

	log.Printf("DeleteAccount: deleted account %s", m.userID)
	return nil
}

// Flush waits for this process's queued saves
func (m *Manager) Flush(ctx context.Context) error {
	return m.saver.Flush(ctx)
}

// Close stops the session tick. A live session is discarded, not recorded.
func (m *Manager) Close() {
	m.session.Stop()
}

func (m *Manager) leaderboardEntryLocked() *models.LeaderboardEntry {
	return &models.LeaderboardEntry{
		UserID:       m.userID,
		Nickname:     m.nickname,
		TotalRawTime: m.stats.TotalRawTime,
		TotalPoints:  m.stats.TotalPoints,
	}
}

func (m *Manager) saveStats(snapshot *models.UserStats) {
	m.saver.Enqueue(m.userID, "stats", func(ctx context.Context) error {
		return m.statsRepo.SaveStats(ctx, &statsRepo.SaveStatsInput{
			UserID: m.userID,
			Stats:  snapshot,
		})
	})
}

func (m *Manager) saveChallenge(c *models.Challenge) {
	snapshot := c.Clone()
	m.saver.Enqueue(m.userID, "challenge", func(ctx context.Context) error {
		return m.challengeRepo.SaveChallenge(ctx, &challengeRepo.SaveChallengeInput{
			UserID:    m.userID,
			Challenge: snapshot,
		})
	})
}

func (m *Manager) publishLeaderboard(entry *models.LeaderboardEntry) {
	m.saver.Enqueue(m.userID, "leaderboard", func(ctx context.Context) error {
		return m.leaderboard.Publish(ctx, entry)
	})
}
