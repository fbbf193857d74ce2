package stats

import (
	"sort"
	"time"

	"github.com/KirkDiggler/unplugged/internal/models"
)

const (
	// DefaultRetentionDays is how long daily records are kept
	DefaultRetentionDays = 30

	// ChallengeBonusMultiplier is the points awarded per challenge minute
	ChallengeBonusMultiplier = 2
)

// Config holds configuration for the stats engine
type Config struct {
	// Location is the user's calendar; days and weeks are computed in it
	Location *time.Location

	// RetentionDays is how many days of history survive pruning
	RetentionDays int
}

// Engine folds completed sessions and challenge completions into UserStats.
//
// TotalPoints and TotalRawTime accumulate directly and are never recomputed
// from DailyHistory, which is pruned to a rolling window. The two can drift if
// one is edited without the other; nothing reconciles them.
//
// A zero Engine has no location and reports a streak of 0.
type Engine struct {
	location      *time.Location
	retentionDays int
}

// RecordSessionOutput describes what a session contributed
type RecordSessionOutput struct {
	PointsEarned int
	MinutesAdded int
	Streak       int
}

// GoalProgress is today's progress toward the daily goal
type GoalProgress struct {
	TodayMinutes int
	GoalMinutes  int
	Reached      bool
}

// New creates a stats engine; a nil config uses the local calendar
func New(cfg *Config) *Engine {
	e := &Engine{
		location:      time.Local,
		retentionDays: DefaultRetentionDays,
	}

	if cfg == nil {
		return e
	}

	if cfg.Location != nil {
		e.location = cfg.Location
	}

	if cfg.RetentionDays > 0 {
		e.retentionDays = cfg.RetentionDays
	}

	return e
}

// Location returns the calendar the engine computes days in
func (e *Engine) Location() *time.Location {
	return e.location
}

// PointsForDuration awards one point per completed minute
func PointsForDuration(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

// RecordSession adds a completed session to the totals and today's record,
// then recomputes the streak
func (e *Engine) RecordSession(stats *models.UserStats, d time.Duration, now time.Time) *RecordSessionOutput {
	if d < 0 {
		d = 0
	}

	minutes := PointsForDuration(d)

	stats.TotalRawTime += d.Seconds()
	stats.TotalPoints += minutes

	if today, ok := e.startOfDay(now); ok {
		e.addMinutes(stats, today, minutes)
	}

	return &RecordSessionOutput{
		PointsEarned: minutes,
		MinutesAdded: minutes,
		Streak:       e.RecomputeStreak(stats, now),
	}
}

// RecordChallengeBonus awards the completion bonus; it is not gated on first completion
func (e *Engine) RecordChallengeBonus(stats *models.UserStats, challenge *models.Challenge) int {
	if challenge == nil || challenge.DurationMinutes <= 0 {
		return 0
	}

	bonus := challenge.DurationMinutes * ChallengeBonusMultiplier
	stats.TotalPoints += bonus
	return bonus
}

// RecomputeStreak counts the distinct days with a record from this week's Monday
// through today, and prunes records older than the retention window
func (e *Engine) RecomputeStreak(stats *models.UserStats, now time.Time) int {
	today, ok := e.startOfDay(now)
	if !ok {
		stats.DailyStreak = 0
		return 0
	}

	e.prune(stats, today)

	monday := WeekStart(today)

	days := make(map[string]struct{})
	for _, record := range stats.DailyHistory {
		day := e.dayOf(record.Date)
		if day.Before(monday) || day.After(today) {
			continue
		}
		days[day.Format(models.DayLayout)] = struct{}{}
	}

	stats.DailyStreak = len(days)
	return stats.DailyStreak
}

// DailyGoalProgress reports today's minutes against the daily goal
func (e *Engine) DailyGoalProgress(stats *models.UserStats, now time.Time) GoalProgress {
	progress := GoalProgress{GoalMinutes: stats.DailyGoalMinutes}

	today, ok := e.startOfDay(now)
	if !ok {
		return progress
	}

	for _, record := range stats.DailyHistory {
		if e.dayOf(record.Date).Equal(today) {
			progress.TodayMinutes += record.TotalMinutes
		}
	}

	progress.Reached = progress.GoalMinutes > 0 && progress.TodayMinutes >= progress.GoalMinutes
	return progress
}

// WeekStart returns Monday 00:00 of the week containing day, in day's location
func WeekStart(day time.Time) time.Time {
	y, m, d := day.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	offset := (int(midnight.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -offset)
}

func (e *Engine) startOfDay(now time.Time) (time.Time, bool) {
	if e.location == nil || now.IsZero() {
		return time.Time{}, false
	}
	return e.dayOf(now), true
}

func (e *Engine) dayOf(t time.Time) time.Time {
	y, m, d := t.In(e.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.location)
}

// addMinutes upserts today's record; it is created even when minutes is zero
func (e *Engine) addMinutes(stats *models.UserStats, today time.Time, minutes int) {
	for i := range stats.DailyHistory {
		if e.dayOf(stats.DailyHistory[i].Date).Equal(today) {
			stats.DailyHistory[i].TotalMinutes += minutes
			return
		}
	}

	stats.DailyHistory = append(stats.DailyHistory, models.DailyRecord{
		Date:         today,
		TotalMinutes: minutes,
	})

	sort.Slice(stats.DailyHistory, func(i, j int) bool {
		return stats.DailyHistory[i].Date.Before(stats.DailyHistory[j].Date)
	})
}

func (e *Engine) prune(stats *models.UserStats, today time.Time) {
	cutoff := today.AddDate(0, 0, -e.retentionDays)

	kept := stats.DailyHistory[:0]
	for _, record := range stats.DailyHistory {
		if e.dayOf(record.Date).Before(cutoff) {
			continue
		}
		kept = append(kept, record)
	}
	stats.DailyHistory = kept
}
