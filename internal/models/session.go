package models

import (
	"time"
)

// Session represents a single timed interval of distraction-free activity
type Session struct {
	// ID is the unique identifier for this session
	ID string `json:"id"`

	// StartTime is when the session was started
	StartTime time.Time `json:"startTime"`

	// EndTime is when the session was stopped, nil while the session is live
	EndTime *time.Time `json:"endTime,omitempty"`

	// Strict marks a challenge session that fails if the app is backgrounded
	Strict bool `json:"strict"`

	// ChallengeID is the challenge this session is attempting, if any
	ChallengeID string `json:"challengeId,omitempty"`
}

// IsLive reports whether the session has not been stopped yet
func (s *Session) IsLive() bool {
	return s.EndTime == nil
}

// Elapsed returns the duration of a session. Ended sessions measure start to end,
// live sessions measure start to now. The result is never negative.
func Elapsed(s *Session, now time.Time) time.Duration {
	if s == nil {
		return 0
	}

	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}

	d := end.Sub(s.StartTime)
	if d < 0 {
		return 0
	}
	return d
}
