package rest

import (
	"time"

	"github.com/KirkDiggler/unplugged/internal/models"
	"github.com/KirkDiggler/unplugged/internal/services/appstate"
)

type startSessionRequest struct {
	ChallengeID string `json:"challengeId" validate:"omitempty,max=128"`
	Strict      bool   `json:"strict"`
}

type stopSessionRequest struct {
	Journal bool `json:"journal"`
}

type dailyGoalRequest struct {
	Minutes *int `json:"minutes" validate:"required,min=0,max=1440"`
}

type addChallengeRequest struct {
	Title           string `json:"title" validate:"required,max=120"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,min=1,max=1440"`
}

type journalRequest struct {
	Thoughts string `json:"thoughts" validate:"max=4000"`
}

type sessionResponse struct {
	Active         bool       `json:"active"`
	ID             string     `json:"id,omitempty"`
	StartTime      *time.Time `json:"startTime,omitempty"`
	Strict         bool       `json:"strict"`
	ChallengeID    string     `json:"challengeId,omitempty"`
	ElapsedSeconds float64    `json:"elapsedSeconds"`
	Interrupted    bool       `json:"interrupted"`
}

type stopSessionResponse struct {
	Stopped         bool                `json:"stopped"`
	Failed          bool                `json:"failed"`
	DurationSeconds float64             `json:"durationSeconds"`
	PointsEarned    int                 `json:"pointsEarned"`
	Streak          int                 `json:"streak"`
	JournalStaged   bool                `json:"journalStaged"`
	Title           string              `json:"title"`
	Message         string              `json:"message"`
	Challenge       *completionResponse `json:"challenge,omitempty"`
}

type completionResponse struct {
	Challenge           *models.Challenge `json:"challenge"`
	Bonus               int               `json:"bonus"`
	FirstCompletion     bool              `json:"firstCompletion"`
	UsersCompletedCount int               `json:"usersCompletedCount,omitempty"`
	Title               string            `json:"title"`
	Message             string            `json:"message"`
}

type goalResponse struct {
	TodayMinutes int  `json:"todayMinutes"`
	GoalMinutes  int  `json:"goalMinutes"`
	Reached      bool `json:"reached"`
}

type statsResponse struct {
	Stats         *models.UserStats    `json:"stats"`
	DailyHistory  []models.DailyRecord `json:"dailyHistory"`
	Goal          goalResponse         `json:"goal"`
	StreakMessage string               `json:"streakMessage"`
}

type shareResponse struct {
	Challenge *models.Challenge `json:"challenge"`
	Created   bool              `json:"created"`
}

type openResponse struct {
	Challenge *models.Challenge `json:"challenge"`
	Personal  bool              `json:"personal"`
}

type pendingJournalResponse struct {
	SessionID       string  `json:"sessionId"`
	DurationSeconds float64 `json:"durationSeconds"`
}

type journalResponse struct {
	Entries []*models.JournalEntry  `json:"entries"`
	Pending *pendingJournalResponse `json:"pending,omitempty"`
}

type leaderboardResponse struct {
	Entries []*models.LeaderboardEntry `json:"entries"`
	Self    *models.LeaderboardEntry   `json:"self,omitempty"`
}

func toSessionResponse(status *appstate.SessionStatus) sessionResponse {
	if !status.Active || status.Session == nil {
		return sessionResponse{}
	}

	start := status.Session.StartTime
	return sessionResponse{
		Active:         true,
		ID:             status.Session.ID,
		StartTime:      &start,
		Strict:         status.Session.Strict,
		ChallengeID:    status.Session.ChallengeID,
		ElapsedSeconds: status.Elapsed.Seconds(),
		Interrupted:    status.Interrupted,
	}
}
