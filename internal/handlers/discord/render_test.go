package discord

import (
	"fmt"
	"testing"
	"time"

	"github.com/KirkDiggler/unplugged/internal/models"
	"github.com/KirkDiggler/unplugged/internal/services/appstate"
	"github.com/KirkDiggler/unplugged/internal/services/challenge"
	"github.com/KirkDiggler/unplugged/internal/services/messaging"
	"github.com/KirkDiggler/unplugged/internal/services/session"
	"github.com/KirkDiggler/unplugged/internal/services/stats"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"
)

type RenderTestSuite struct {
	suite.Suite
	start time.Time
}

func (s *RenderTestSuite) SetupTest() {
	s.start = time.Date(2025, 4, 9, 12, 0, 0, 0, time.UTC)
}

func (s *RenderTestSuite) TestSessionStatusIdle() {
	embed := renderSessionStatus("ada", &appstate.SessionStatus{}, "")

	s.Equal("No session running", embed.Title)
	s.Empty(embed.Fields)
}

func (s *RenderTestSuite) TestSessionStatusStrictChallenge() {
	embed := renderSessionStatus("ada", &appstate.SessionStatus{
		Active: true,
		Session: &models.Session{
			ID:          "s1",
			StartTime:   s.start,
			Strict:      true,
			ChallengeID: "c1",
		},
		Elapsed: 125 * time.Second,
	}, "Breathe.")

	s.Equal("ada is unplugged", embed.Title)
	s.Equal("Breathe.", embed.Description)
	s.Equal(colorCalm, embed.Color)
	s.Require().Len(embed.Fields, 3)
	s.Equal("2m 05s", embed.Fields[0].Value)
	s.Equal("Strict", embed.Fields[1].Value)
	s.Equal("`c1`", embed.Fields[2].Value)
	s.Equal(s.start.Format(time.RFC3339), embed.Timestamp)
}

func (s *RenderTestSuite) TestSessionStatusInterrupted() {
	embed := renderSessionStatus("ada", &appstate.SessionStatus{
		Active:      true,
		Session:     &models.Session{StartTime: s.start, Strict: true},
		Interrupted: true,
	}, "")

	s.Equal(colorWarning, embed.Color)
	s.Equal("Interrupted", embed.Fields[len(embed.Fields)-1].Name)
}

func (s *RenderTestSuite) TestSessionResult() {
	out := &appstate.StopSessionOutput{
		Stopped:      true,
		Duration:     125 * time.Second,
		PointsEarned: 2,
		Streak:       3,
		Challenge: &appstate.CompleteChallengeOutput{
			Found:     true,
			Challenge: &models.Challenge{Title: "Read"},
			Bonus:     4,
		},
	}

	embed := renderSessionResult("ada", out, &messaging.GetSessionResultMessageOutput{
		Title:   "Nice",
		Message: "Well done",
	})

	s.Equal("Nice", embed.Title)
	s.Equal("Well done", embed.Description)
	s.Equal(colorSuccess, embed.Color)
	s.Require().Len(embed.Fields, 4)
	s.Equal("+2", embed.Fields[1].Value)
	s.Equal("3 day(s) this week", embed.Fields[2].Value)
	s.Equal("Read (+4 bonus)", embed.Fields[3].Value)
}

func (s *RenderTestSuite) TestSessionResultFailed() {
	embed := renderSessionResult("ada", &appstate.StopSessionOutput{
		Stopped:  true,
		Failed:   true,
		Duration: time.Minute,
	}, nil)

	s.Equal("ada plugged back in", embed.Title)
	s.Equal(colorError, embed.Color)
	s.Len(embed.Fields, 2)
	s.Equal("+0", embed.Fields[1].Value)
}

func (s *RenderTestSuite) TestCompletionPublic() {
	embed := renderCompletion(&appstate.CompleteChallengeOutput{
		Found:     true,
		Challenge: &models.Challenge{Title: "Walk", IsPublic: true},
		Bonus:     20,
		Public:    &challenge.CompletePublicOutput{Incremented: true, UsersCompletedCount: 7},
	}, nil)

	s.Equal("Challenge complete", embed.Title)
	s.Require().Len(embed.Fields, 3)
	s.Equal("+20", embed.Fields[1].Value)
	s.Equal("7 user(s)", embed.Fields[2].Value)
}

func (s *RenderTestSuite) TestStats() {
	embed := renderStats(&appstate.StatsOutput{
		Stats: &models.UserStats{
			DailyStreak:  2,
			TotalRawTime: 3725,
			TotalPoints:  62,
		},
		Goal: stats.GoalProgress{TodayMinutes: 30, GoalMinutes: 30, Reached: true},
	}, "Two days")

	s.Equal("Two days", embed.Description)
	s.Equal("2", embed.Fields[0].Value)
	s.Equal("62", embed.Fields[1].Value)
	s.Equal("1h 02m 05s", embed.Fields[2].Value)
	s.Equal("30 / 30 min ✅", embed.Fields[3].Value)
}

func (s *RenderTestSuite) TestLeaderboard() {
	embed := renderLeaderboard(&appstate.LeaderboardOutput{
		Entries: []*models.LeaderboardEntry{
			{UserID: "u1", Nickname: "ada", TotalPoints: 10, TotalRawTime: 600, Rank: 1},
			{UserID: "u2", Nickname: "bob", TotalPoints: 5, TotalRawTime: 300, Rank: 2},
		},
		Self: &models.LeaderboardEntry{UserID: "u2", TotalPoints: 5, Rank: 2},
	})

	s.Contains(embed.Description, "🥇 **1.** ada: 10 pts (10m 00s)")
	s.Contains(embed.Description, "🥈 **2.** bob: 5 pts (5m 00s)")
	s.Require().NotNil(embed.Footer)
	s.Equal("You are #2 with 5 points", embed.Footer.Text)
}

func (s *RenderTestSuite) TestLeaderboardEmpty() {
	embed := renderLeaderboard(&appstate.LeaderboardOutput{})

	s.Equal("Nobody has unplugged yet.", embed.Description)
	s.Nil(embed.Footer)
}

func (s *RenderTestSuite) TestChallengeListTruncates() {
	var challenges []*models.Challenge
	for i := 0; i < maxListItems+3; i++ {
		challenges = append(challenges, &models.Challenge{
			ID:              fmt.Sprintf("c%d", i),
			Title:           "Read",
			DurationMinutes: 10,
		})
	}
	challenges[0].IsCompleted = true
	challenges[1].IsPublic = true
	challenges[1].UsersCompletedCount = 4

	embed := renderChallengeList("Yours", challenges)

	s.Contains(embed.Description, "✅ **Read** (10 min) `c0`")
	s.Contains(embed.Description, "⬜ **Read** (10 min) `c1` · 🌍 4")
	s.Contains(embed.Description, "…and 3 more")
	s.NotContains(embed.Description, "`c15`")
}

func (s *RenderTestSuite) TestChallengeListEmpty() {
	s.Equal("No challenges yet.", renderChallengeList("Yours", nil).Description)
}

func (s *RenderTestSuite) TestChallenge() {
	embed := renderChallenge(&models.Challenge{ID: "c1", Title: "Read", DurationMinutes: 15}, false)

	s.Equal("Read", embed.Title)
	s.Contains(embed.Description, "challenge:c1")
	s.Equal("15 min", embed.Fields[0].Value)
	s.Equal("Public", embed.Fields[1].Value)
	s.Equal("Open", embed.Fields[2].Value)
}

func (s *RenderTestSuite) TestJournal() {
	entries := []*models.JournalEntry{
		{ID: "j1", Date: s.start, Duration: 90, Thoughts: "calm"},
		{ID: "j2", Date: s.start.Add(-time.Hour), Duration: 30},
	}

	embed := renderJournal(entries, time.UTC)

	s.Require().Len(embed.Fields, 2)
	s.Equal("Wed Apr 9 12:00 · 1m 30s", embed.Fields[0].Name)
	s.Equal("calm", embed.Fields[0].Value)
	s.Equal("_no thoughts recorded_", embed.Fields[1].Value)
}

func (s *RenderTestSuite) TestJournalEmpty() {
	s.Equal("No entries yet.", renderJournal(nil, time.UTC).Description)
}

func (s *RenderTestSuite) TestStopButtonCarriesOwner() {
	button, ok := stopButton("u1").(discordgo.Button)
	s.Require().True(ok)
	s.Equal(ButtonStopSession+":u1", button.CustomID)
}

func (s *RenderTestSuite) TestClassify() {
	s.Equal(messaging.ErrorTypeSessionActive, classify(fmt.Errorf("start: %w", session.ErrSessionActive)))
	s.Equal(messaging.ErrorTypeNotFound, classify(challenge.ErrChallengeNotFound))
	s.Equal(messaging.ErrorTypeInvalidInput, classify(challenge.ErrInvalidTitle))
	s.Equal(messaging.ErrorTypeInvalidInput, classify(appstate.ErrInvalidDailyGoal))
	s.Equal(messaging.ErrorTypeNoSession, classify(appstate.ErrNoPendingJournal))
	s.Empty(classify(fmt.Errorf("boom")))
}

func (s *RenderTestSuite) TestModalValue() {
	components := []discordgo.MessageComponent{
		&discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: InputThoughts, Value: "quiet"},
			},
		},
	}

	s.Equal("quiet", modalValue(components, InputThoughts))
	s.Empty(modalValue(components, "other"))
	s.Empty(modalValue(nil, InputThoughts))
}

func (s *RenderTestSuite) TestInteractionUser() {
	id, name := interactionUser(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{Nick: "Ada", User: &discordgo.User{ID: "u1", Username: "ada"}},
	}})
	s.Equal("u1", id)
	s.Equal("Ada", name)

	id, name = interactionUser(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "u2", Username: "bob"},
	}})
	s.Equal("u2", id)
	s.Equal("bob", name)
}

func TestRenderSuite(t *testing.T) {
	suite.Run(t, new(RenderTestSuite))
}
