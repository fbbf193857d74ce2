package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type MessagingServiceTestSuite struct {
	suite.Suite
	service Service
	ctx     context.Context
}

func (s *MessagingServiceTestSuite) SetupTest() {
	service, err := NewService(&ServiceConfig{Seed: 42})
	s.Require().NoError(err)
	s.service = service
	s.ctx = context.Background()
}

func TestMessagingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MessagingServiceTestSuite))
}

func (s *MessagingServiceTestSuite) TestFormatDuration() {
	testCases := []struct {
		duration time.Duration
		expected string
	}{
		{0, "0s"},
		{59 * time.Second, "59s"},
		{125 * time.Second, "2m 05s"},
		{time.Hour + 2*time.Minute + 5*time.Second + 400*time.Millisecond, "1h 02m 05s"},
		{-time.Second, "0s"},
	}

	for _, tc := range testCases {
		s.Equal(tc.expected, FormatDuration(tc.duration))
	}
}

func (s *MessagingServiceTestSuite) TestMotivationalMessage() {
	out, err := s.service.GetMotivationalMessage(s.ctx, &GetMotivationalMessageInput{Elapsed: time.Minute})
	s.Require().NoError(err)
	s.NotEmpty(out.Message)
	s.Equal(ToneEncouraging, out.Tone)
}

func (s *MessagingServiceTestSuite) TestSessionResultMessage() {
	out, err := s.service.GetSessionResultMessage(s.ctx, &GetSessionResultMessageInput{
		Duration:     125 * time.Second,
		PointsEarned: 2,
		Streak:       3,
	})
	s.Require().NoError(err)
	s.Equal("Session Complete", out.Title)
	s.Contains(out.Message, "2m 05s")
	s.Contains(out.Message, "3 active days this week")
}

func (s *MessagingServiceTestSuite) TestSessionResultMessageFailed() {
	out, err := s.service.GetSessionResultMessage(s.ctx, &GetSessionResultMessageInput{
		Duration: 10 * time.Minute,
		Failed:   true,
	})
	s.Require().NoError(err)
	s.Equal("Challenge Failed", out.Title)
	s.Contains(out.Message, "10m 00s")
}

func (s *MessagingServiceTestSuite) TestSessionResultMessageUnderAMinute() {
	out, err := s.service.GetSessionResultMessage(s.ctx, &GetSessionResultMessageInput{Duration: 30 * time.Second})
	s.Require().NoError(err)
	s.Equal("Session Ended", out.Title)
}

func (s *MessagingServiceTestSuite) TestChallengeCompletedMessage() {
	out, err := s.service.GetChallengeCompletedMessage(s.ctx, &GetChallengeCompletedMessageInput{
		Title:               "Walk",
		Bonus:               40,
		IsPublic:            true,
		FirstCompletion:     true,
		UsersCompletedCount: 7,
	})
	s.Require().NoError(err)
	s.Contains(out.Message, "Walk")
	s.Contains(out.Message, "40")
	s.Contains(out.Message, "one of 7 people")

	out, err = s.service.GetChallengeCompletedMessage(s.ctx, &GetChallengeCompletedMessageInput{
		Title:    "Walk",
		Bonus:    40,
		IsPublic: true,
	})
	s.Require().NoError(err)
	s.Contains(out.Message, "community count stays put")
}

func (s *MessagingServiceTestSuite) TestStreakMessage() {
	for _, streak := range []int{0, 2, 5, 7} {
		out, err := s.service.GetStreakMessage(s.ctx, &GetStreakMessageInput{Streak: streak})
		s.Require().NoError(err)
		s.NotEmpty(out.Message)
	}
}

func (s *MessagingServiceTestSuite) TestErrorMessage() {
	out, err := s.service.GetErrorMessage(s.ctx, &GetErrorMessageInput{ErrorType: ErrorTypeReauthRequired})
	s.Require().NoError(err)
	s.Contains(out.Message, "sign in again")
	s.Equal(ToneCalm, out.Tone)
}
