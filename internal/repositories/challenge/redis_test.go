package challenge

import (
	"context"
	"testing"
	"time"

	"github.com/KirkDiggler/unplugged/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.testNow = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestSaveAndListChallenges() {
	ctx := context.Background()

	challenges := []*models.Challenge{
		{ID: "c-2", Title: "Evening walk", DurationMinutes: 45, CreatedAt: s.testNow.Add(time.Hour)},
		{ID: "c-1", Title: "No phone breakfast", DurationMinutes: 20, CreatedAt: s.testNow},
	}
	for _, c := range challenges {
		s.Require().NoError(s.repo.SaveChallenge(ctx, &SaveChallengeInput{UserID: "user-1", Challenge: c}))
	}

	out, err := s.repo.ListChallenges(ctx, &ListChallengesInput{UserID: "user-1"})
	s.Require().NoError(err)
	s.Require().Len(out.Challenges, 2)

	s.Equal("c-1", out.Challenges[0].ID)
	s.Equal("No phone breakfast", out.Challenges[0].Title)
	s.Equal(20, out.Challenges[0].DurationMinutes)
	s.Equal("c-2", out.Challenges[1].ID)
}

func (s *RedisRepositoryTestSuite) TestSaveOverwrites() {
	ctx := context.Background()

	c := &models.Challenge{ID: "c-1", Title: "Read", DurationMinutes: 30, CreatedAt: s.testNow}
	s.Require().NoError(s.repo.SaveChallenge(ctx, &SaveChallengeInput{UserID: "user-1", Challenge: c}))

	c.IsCompleted = true
	c.IsPublic = true
	s.Require().NoError(s.repo.SaveChallenge(ctx, &SaveChallengeInput{UserID: "user-1", Challenge: c}))

	out, err := s.repo.ListChallenges(ctx, &ListChallengesInput{UserID: "user-1"})
	s.Require().NoError(err)
	s.Require().Len(out.Challenges, 1)
	s.True(out.Challenges[0].IsCompleted)
	s.True(out.Challenges[0].IsPublic)
}

func (s *RedisRepositoryTestSuite) TestListIsPerUser() {
	ctx := context.Background()

	s.Require().NoError(s.repo.SaveChallenge(ctx, &SaveChallengeInput{
		UserID:    "user-1",
		Challenge: &models.Challenge{ID: "c-1", Title: "Read", DurationMinutes: 30},
	}))

	out, err := s.repo.ListChallenges(ctx, &ListChallengesInput{UserID: "user-2"})
	s.Require().NoError(err)
	s.Empty(out.Challenges)
}

func (s *RedisRepositoryTestSuite) TestDeleteChallenge() {
	ctx := context.Background()

	s.Require().NoError(s.repo.SaveChallenge(ctx, &SaveChallengeInput{
		UserID:    "user-1",
		Challenge: &models.Challenge{ID: "c-1", Title: "Read", DurationMinutes: 30},
	}))

	s.Require().NoError(s.repo.DeleteChallenge(ctx, &DeleteChallengeInput{UserID: "user-1", ChallengeID: "c-1"}))

	// Deleting again is a no-op
	s.Require().NoError(s.repo.DeleteChallenge(ctx, &DeleteChallengeInput{UserID: "user-1", ChallengeID: "c-1"}))

	out, err := s.repo.ListChallenges(ctx, &ListChallengesInput{UserID: "user-1"})
	s.Require().NoError(err)
	s.Empty(out.Challenges)
}

func (s *RedisRepositoryTestSuite) TestDeleteAllChallenges() {
	ctx := context.Background()

	for _, id := range []string{"c-1", "c-2"} {
		s.Require().NoError(s.repo.SaveChallenge(ctx, &SaveChallengeInput{
			UserID:    "user-1",
			Challenge: &models.Challenge{ID: id, Title: id, DurationMinutes: 5},
		}))
	}

	s.Require().NoError(s.repo.DeleteAllChallenges(ctx, &DeleteAllChallengesInput{UserID: "user-1"}))
	s.False(s.mr.Exists("challenges:user-1"))
}

func (s *RedisRepositoryTestSuite) TestInvalidInput() {
	ctx := context.Background()

	_, err := s.repo.ListChallenges(ctx, &ListChallengesInput{})
	s.Error(err)
	s.Error(s.repo.SaveChallenge(ctx, &SaveChallengeInput{UserID: "user-1", Challenge: &models.Challenge{}}))
	s.Error(s.repo.DeleteChallenge(ctx, &DeleteChallengeInput{UserID: "user-1"}))
}
