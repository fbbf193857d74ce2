package journal

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

func (s *RedisRepositoryTestSuite) saveEntries(userID string, n int) {
	for i := 0; i < n; i++ {
		s.Require().NoError(s.repo.SaveEntry(context.Background(), &SaveEntryInput{
			UserID: userID,
			Entry: &models.JournalEntry{
				ID:       string(rune('a' + i)),
				Date:     s.testNow.Add(time.Duration(i) * time.Hour),
				Duration: float64(60 * (i + 1)),
				Thoughts: "entry",
			},
		}))
	}
}

func (s *RedisRepositoryTestSuite) TestListNewestFirst() {
	s.saveEntries("user-1", 3)

	out, err := s.repo.ListEntries(context.Background(), &ListEntriesInput{UserID: "user-1"})
	s.Require().NoError(err)
	s.Require().Len(out.Entries, 3)

	s.Equal("c", out.Entries[0].ID)
	s.Equal("b", out.Entries[1].ID)
	s.Equal("a", out.Entries[2].ID)
	s.Equal(180.0, out.Entries[0].Duration)
	s.True(out.Entries[0].Date.Equal(s.testNow.Add(2 * time.Hour)))
}

func (s *RedisRepositoryTestSuite) TestListLimit() {
	s.saveEntries("user-1", 3)

	out, err := s.repo.ListEntries(context.Background(), &ListEntriesInput{UserID: "user-1", Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(out.Entries, 2)
	s.Equal("c", out.Entries[0].ID)
}

func (s *RedisRepositoryTestSuite) TestListEmpty() {
	out, err := s.repo.ListEntries(context.Background(), &ListEntriesInput{UserID: "user-1"})
	s.Require().NoError(err)
	s.Empty(out.Entries)
}

func (s *RedisRepositoryTestSuite) TestDeleteAllEntries() {
	s.saveEntries("user-1", 2)
	s.saveEntries("user-2", 1)

	s.Require().NoError(s.repo.DeleteAllEntries(context.Background(), &DeleteAllEntriesInput{UserID: "user-1"}))

	out, err := s.repo.ListEntries(context.Background(), &ListEntriesInput{UserID: "user-1"})
	s.Require().NoError(err)
	s.Empty(out.Entries)

	out, err = s.repo.ListEntries(context.Background(), &ListEntriesInput{UserID: "user-2"})
	s.Require().NoError(err)
	s.Len(out.Entries, 1)
}

func (s *RedisRepositoryTestSuite) TestInvalidInput() {
	ctx := context.Background()

	s.Error(s.repo.SaveEntry(ctx, &SaveEntryInput{UserID: "user-1"}))
	s.Error(s.repo.SaveEntry(ctx, &SaveEntryInput{UserID: "user-1", Entry: &models.JournalEntry{}}))

	_, err := s.repo.ListEntries(ctx, &ListEntriesInput{})
	s.Error(err)
}
