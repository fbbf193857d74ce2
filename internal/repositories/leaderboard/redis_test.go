package leaderboard

import (
	"context"
	"sort"
	"testing"

	"github.com/KirkDiggler/unplugged/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
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
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestUpsertAndList() {
	ctx := context.Background()

	s.Require().NoError(s.repo.UpsertEntry(ctx, &UpsertEntryInput{Entry: &models.LeaderboardEntry{
		UserID: "user-1", Nickname: "ana", TotalRawTime: 600, TotalPoints: 10, Rank: 4,
	}}))
	s.Require().NoError(s.repo.UpsertEntry(ctx, &UpsertEntryInput{Entry: &models.LeaderboardEntry{
		UserID: "user-2", Nickname: "bo", TotalRawTime: 60, TotalPoints: 1,
	}}))
	s.Require().NoError(s.repo.UpsertEntry(ctx, &UpsertEntryInput{Entry: &models.LeaderboardEntry{
		UserID: "user-1", Nickname: "ana", TotalRawTime: 720, TotalPoints: 12,
	}}))

	out, err := s.repo.ListEntries(ctx)
	s.Require().NoError(err)
	s.Require().Len(out.Entries, 2)

	sort.Slice(out.Entries, func(i, j int) bool { return out.Entries[i].UserID < out.Entries[j].UserID })

	s.Equal(&models.LeaderboardEntry{UserID: "user-1", Nickname: "ana", TotalRawTime: 720, TotalPoints: 12}, out.Entries[0])
	s.Equal(&models.LeaderboardEntry{UserID: "user-2", Nickname: "bo", TotalRawTime: 60, TotalPoints: 1}, out.Entries[1])
}

func (s *RedisRepositoryTestSuite) TestRankIsNotPersisted() {
	ctx := context.Background()

	s.Require().NoError(s.repo.UpsertEntry(ctx, &UpsertEntryInput{Entry: &models.LeaderboardEntry{
		UserID: "user-1", Nickname: "ana", TotalRawTime: 600, TotalPoints: 10, Rank: 1,
	}}))

	stored := s.mr.HGet("leaderboard", "user-1")
	s.JSONEq(`{"nickname":"ana","totalRawTime":600,"totalPoints":10}`, stored)
}

func (s *RedisRepositoryTestSuite) TestDeleteEntry() {
	ctx := context.Background()

	s.Require().NoError(s.repo.UpsertEntry(ctx, &UpsertEntryInput{Entry: &models.LeaderboardEntry{UserID: "user-1", Nickname: "ana"}}))
	s.Require().NoError(s.repo.DeleteEntry(ctx, &DeleteEntryInput{UserID: "user-1"}))

	out, err := s.repo.ListEntries(ctx)
	s.Require().NoError(err)
	s.Empty(out.Entries)
}

func (s *RedisRepositoryTestSuite) TestInvalidInput() {
	ctx := context.Background()

	s.Error(s.repo.UpsertEntry(ctx, &UpsertEntryInput{Entry: &models.LeaderboardEntry{}}))
	s.Error(s.repo.DeleteEntry(ctx, &DeleteEntryInput{}))
}
