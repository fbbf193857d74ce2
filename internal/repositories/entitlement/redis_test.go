package entitlement

import (
	"context"
	"testing"

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

func (s *RedisRepositoryTestSuite) TestGrantAndRevoke() {
	ctx := context.Background()

	ok, err := s.repo.IsEntitled(ctx, "user-1")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.repo.Grant(ctx, "user-1"))
	s.Require().NoError(s.repo.Grant(ctx, "user-1"))

	ok, err = s.repo.IsEntitled(ctx, "user-1")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.repo.IsEntitled(ctx, "user-2")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.repo.Revoke(ctx, "user-1"))

	ok, err = s.repo.IsEntitled(ctx, "user-1")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisRepositoryTestSuite) TestEmptyUserID() {
	_, err := s.repo.IsEntitled(context.Background(), "")
	s.Error(err)
	s.Error(s.repo.Grant(context.Background(), ""))
}

func (s *RedisRepositoryTestSuite) TestNewRedisValidation() {
	_, err := NewRedis(nil)
	s.Error(err)

	_, err = NewRedis(&Config{})
	s.Error(err)
}
