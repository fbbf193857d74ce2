package appstate

import (
	"context"
	"time"

	"github.com/KirkDiggler/unplugged/internal/models"
	statsRepo "github.com/KirkDiggler/unplugged/internal/repositories/stats"
	statsMocks "github.com/KirkDiggler/unplugged/internal/repositories/stats/mocks"
	"go.uber.org/mock/gomock"
)

func (s *ManagerTestSuite) TestRegistryReturnsOneManagerPerUser() {
	registry, err := NewRegistry(&s.deps)
	s.Require().NoError(err)

	first, err := registry.Get(s.ctx, "user-a", "alpha")
	s.Require().NoError(err)

	again, err := registry.Get(s.ctx, "user-a", "")
	s.Require().NoError(err)
	s.Same(first, again)
	s.Equal("alpha", again.Nickname())

	other, err := registry.Get(s.ctx, "user-b", "beta")
	s.Require().NoError(err)
	s.NotSame(first, other)
	s.Equal(2, registry.Len())

	registry.Remove("user-a")
	s.Equal(1, registry.Len())

	reloaded, err := registry.Get(s.ctx, "user-a", "alpha")
	s.Require().NoError(err)
	s.NotSame(first, reloaded)
	registry.Remove("user-a")
	registry.Remove("user-b")
}

func (s *ManagerTestSuite) TestRegistryValidation() {
	_, err := NewRegistry(nil)
	s.Equal(ErrNilConfig, err)

	deps := s.deps
	deps.StatsRepo = nil
	_, err = NewRegistry(&deps)
	s.Equal(ErrNilStatsRepo, err)

	registry, err := NewRegistry(&s.deps)
	s.Require().NoError(err)
	_, err = registry.Get(s.ctx, "", "")
	s.Equal(ErrEmptyUserID, err)
}

func (s *ManagerTestSuite) TestRegistryDeleteAccountForgetsManager() {
	registry, err := NewRegistry(&s.deps)
	s.Require().NoError(err)

	m, err := registry.Get(s.ctx, "user-a", "alpha")
	s.Require().NoError(err)
	_, err = m.StartSession(s.ctx, nil)
	s.Require().NoError(err)
	s.clock.Advance(3 * time.Minute)
	_, err = m.StopSession(s.ctx, false)
	s.Require().NoError(err)

	s.Equal(ErrReauthRequired, registry.DeleteAccount(s.ctx, "user-a", s.clock.Now().Add(-time.Hour)))
	s.Equal(1, registry.Len())

	s.mockAccounts.EXPECT().DeleteUser(gomock.Any(), "user-a").Return(nil)
	s.Require().NoError(registry.DeleteAccount(s.ctx, "user-a", s.clock.Now()))
	s.Equal(0, registry.Len())

	_, err = s.statsRepo.GetStats(s.ctx, &statsRepo.GetStatsInput{UserID: "user-a"})
	s.ErrorIs(err, statsRepo.ErrStatsNotFound)
}

func (s *ManagerTestSuite) TestRegistrySlowLoadDoesNotBlockOtherUsers() {
	started := make(chan struct{}, 1)
	release := make(chan struct{})

	mockStats := statsMocks.NewMockRepository(s.mockCtrl)
	mockStats.EXPECT().GetStats(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, input *statsRepo.GetStatsInput) (*models.UserStats, error) {
			if input.UserID == "user-slow" {
				select {
				case started <- struct{}{}:
				default:
				}
				<-release
			}
			return nil, statsRepo.ErrStatsNotFound
		}).AnyTimes()

	deps := s.deps
	deps.StatsRepo = mockStats
	registry, err := NewRegistry(&deps)
	s.Require().NoError(err)

	slow := make(chan *Manager, 2)
	for i := 0; i < 2; i++ {
		go func() {
			m, err := registry.Get(s.ctx, "user-slow", "slow")
			if err != nil {
				m = nil
			}
			slow <- m
		}()
	}
	<-started

	fast := make(chan error, 1)
	go func() {
		_, err := registry.Get(s.ctx, "user-fast", "fast")
		fast <- err
	}()

	select {
	case err := <-fast:
		s.NoError(err)
	case <-time.After(2 * time.Second):
		s.Fail("Get for another user waited on a slow load")
	}
	s.Equal(1, registry.Len())

	close(release)
	first, second := <-slow, <-slow
	s.Require().NotNil(first)
	s.Same(first, second)
	s.Equal(2, registry.Len())

	registry.Remove("user-slow")
	registry.Remove("user-fast")
}

func (s *ManagerTestSuite) TestRegistryEvictsIdleUsers() {
	registry, err := NewRegistry(&s.deps)
	s.Require().NoError(err)

	_, err = registry.Get(s.ctx, "user-idle", "idle")
	s.Require().NoError(err)

	focused, err := registry.Get(s.ctx, "user-focused", "focused")
	s.Require().NoError(err)
	_, err = focused.StartSession(s.ctx, nil)
	s.Require().NoError(err)

	journaling, err := registry.Get(s.ctx, "user-journal", "journal")
	s.Require().NoError(err)
	_, err = journaling.StartSession(s.ctx, nil)
	s.Require().NoError(err)
	_, err = journaling.StopSession(s.ctx, true)
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)

	_, err = registry.Get(s.ctx, "user-recent", "recent")
	s.Require().NoError(err)

	s.Equal(1, registry.EvictIdle(30*time.Minute))
	s.Equal(3, registry.Len())

	reloaded, err := registry.Get(s.ctx, "user-focused", "")
	s.Require().NoError(err)
	s.Same(focused, reloaded)

	_, err = registry.Get(s.ctx, "user-idle", "")
	s.Require().NoError(err)
	s.Equal(4, registry.Len())

	registry.Close()
	_, err = registry.Get(s.ctx, "user-late", "")
	s.Equal(ErrRegistryClosed, err)
}
