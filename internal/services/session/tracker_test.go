package session

import (
	"testing"
	"time"

	"github.com/KirkDiggler/unplugged/internal/common/clock"
	uuidMocks "github.com/KirkDiggler/unplugged/internal/common/uuid/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type TrackerTestSuite struct {
	suite.Suite
	mockCtrl *gomock.Controller
	mockUUID *uuidMocks.MockUUID
	clock    *clock.Fixed
	tracker  *Tracker

	testTime      time.Time
	testSessionID string
}

func (s *TrackerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)

	s.testTime = time.Date(2025, 4, 11, 12, 0, 0, 0, time.UTC)
	s.testSessionID = "test-session-id"
	s.clock = clock.NewFixed(s.testTime)

	s.mockUUID.EXPECT().NewUUID().Return(s.testSessionID).AnyTimes()

	tracker, err := New(&Config{
		Clock:         s.clock,
		UUIDGenerator: s.mockUUID,
		TickInterval:  5 * time.Millisecond,
	})
	s.Require().NoError(err)
	s.tracker = tracker
}

func (s *TrackerTestSuite) TearDownTest() {
	s.tracker.Stop()
	s.mockCtrl.Finish()
}

func TestTrackerTestSuite(t *testing.T) {
	suite.Run(t, new(TrackerTestSuite))
}

func (s *TrackerTestSuite) TestNewValidation() {
	_, err := New(nil)
	s.Equal(ErrNilConfig, err)

	_, err = New(&Config{UUIDGenerator: s.mockUUID})
	s.Equal(ErrNilClock, err)

	_, err = New(&Config{Clock: s.clock})
	s.Equal(ErrNilUUIDGenerator, err)
}

func (s *TrackerTestSuite) TestStartsIdle() {
	s.Equal(Idle{}, s.tracker.State())
	s.Zero(s.tracker.Elapsed())
	ticks, unsubscribe := s.tracker.Ticks()
	s.Nil(ticks)
	unsubscribe()
}

func (s *TrackerTestSuite) TestStart() {
	session, err := s.tracker.Start(&StartInput{Strict: true, ChallengeID: "c-1"})
	s.Require().NoError(err)

	s.Equal(s.testSessionID, session.ID)
	s.Equal(s.testTime, session.StartTime)
	s.Nil(session.EndTime)
	s.True(session.Strict)
	s.Equal("c-1", session.ChallengeID)

	state, ok := s.tracker.State().(Active)
	s.Require().True(ok)
	s.Equal(s.testSessionID, state.Session.ID)
	s.False(state.Interrupted)
}

func (s *TrackerTestSuite) TestStartWhileActive() {
	_, err := s.tracker.Start(&StartInput{})
	s.Require().NoError(err)

	_, err = s.tracker.Start(&StartInput{})
	s.Equal(ErrSessionActive, err)
}

func (s *TrackerTestSuite) TestStopWhenIdleIsNoop() {
	out, ok := s.tracker.Stop()
	s.False(ok)
	s.Nil(out)
}

func (s *TrackerTestSuite) TestStop() {
	_, err := s.tracker.Start(nil)
	s.Require().NoError(err)

	ticks, unsubscribe := s.tracker.Ticks()
	s.Require().NotNil(ticks)
	defer unsubscribe()

	s.clock.Advance(125 * time.Second)

	out, ok := s.tracker.Stop()
	s.Require().True(ok)
	s.Equal(125*time.Second, out.Duration)
	s.False(out.Failed)
	s.Require().NotNil(out.Session.EndTime)
	s.Equal(s.testTime.Add(125*time.Second), *out.Session.EndTime)

	s.Equal(Idle{}, s.tracker.State())

	// The tick channel is closed by the time Stop returns
	for range ticks {
	}

	_, ok = s.tracker.Stop()
	s.False(ok)
}

func (s *TrackerTestSuite) TestElapsedIsMonotonic() {
	_, err := s.tracker.Start(nil)
	s.Require().NoError(err)

	previous := s.tracker.Elapsed()
	for i := 0; i < 5; i++ {
		s.clock.Advance(time.Duration(i) * 700 * time.Millisecond)
		current := s.tracker.Elapsed()
		s.GreaterOrEqual(current, previous)
		previous = current
	}
}

func (s *TrackerTestSuite) TestTicksPublishElapsed() {
	_, err := s.tracker.Start(nil)
	s.Require().NoError(err)

	ticks, unsubscribe := s.tracker.Ticks()
	defer unsubscribe()
	s.clock.Advance(3 * time.Second)

	// An earlier tick may still be buffered; wait for one taken after the advance
	s.Eventually(func() bool {
		select {
		case elapsed := <-ticks:
			return elapsed == 3*time.Second
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func (s *TrackerTestSuite) TestEverySubscriberSeesTicks() {
	_, err := s.tracker.Start(nil)
	s.Require().NoError(err)

	first, unsubscribeFirst := s.tracker.Ticks()
	second, unsubscribeSecond := s.tracker.Ticks()
	defer unsubscribeSecond()
	s.Equal(2, s.tracker.Subscribers())

	s.clock.Advance(5 * time.Second)

	for _, ticks := range []<-chan time.Duration{first, second} {
		s.Eventually(func() bool {
			select {
			case elapsed := <-ticks:
				return elapsed == 5*time.Second
			default:
				return false
			}
		}, time.Second, 5*time.Millisecond)
	}

	// Leaving closes only that subscriber's stream
	unsubscribeFirst()
	unsubscribeFirst()
	s.Equal(1, s.tracker.Subscribers())
	for range first {
	}

	_, ok := s.tracker.Stop()
	s.Require().True(ok)
	for range second {
	}
	s.Zero(s.tracker.Subscribers())
}

func (s *TrackerTestSuite) TestBackgroundIgnoredForRelaxedSession() {
	_, err := s.tracker.Start(&StartInput{Strict: false})
	s.Require().NoError(err)

	s.False(s.tracker.Background())

	out, ok := s.tracker.Foreground()
	s.False(ok)
	s.Nil(out)

	_, active := s.tracker.State().(Active)
	s.True(active)
}

func (s *TrackerTestSuite) TestStrictSessionFailsAfterBackground() {
	_, err := s.tracker.Start(&StartInput{Strict: true, ChallengeID: "c-1"})
	s.Require().NoError(err)

	s.clock.Advance(10 * time.Minute)
	s.True(s.tracker.Background())

	state, ok := s.tracker.State().(Active)
	s.Require().True(ok)
	s.True(state.Interrupted)

	s.clock.Advance(30 * time.Second)

	out, ok := s.tracker.Foreground()
	s.Require().True(ok)
	s.True(out.Failed)
	s.Equal("c-1", out.Session.ChallengeID)
	s.Equal(10*time.Minute+30*time.Second, out.Duration)

	s.Equal(Idle{}, s.tracker.State())
}

func (s *TrackerTestSuite) TestForegroundWithoutBackgroundIsNoop() {
	_, err := s.tracker.Start(&StartInput{Strict: true})
	s.Require().NoError(err)

	_, ok := s.tracker.Foreground()
	s.False(ok)

	_, active := s.tracker.State().(Active)
	s.True(active)
}

func (s *TrackerTestSuite) TestExplicitStopOfInterruptedSessionSucceeds() {
	_, err := s.tracker.Start(&StartInput{Strict: true})
	s.Require().NoError(err)

	s.tracker.Background()

	out, ok := s.tracker.Stop()
	s.Require().True(ok)
	s.False(out.Failed)
}

func (s *TrackerTestSuite) TestStateReturnsCopy() {
	_, err := s.tracker.Start(nil)
	s.Require().NoError(err)

	state := s.tracker.State().(Active)
	state.Session.ID = "mutated"

	again := s.tracker.State().(Active)
	s.Equal(s.testSessionID, again.Session.ID)
}
