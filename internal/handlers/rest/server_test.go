package rest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/KirkDiggler/unplugged/internal/auth"
	authMocks "github.com/KirkDiggler/unplugged/internal/auth/mocks"
	"github.com/KirkDiggler/unplugged/internal/common/clock"
	"github.com/KirkDiggler/unplugged/internal/common/uuid"
	"github.com/KirkDiggler/unplugged/internal/metrics"
	"github.com/KirkDiggler/unplugged/internal/models"
	challengeRepo "github.com/KirkDiggler/unplugged/internal/repositories/challenge"
	"github.com/KirkDiggler/unplugged/internal/repositories/entitlement"
	journalRepo "github.com/KirkDiggler/unplugged/internal/repositories/journal"
	leaderboardRepo "github.com/KirkDiggler/unplugged/internal/repositories/leaderboard"
	publicRepo "github.com/KirkDiggler/unplugged/internal/repositories/public_challenge"
	statsRepo "github.com/KirkDiggler/unplugged/internal/repositories/stats"
	"github.com/KirkDiggler/unplugged/internal/services/appstate"
	appstateMocks "github.com/KirkDiggler/unplugged/internal/services/appstate/mocks"
	"github.com/KirkDiggler/unplugged/internal/services/messaging"
	"github.com/KirkDiggler/unplugged/internal/services/stats"
	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ServerTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	ctx    context.Context

	mockCtrl     *gomock.Controller
	mockVerifier *authMocks.MockTokenVerifier
	mockAccounts *appstateMocks.MockAccountDeleter

	clock        *clock.Fixed
	reg          *prometheus.Registry
	metrics      *metrics.Metrics
	entitlements entitlement.Repository
	registry     *appstate.Registry
	messaging    messaging.Service
	tokens       map[string]*auth.Token
	server       *Server
	handler      http.Handler
}

func (s *ServerTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	s.ctx = context.Background()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockVerifier = authMocks.NewMockTokenVerifier(s.mockCtrl)
	s.mockAccounts = appstateMocks.NewMockAccountDeleter(s.mockCtrl)

	s.clock = clock.NewFixed(time.Date(2025, 4, 9, 12, 0, 0, 0, time.UTC))
	s.reg = prometheus.NewRegistry()
	s.metrics, err = metrics.New(s.reg)
	s.Require().NoError(err)

	statsStore, err := statsRepo.NewRedis(&statsRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	challengeStore, err := challengeRepo.NewRedis(&challengeRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	journalStore, err := journalRepo.NewRedis(&journalRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	publicStore, err := publicRepo.NewRedis(&publicRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	leaderboardStore, err := leaderboardRepo.NewRedis(&leaderboardRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.entitlements, err = entitlement.NewRedis(&entitlement.Config{RedisClient: s.client})
	s.Require().NoError(err)

	s.registry, err = appstate.NewRegistry(&appstate.Dependencies{
		StatsRepo:       statsStore,
		ChallengeRepo:   challengeStore,
		JournalRepo:     journalStore,
		PublicStore:     publicStore,
		LeaderboardRepo: leaderboardStore,
		Entitlements:    s.entitlements,
		Accounts:        s.mockAccounts,
		Clock:           s.clock,
		UUIDGenerator:   uuid.New(),
		Saver:           appstate.NewSaver(&appstate.SaverConfig{Timeout: time.Second, Metrics: s.metrics}),
		Metrics:         s.metrics,
		Engine:          stats.New(&stats.Config{Location: time.UTC}),
		TickInterval:    10 * time.Millisecond,
	})
	s.Require().NoError(err)

	s.messaging, err = messaging.NewService(&messaging.ServiceConfig{Seed: 7})
	s.Require().NoError(err)

	now := s.clock.Now()
	s.tokens = map[string]*auth.Token{
		"user-token":  {UserID: "user-1", Name: "Ada", AuthTime: now},
		"other-token": {UserID: "user-2", Name: "Grace", AuthTime: now},
		"stale-token": {UserID: "user-1", Name: "Ada", AuthTime: now.Add(-time.Hour)},
	}
	s.mockVerifier.EXPECT().Verify(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, idToken string) (*auth.Token, error) {
			token, ok := s.tokens[idToken]
			if !ok {
				return nil, auth.ErrInvalidToken
			}
			return token, nil
		}).AnyTimes()

	s.server = s.newServer(1000, 1000, nil)
	s.handler = s.server.Handler()
}

func (s *ServerTestSuite) TearDownTest() {
	s.registry.Close()
	s.mockCtrl.Finish()
	s.client.Close()
	s.mr.Close()
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) newServer(limit float64, burst int, health func(context.Context) error) *Server {
	server, err := New(&Config{
		Registry:    s.registry,
		Verifier:    s.mockVerifier,
		Messaging:   s.messaging,
		Metrics:     s.metrics,
		Gatherer:    s.reg,
		MetricsUser: "prom",
		MetricsPass: "secret",
		RateLimit:   limit,
		RateBurst:   burst,
		Health:      health,
	})
	s.Require().NoError(err)
	return server
}

func (s *ServerTestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) decodeBody(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v))
}

func (s *ServerTestSuite) errorType(rec *httptest.ResponseRecorder) string {
	var resp errorResponse
	s.decodeBody(rec, &resp)
	s.NotEmpty(resp.Message)
	return resp.Error
}

func (s *ServerTestSuite) TestNewValidation() {
	_, err := New(nil)
	s.Error(err)

	_, err = New(&Config{Registry: s.registry, Messaging: s.messaging})
	s.Error(err)
}

func (s *ServerTestSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, rec.Code)

	s.handler = s.newServer(1000, 1000, func(context.Context) error {
		return errors.New("connection refused")
	}).Handler()

	rec = s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusServiceUnavailable, rec.Code)
}

func (s *ServerTestSuite) TestRequiresAuth() {
	rec := s.do(http.MethodGet, "/api/v1/stats", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/stats", "forged", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set("Authorization", "user-token")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)

	s.Equal(float64(3), counterValue(s.reg, "auth_rejections_total"))
}

func (s *ServerTestSuite) TestSessionLifecycle() {
	rec := s.do(http.MethodPost, "/api/v1/session/start", "user-token", nil)
	s.Require().Equal(http.StatusCreated, rec.Code)

	var started sessionResponse
	s.decodeBody(rec, &started)
	s.True(started.Active)
	s.NotEmpty(started.ID)

	rec = s.do(http.MethodPost, "/api/v1/session/start", "user-token", nil)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal(messaging.ErrorTypeSessionActive, s.errorType(rec))

	s.clock.Advance(125 * time.Second)

	rec = s.do(http.MethodGet, "/api/v1/session", "user-token", nil)
	var status sessionResponse
	s.decodeBody(rec, &status)
	s.Equal(float64(125), status.ElapsedSeconds)

	rec = s.do(http.MethodPost, "/api/v1/session/stop", "user-token", stopSessionRequest{Journal: true})
	s.Require().Equal(http.StatusOK, rec.Code)

	var stopped stopSessionResponse
	s.decodeBody(rec, &stopped)
	s.True(stopped.Stopped)
	s.Equal(2, stopped.PointsEarned)
	s.Equal(float64(125), stopped.DurationSeconds)
	s.True(stopped.JournalStaged)
	s.Equal("Session Complete", stopped.Title)

	rec = s.do(http.MethodPost, "/api/v1/session/stop", "user-token", nil)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal(messaging.ErrorTypeNoSession, s.errorType(rec))

	rec = s.do(http.MethodGet, "/api/v1/journal", "user-token", nil)
	var journal journalResponse
	s.decodeBody(rec, &journal)
	s.Require().NotNil(journal.Pending)
	s.Equal(float64(125), journal.Pending.DurationSeconds)

	rec = s.do(http.MethodPost, "/api/v1/journal", "user-token", journalRequest{Thoughts: "Quiet and good"})
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/journal", "user-token", journalRequest{Thoughts: "again"})
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/journal", "user-token", nil)
	journal = journalResponse{}
	s.decodeBody(rec, &journal)
	s.Len(journal.Entries, 1)
	s.Nil(journal.Pending)

	rec = s.do(http.MethodGet, "/api/v1/stats", "user-token", nil)
	var st statsResponse
	s.decodeBody(rec, &st)
	s.Equal(2, st.Stats.TotalPoints)
	s.Equal(float64(125), st.Stats.TotalRawTime)
	s.Equal(2, st.Goal.TodayMinutes)
	s.NotEmpty(st.StreakMessage)
}

func (s *ServerTestSuite) TestStrictSessionFailure() {
	rec := s.do(http.MethodPost, "/api/v1/session/start", "user-token", startSessionRequest{Strict: true})
	s.Require().Equal(http.StatusCreated, rec.Code)

	s.clock.Advance(5 * time.Minute)

	rec = s.do(http.MethodPost, "/api/v1/session/background", "user-token", nil)
	var bg map[string]bool
	s.decodeBody(rec, &bg)
	s.True(bg["interrupted"])

	rec = s.do(http.MethodPost, "/api/v1/session/foreground", "user-token", nil)
	var failed stopSessionResponse
	s.decodeBody(rec, &failed)
	s.True(failed.Stopped)
	s.True(failed.Failed)
	s.Equal(0, failed.PointsEarned)
	s.Equal("Challenge Failed", failed.Title)

	rec = s.do(http.MethodGet, "/api/v1/stats", "user-token", nil)
	var st statsResponse
	s.decodeBody(rec, &st)
	s.Equal(0, st.Stats.TotalPoints)
}

func (s *ServerTestSuite) TestChallengeFlow() {
	rec := s.do(http.MethodPost, "/api/v1/challenges", "user-token", addChallengeRequest{Title: "", DurationMinutes: 10})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(messaging.ErrorTypeInvalidInput, s.errorType(rec))

	rec = s.do(http.MethodPost, "/api/v1/challenges", "user-token", addChallengeRequest{Title: "Phone in a drawer", DurationMinutes: 0})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/challenges", "user-token", addChallengeRequest{Title: "Phone in a drawer", DurationMinutes: 10})
	s.Require().Equal(http.StatusCreated, rec.Code)
	var created models.Challenge
	s.decodeBody(rec, &created)

	rec = s.do(http.MethodGet, "/api/v1/challenges", "user-token", nil)
	var list []*models.Challenge
	s.decodeBody(rec, &list)
	s.Len(list, 1)

	rec = s.do(http.MethodPost, "/api/v1/challenges/"+created.ID+"/complete", "user-token", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var completion completionResponse
	s.decodeBody(rec, &completion)
	s.Equal(20, completion.Bonus)
	s.True(completion.Challenge.IsCompleted)
	s.Equal("Challenge Complete", completion.Title)

	rec = s.do(http.MethodPost, "/api/v1/challenges/missing/complete", "user-token", nil)
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/challenges/missing/open", "user-token", nil)
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/challenges/"+created.ID, "user-token", nil)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/challenges", "user-token", nil)
	list = nil
	s.decodeBody(rec, &list)
	s.Empty(list)
}

func (s *ServerTestSuite) TestShareRequiresPremium() {
	rec := s.do(http.MethodPost, "/api/v1/challenges", "user-token", addChallengeRequest{Title: "Analog morning", DurationMinutes: 30})
	s.Require().Equal(http.StatusCreated, rec.Code)
	var created models.Challenge
	s.decodeBody(rec, &created)

	rec = s.do(http.MethodPost, "/api/v1/challenges/"+created.ID+"/share", "user-token", nil)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal(messaging.ErrorTypePremium, s.errorType(rec))

	s.Require().NoError(s.entitlements.Grant(s.ctx, "user-1"))

	rec = s.do(http.MethodPost, "/api/v1/challenges/"+created.ID+"/share", "user-token", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var shared shareResponse
	s.decodeBody(rec, &shared)
	s.True(shared.Created)
	s.True(shared.Challenge.IsPublic)

	rec = s.do(http.MethodGet, "/api/v1/challenges/public?limit=10", "other-token", nil)
	var public []*models.Challenge
	s.decodeBody(rec, &public)
	s.Require().Len(public, 1)

	rec = s.do(http.MethodGet, "/api/v1/challenges/"+created.ID+"/open", "other-token", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var opened openResponse
	s.decodeBody(rec, &opened)
	s.False(opened.Personal)

	rec = s.do(http.MethodPost, "/api/v1/challenges/"+created.ID+"/complete", "other-token", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var completion completionResponse
	s.decodeBody(rec, &completion)
	s.True(completion.FirstCompletion)
	s.Equal(2, completion.UsersCompletedCount)
}

func (s *ServerTestSuite) TestDailyGoal() {
	rec := s.do(http.MethodPut, "/api/v1/stats/goal", "user-token", map[string]int{})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, "/api/v1/stats/goal", "user-token", map[string]int{"minutes": 2000})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, "/api/v1/stats/goal", "user-token", map[string]int{"minutes": 15})
	s.Require().Equal(http.StatusOK, rec.Code)
	var st statsResponse
	s.decodeBody(rec, &st)
	s.Equal(15, st.Goal.GoalMinutes)
}

func (s *ServerTestSuite) TestLeaderboard() {
	rec := s.do(http.MethodGet, "/api/v1/leaderboard?limit=0", "user-token", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	s.do(http.MethodPost, "/api/v1/session/start", "user-token", nil)
	s.clock.Advance(3 * time.Minute)
	s.do(http.MethodPost, "/api/v1/session/stop", "user-token", nil)

	m, err := s.registry.Get(s.ctx, "user-1", "")
	s.Require().NoError(err)
	s.Require().NoError(m.Flush(s.ctx))

	rec = s.do(http.MethodGet, "/api/v1/leaderboard", "user-token", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var board leaderboardResponse
	s.decodeBody(rec, &board)
	s.Require().NotNil(board.Self)
	s.Equal(1, board.Self.Rank)
	s.Equal("Ada", board.Self.Nickname)
	s.Equal(3, board.Self.TotalPoints)
}

func (s *ServerTestSuite) TestDeleteAccount() {
	rec := s.do(http.MethodDelete, "/api/v1/account", "stale-token", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(messaging.ErrorTypeReauthRequired, s.errorType(rec))

	s.mockAccounts.EXPECT().DeleteUser(gomock.Any(), "user-1").Return(nil)

	rec = s.do(http.MethodDelete, "/api/v1/account", "user-token", nil)
	s.Equal(http.StatusNoContent, rec.Code)
	s.Equal(0, s.registry.Len())
}

func (s *ServerTestSuite) TestRateLimit() {
	s.handler = s.newServer(0.001, 1, nil).Handler()

	s.Equal(http.StatusOK, s.do(http.MethodGet, "/health", "", nil).Code)
	s.Equal(http.StatusTooManyRequests, s.do(http.MethodGet, "/health", "", nil).Code)
}

func (s *ServerTestSuite) healthFrom(forwardedFor string) int {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Forwarded-For", forwardedFor)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec.Code
}

func (s *ServerTestSuite) TestRateLimitIgnoresForwardedForByDefault() {
	s.handler = s.newServer(0.001, 1, nil).Handler()

	s.Equal(http.StatusOK, s.healthFrom("203.0.113.1"))
	s.Equal(http.StatusTooManyRequests, s.healthFrom("203.0.113.2"))
}

func (s *ServerTestSuite) TestRateLimitTrustsConfiguredProxy() {
	server, err := New(&Config{
		Registry:   s.registry,
		Verifier:   s.mockVerifier,
		Messaging:  s.messaging,
		RateLimit:  0.001,
		RateBurst:  1,
		TrustProxy: true,
	})
	s.Require().NoError(err)
	s.handler = server.Handler()

	s.Equal(http.StatusOK, s.healthFrom("203.0.113.1"))
	s.Equal(http.StatusOK, s.healthFrom("203.0.113.2"))
	s.Equal(http.StatusTooManyRequests, s.healthFrom("203.0.113.1"))
}

func (s *ServerTestSuite) TestShutdownEndsOpenStreams() {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	s.Require().NoError(err)

	runCtx, stop := context.WithCancel(s.ctx)
	defer stop()

	done := make(chan error, 1)
	go func() {
		done <- s.server.Serve(runCtx, ln)
	}()

	req, err := http.NewRequest(http.MethodGet, "http://"+ln.Addr().String()+"/api/v1/challenges/public/stream", nil)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer user-token")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	s.Require().NoError(err)
	s.Equal("event: challenges\n", line)

	stop()

	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(5 * time.Second):
		s.Fail("shutdown waited on an open stream")
	}
}

func (s *ServerTestSuite) TestMetricsBasicAuth() {
	rec := s.do(http.MethodGet, "/metrics", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.SetBasicAuth("prom", "secret")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "http_requests_total")
}

func (s *ServerTestSuite) TestPublicStream() {
	srv := httptest.NewServer(s.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/challenges/public/stream", nil)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer user-token")

	resp, err := srv.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	s.Require().NoError(err)
	s.Equal("event: challenges\n", line)

	line, err = reader.ReadString('\n')
	s.Require().NoError(err)
	s.True(strings.HasPrefix(line, "data: "))
}

func (s *ServerTestSuite) TestSessionStream() {
	rec := s.do(http.MethodGet, "/api/v1/session/stream", "user-token", nil)
	s.Equal(http.StatusConflict, rec.Code)

	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/v1/session/start", "user-token", nil).Code)

	srv := httptest.NewServer(s.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/session/stream", nil)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer user-token")

	resp, err := srv.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	s.Require().NoError(err)
	s.Equal("event: tick\n", line)
}

// counterValue sums every series of a counter family
func counterValue(reg *prometheus.Registry, name string) float64 {
	families, err := reg.Gather()
	if err != nil {
		return 0
	}

	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		var total float64
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		return total
	}
	return 0
}
