// Package rest is the JSON HTTP API used by the mobile client
package rest

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/KirkDiggler/unplugged/internal/auth"
	"github.com/KirkDiggler/unplugged/internal/metrics"
	"github.com/KirkDiggler/unplugged/internal/services/appstate"
	"github.com/KirkDiggler/unplugged/internal/services/messaging"
	"github.com/go-playground/validator/v10"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	DefaultRateLimit = 10
	DefaultRateBurst = 20

	defaultListLimit = 20
	maxListLimit     = 100
	requestTimeout   = 10 * time.Second
)

// Config holds configuration for the HTTP API
type Config struct {
	Registry  *appstate.Registry
	Verifier  auth.TokenVerifier
	Messaging messaging.Service

	// Metrics records request and auth counters; nil disables them
	Metrics *metrics.Metrics

	// Gatherer backs /metrics; nil leaves the route out
	Gatherer    prometheus.Gatherer
	MetricsUser string
	MetricsPass string

	// RateLimit is requests per second per client IP
	RateLimit float64
	RateBurst int

	// TrustProxy honours X-Forwarded-For and X-Real-IP for the client IP
	TrustProxy bool

	// Health reports whether the backing store is reachable
	Health func(ctx context.Context) error
}

// Server serves the API
type Server struct {
	registry    *appstate.Registry
	verifier    auth.TokenVerifier
	messaging   messaging.Service
	metrics     *metrics.Metrics
	gatherer    prometheus.Gatherer
	metricsUser string
	metricsPass string
	health      func(ctx context.Context) error
	limiter     *ipRateLimiter
	trustProxy  bool
	validate    *validator.Validate

	// streams is cancelled on shutdown; request contexts outlive Shutdown
	streams     context.Context
	stopStreams context.CancelFunc
}

// New creates the API server
func New(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Registry == nil {
		return nil, errors.New("registry cannot be nil")
	}

	if cfg.Verifier == nil {
		return nil, errors.New("token verifier cannot be nil")
	}

	if cfg.Messaging == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	limit := cfg.RateLimit
	if limit <= 0 {
		limit = DefaultRateLimit
	}

	burst := cfg.RateBurst
	if burst <= 0 {
		burst = DefaultRateBurst
	}

	health := cfg.Health
	if health == nil {
		health = func(context.Context) error { return nil }
	}

	streams, stopStreams := context.WithCancel(context.Background())

	return &Server{
		registry:    cfg.Registry,
		verifier:    cfg.Verifier,
		messaging:   cfg.Messaging,
		metrics:     cfg.Metrics,
		gatherer:    cfg.Gatherer,
		metricsUser: cfg.MetricsUser,
		metricsPass: cfg.MetricsPass,
		health:      health,
		limiter:     newIPRateLimiter(limit, burst),
		trustProxy:  cfg.TrustProxy,
		validate:    validator.New(),
		streams:     streams,
		stopStreams: stopStreams,
	}, nil
}

// Handler builds the routed, CORS-wrapped handler
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	standard := r.PathPrefix("/").Subrouter()
	standard.Use(s.limiter.middleware)
	standard.Use(s.monitor)

	if s.gatherer != nil {
		standard.Handle("/metrics", s.basicAuth(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
	standard.HandleFunc("/health", s.Health).Methods(http.MethodGet)

	api := standard.PathPrefix("/api/v1").Subrouter()
	api.Use(s.authenticate)

	api.HandleFunc("/session", s.GetSession).Methods(http.MethodGet)
	api.HandleFunc("/session/start", s.StartSession).Methods(http.MethodPost)
	api.HandleFunc("/session/stop", s.StopSession).Methods(http.MethodPost)
	api.HandleFunc("/session/background", s.Background).Methods(http.MethodPost)
	api.HandleFunc("/session/foreground", s.Foreground).Methods(http.MethodPost)
	api.HandleFunc("/session/stream", s.StreamSession).Methods(http.MethodGet)

	api.HandleFunc("/stats", s.GetStats).Methods(http.MethodGet)
	api.HandleFunc("/stats/goal", s.SetDailyGoal).Methods(http.MethodPut)

	api.HandleFunc("/challenges", s.ListChallenges).Methods(http.MethodGet)
	api.HandleFunc("/challenges", s.AddChallenge).Methods(http.MethodPost)
	api.HandleFunc("/challenges/public", s.ListPublicChallenges).Methods(http.MethodGet)
	api.HandleFunc("/challenges/public/stream", s.StreamPublicChallenges).Methods(http.MethodGet)
	api.HandleFunc("/challenges/{id}", s.DeleteChallenge).Methods(http.MethodDelete)
	api.HandleFunc("/challenges/{id}/open", s.OpenChallenge).Methods(http.MethodGet)
	api.HandleFunc("/challenges/{id}/complete", s.CompleteChallenge).Methods(http.MethodPost)
	api.HandleFunc("/challenges/{id}/share", s.ShareChallenge).Methods(http.MethodPost)

	api.HandleFunc("/journal", s.ListJournal).Methods(http.MethodGet)
	api.HandleFunc("/journal", s.SaveJournal).Methods(http.MethodPost)
	api.HandleFunc("/journal/pending", s.DiscardJournal).Methods(http.MethodDelete)

	api.HandleFunc("/leaderboard", s.GetLeaderboard).Methods(http.MethodGet)
	api.HandleFunc("/account", s.DeleteAccount).Methods(http.MethodDelete)

	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
	)

	if s.trustProxy {
		return cors(gorillaHandlers.ProxyHeaders(r))
	}
	return cors(r)
}

// Run serves on addr until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts on ln until ctx is done. Open event streams are ended on shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:     s.Handler(),
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 120 * time.Second,
		// No WriteTimeout: the SSE streams stay open
	}

	server.RegisterOnShutdown(s.stopStreams)

	go s.limiter.cleanup(ctx, time.Minute, 3*time.Minute)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", ln.Addr())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Println("Server shutdown complete")
	return nil
}

// streamContext is done when the client leaves or the server shuts down
func (s *Server) streamContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(r.Context())
	stop := context.AfterFunc(s.streams, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Health reports store reachability
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.health(ctx); err != nil {
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  "store connection failed",
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "unplugged-api",
	})
}
