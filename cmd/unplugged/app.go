package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/KirkDiggler/unplugged/internal/auth"
	"github.com/KirkDiggler/unplugged/internal/common/clock"
	"github.com/KirkDiggler/unplugged/internal/common/uuid"
	"github.com/KirkDiggler/unplugged/internal/config"
	"github.com/KirkDiggler/unplugged/internal/metrics"
	challengeRepo "github.com/KirkDiggler/unplugged/internal/repositories/challenge"
	"github.com/KirkDiggler/unplugged/internal/repositories/entitlement"
	journalRepo "github.com/KirkDiggler/unplugged/internal/repositories/journal"
	leaderboardRepo "github.com/KirkDiggler/unplugged/internal/repositories/leaderboard"
	publicRepo "github.com/KirkDiggler/unplugged/internal/repositories/public_challenge"
	statsRepo "github.com/KirkDiggler/unplugged/internal/repositories/stats"
	"github.com/KirkDiggler/unplugged/internal/services/appstate"
	"github.com/KirkDiggler/unplugged/internal/services/messaging"
	"github.com/KirkDiggler/unplugged/internal/services/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// app is the wired process shared by the bot and the API
type app struct {
	cfg          *config.Config
	redis        *redis.Client
	registry     *appstate.Registry
	saver        *appstate.Saver
	messaging    messaging.Service
	metrics      *metrics.Metrics
	promRegistry *prometheus.Registry

	// auth is nil when no Firebase credentials are configured
	auth *auth.Provider

	closers []func()
}

// evictionInterval is how often idle users are unloaded
const evictionInterval = time.Minute

// errAccountsUnavailable is returned for account deletion without an auth provider
var errAccountsUnavailable = errors.New("account deletion requires Firebase credentials")

type unavailableAccounts struct{}

func (unavailableAccounts) DeleteUser(ctx context.Context, userID string) error {
	return errAccountsUnavailable
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func connectRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// newApp wires repositories and services. requireAuth fails without Firebase credentials.
func newApp(ctx context.Context, cfg *config.Config, requireAuth bool) (*app, error) {
	redisClient, err := connectRedis(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:          cfg,
		redis:        redisClient,
		promRegistry: prometheus.NewRegistry(),
	}
	a.closers = append(a.closers, func() { _ = redisClient.Close() })

	if err := a.wire(ctx, requireAuth); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func (a *app) wire(ctx context.Context, requireAuth bool) error {
	cfg := a.cfg

	a.promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m, err := metrics.New(a.promRegistry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	a.metrics = m

	fbApp, err := auth.NewApp(ctx, &auth.FirebaseConfig{
		ProjectID:       cfg.FirebaseProjectID,
		CredentialsFile: cfg.FirebaseCredentialsFile,
		CredentialsJSON: cfg.FirebaseCredentialsJSON,
	})
	switch {
	case errors.Is(err, auth.ErrNoCredentials) && !requireAuth && cfg.PublicStore != config.PublicStoreFirestore:
		log.Println("No Firebase credentials found, account deletion is disabled")
	case err != nil:
		return fmt.Errorf("failed to initialize Firebase: %w", err)
	default:
		provider, err := auth.NewFromApp(ctx, fbApp)
		if err != nil {
			return err
		}
		a.auth = provider
	}

	statsStore, err := statsRepo.NewRedis(&statsRepo.Config{RedisClient: a.redis})
	if err != nil {
		return fmt.Errorf("failed to create stats repository: %w", err)
	}

	challengeStore, err := challengeRepo.NewRedis(&challengeRepo.Config{RedisClient: a.redis})
	if err != nil {
		return fmt.Errorf("failed to create challenge repository: %w", err)
	}

	journalStore, err := journalRepo.NewRedis(&journalRepo.Config{RedisClient: a.redis})
	if err != nil {
		return fmt.Errorf("failed to create journal repository: %w", err)
	}

	leaderboardStore, err := leaderboardRepo.NewRedis(&leaderboardRepo.Config{RedisClient: a.redis})
	if err != nil {
		return fmt.Errorf("failed to create leaderboard repository: %w", err)
	}

	entitlements, err := entitlement.NewRedis(&entitlement.Config{RedisClient: a.redis})
	if err != nil {
		return fmt.Errorf("failed to create entitlement repository: %w", err)
	}

	publicStore, err := a.publicStore(ctx, fbApp)
	if err != nil {
		return err
	}

	a.messaging, err = messaging.NewService(&messaging.ServiceConfig{})
	if err != nil {
		return fmt.Errorf("failed to create messaging service: %w", err)
	}

	a.saver = appstate.NewSaver(&appstate.SaverConfig{
		Timeout: cfg.SaveTimeout,
		Metrics: a.metrics,
	})

	var accounts appstate.AccountDeleter = unavailableAccounts{}
	if a.auth != nil {
		accounts = a.auth
	}

	registry, err := appstate.NewRegistry(&appstate.Dependencies{
		StatsRepo:       statsStore,
		ChallengeRepo:   challengeStore,
		JournalRepo:     journalStore,
		PublicStore:     publicStore,
		LeaderboardRepo: leaderboardStore,
		Entitlements:    entitlements,
		Accounts:        accounts,
		Clock:           &clock.DefaultClock{},
		UUIDGenerator:   uuid.New(),
		Saver:           a.saver,
		Metrics:         a.metrics,
		Engine: stats.New(&stats.Config{
			Location:      cfg.Timezone,
			RetentionDays: cfg.RetentionDays,
		}),
		TickInterval:            cfg.TickInterval,
		ReauthWindow:            cfg.ReauthWindow,
		DefaultDailyGoalMinutes: cfg.DefaultDailyGoalMinutes,
	})
	if err != nil {
		a.saver.Close()
		return fmt.Errorf("failed to create registry: %w", err)
	}
	a.registry = registry
	a.closers = append(a.closers, registry.Close)

	go registry.RunEviction(ctx, evictionInterval, cfg.IdleEviction)

	return nil
}

func (a *app) publicStore(ctx context.Context, fbApp *firebase.App) (publicRepo.Repository, error) {
	if a.cfg.PublicStore != config.PublicStoreFirestore {
		store, err := publicRepo.NewRedis(&publicRepo.Config{RedisClient: a.redis})
		if err != nil {
			return nil, fmt.Errorf("failed to create public challenge repository: %w", err)
		}
		return store, nil
	}

	client, err := fbApp.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	a.closers = append(a.closers, func() { _ = client.Close() })

	store, err := publicRepo.NewFirestore(&publicRepo.FirestoreConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create public challenge repository: %w", err)
	}
	log.Println("Public challenges are stored in Firestore")

	return store, nil
}

// health pings the store
func (a *app) health(ctx context.Context) error {
	return a.redis.Ping(ctx).Err()
}

// Close flushes pending saves and releases connections, newest first
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
