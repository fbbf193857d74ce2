package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/KirkDiggler/unplugged/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	statsKeyPrefix   = "stats:"
	historyKeyPrefix = "daily_history:"
)

// ErrStatsNotFound is returned when a user has no stored stats
var ErrStatsNotFound = errors.New("stats not found")

// Config holds configuration for the Redis stats repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed stats repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// GetStats retrieves a user's stats and daily history from Redis
func (r *redisRepository) GetStats(ctx context.Context, input *GetStatsInput) (*models.UserStats, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	pipe := r.client.Pipeline()
	statsCmd := pipe.Get(ctx, statsKeyPrefix+input.UserID)
	historyCmd := pipe.HGetAll(ctx, historyKeyPrefix+input.UserID)

	// redis.Nil from the GET surfaces as the pipeline error; inspect each command instead
	_, _ = pipe.Exec(ctx)

	statsJSON, err := statsCmd.Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrStatsNotFound
		}
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	var stats models.UserStats
	if err := json.Unmarshal([]byte(statsJSON), &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}

	history, err := historyCmd.Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get daily history: %w", err)
	}

	stats.DailyHistory = make([]models.DailyRecord, 0, len(history))
	for day, recordJSON := range history {
		var record models.DailyRecord
		if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal daily record %s: %w", day, err)
		}
		stats.DailyHistory = append(stats.DailyHistory, record)
	}

	sort.Slice(stats.DailyHistory, func(i, j int) bool {
		return stats.DailyHistory[i].Date.Before(stats.DailyHistory[j].Date)
	})

	return &stats, nil
}

// SaveStats persists a user's stats and daily history to Redis
func (r *redisRepository) SaveStats(ctx context.Context, input *SaveStatsInput) error {
	if input == nil || input.Stats == nil {
		return errors.New("input and stats cannot be nil")
	}

	if input.UserID == "" {
		return errors.New("user ID cannot be empty")
	}

	statsJSON, err := json.Marshal(input.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	historyKey := historyKeyPrefix + input.UserID

	// History is pruned in memory, so the stored hash is replaced wholesale
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, statsKeyPrefix+input.UserID, statsJSON, 0)
	pipe.Del(ctx, historyKey)

	if len(input.Stats.DailyHistory) > 0 {
		fields := make(map[string]interface{}, len(input.Stats.DailyHistory))
		for _, record := range input.Stats.DailyHistory {
			recordJSON, err := json.Marshal(record)
			if err != nil {
				return fmt.Errorf("failed to marshal daily record %s: %w", record.Key(), err)
			}
			fields[record.Key()] = recordJSON
		}
		pipe.HSet(ctx, historyKey, fields)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}

	return nil
}

// DeleteStats removes a user's stats and daily history from Redis
func (r *redisRepository) DeleteStats(ctx context.Context, input *DeleteStatsInput) error {
	if input == nil || input.UserID == "" {
		return errors.New("input and user ID cannot be empty")
	}

	if err := r.client.Del(ctx, statsKeyPrefix+input.UserID, historyKeyPrefix+input.UserID).Err(); err != nil {
		return fmt.Errorf("failed to delete stats: %w", err)
	}

	return nil
}
