package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/unplugged/internal/models"
	"github.com/redis/go-redis/v9"
)

// leaderboardKey is the hash of user ID to stored entry
const leaderboardKey = "leaderboard"

// storedEntry is the persisted shape; rank is never stored
type storedEntry struct {
	Nickname     string  `json:"nickname"`
	TotalRawTime float64 `json:"totalRawTime"`
	TotalPoints  int     `json:"totalPoints"`
}

// Config holds configuration for the Redis leaderboard repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed leaderboard repository
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

// UpsertEntry writes a user's leaderboard entry to Redis
func (r *redisRepository) UpsertEntry(ctx context.Context, input *UpsertEntryInput) error {
	if input == nil || input.Entry == nil {
		return errors.New("input and entry cannot be nil")
	}

	if input.Entry.UserID == "" {
		return errors.New("user ID cannot be empty")
	}

	entryJSON, err := json.Marshal(storedEntry{
		Nickname:     input.Entry.Nickname,
		TotalRawTime: input.Entry.TotalRawTime,
		TotalPoints:  input.Entry.TotalPoints,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard entry: %w", err)
	}

	if err := r.client.HSet(ctx, leaderboardKey, input.Entry.UserID, entryJSON).Err(); err != nil {
		return fmt.Errorf("failed to save leaderboard entry: %w", err)
	}

	return nil
}

// ListEntries retrieves all leaderboard entries from Redis
func (r *redisRepository) ListEntries(ctx context.Context) (*ListEntriesOutput, error) {
	raw, err := r.client.HGetAll(ctx, leaderboardKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboard entries: %w", err)
	}

	entries := make([]*models.LeaderboardEntry, 0, len(raw))
	for userID, entryJSON := range raw {
		var stored storedEntry
		if err := json.Unmarshal([]byte(entryJSON), &stored); err != nil {
			return nil, fmt.Errorf("failed to unmarshal leaderboard entry %s: %w", userID, err)
		}

		entries = append(entries, &models.LeaderboardEntry{
			UserID:       userID,
			Nickname:     stored.Nickname,
			TotalRawTime: stored.TotalRawTime,
			TotalPoints:  stored.TotalPoints,
		})
	}

	return &ListEntriesOutput{
		Entries: entries,
	}, nil
}

// DeleteEntry removes a user's leaderboard entry from Redis
func (r *redisRepository) DeleteEntry(ctx context.Context, input *DeleteEntryInput) error {
	if input == nil || input.UserID == "" {
		return errors.New("input and user ID cannot be empty")
	}

	if err := r.client.HDel(ctx, leaderboardKey, input.UserID).Err(); err != nil {
		return fmt.Errorf("failed to delete leaderboard entry: %w", err)
	}

	return nil
}
