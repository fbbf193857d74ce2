package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/unplugged/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	entriesKeyPrefix  = "journal_entries:"
	timelineKeyPrefix = "journal:"
)

// Config holds configuration for the Redis journal repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed journal repository
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

// SaveEntry stores the entry and indexes it by date
func (r *redisRepository) SaveEntry(ctx context.Context, input *SaveEntryInput) error {
	if input == nil || input.Entry == nil {
		return errors.New("input and entry cannot be nil")
	}

	if input.UserID == "" || input.Entry.ID == "" {
		return errors.New("user ID and entry ID cannot be empty")
	}

	entryJSON, err := json.Marshal(input.Entry)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, entriesKeyPrefix+input.UserID, input.Entry.ID, entryJSON)
	pipe.ZAdd(ctx, timelineKeyPrefix+input.UserID, redis.Z{
		Score:  float64(input.Entry.Date.UnixMilli()),
		Member: input.Entry.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save journal entry: %w", err)
	}

	return nil
}

// ListEntries retrieves journal entries ordered newest first
func (r *redisRepository) ListEntries(ctx context.Context, input *ListEntriesInput) (*ListEntriesOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit - 1)
	}

	ids, err := r.client.ZRevRange(ctx, timelineKeyPrefix+input.UserID, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	if len(ids) == 0 {
		return &ListEntriesOutput{Entries: []*models.JournalEntry{}}, nil
	}

	raw, err := r.client.HMGet(ctx, entriesKeyPrefix+input.UserID, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get journal entries: %w", err)
	}

	entries := make([]*models.JournalEntry, 0, len(raw))
	for i, value := range raw {
		entryJSON, ok := value.(string)
		if !ok {
			// Timeline entry without a body
			continue
		}

		var entry models.JournalEntry
		if err := json.Unmarshal([]byte(entryJSON), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal journal entry %s: %w", ids[i], err)
		}
		entries = append(entries, &entry)
	}

	return &ListEntriesOutput{
		Entries: entries,
	}, nil
}

// DeleteAllEntries removes a user's journal from Redis
func (r *redisRepository) DeleteAllEntries(ctx context.Context, input *DeleteAllEntriesInput) error {
	if input == nil || input.UserID == "" {
		return errors.New("input and user ID cannot be empty")
	}

	if err := r.client.Del(ctx, entriesKeyPrefix+input.UserID, timelineKeyPrefix+input.UserID).Err(); err != nil {
		return fmt.Errorf("failed to delete journal entries: %w", err)
	}

	return nil
}
