package challenge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/KirkDiggler/unplugged/internal/models"
	"github.com/redis/go-redis/v9"
)

// Personal challenges live in one hash per user, keyed by challenge ID
const challengesKeyPrefix = "challenges:"

// Config holds configuration for the Redis challenge repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed challenge repository
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

// ListChallenges retrieves all personal challenges for a user
func (r *redisRepository) ListChallenges(ctx context.Context, input *ListChallengesInput) (*ListChallengesOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	raw, err := r.client.HGetAll(ctx, challengesKeyPrefix+input.UserID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get challenges: %w", err)
	}

	challenges := make([]*models.Challenge, 0, len(raw))
	for id, challengeJSON := range raw {
		var c models.Challenge
		if err := json.Unmarshal([]byte(challengeJSON), &c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal challenge %s: %w", id, err)
		}
		c.ID = id
		challenges = append(challenges, &c)
	}

	sort.Slice(challenges, func(i, j int) bool {
		if challenges[i].CreatedAt.Equal(challenges[j].CreatedAt) {
			return challenges[i].ID < challenges[j].ID
		}
		return challenges[i].CreatedAt.Before(challenges[j].CreatedAt)
	})

	return &ListChallengesOutput{
		Challenges: challenges,
	}, nil
}

// SaveChallenge upserts a personal challenge in Redis
func (r *redisRepository) SaveChallenge(ctx context.Context, input *SaveChallengeInput) error {
	if input == nil || input.Challenge == nil {
		return errors.New("input and challenge cannot be nil")
	}

	if input.UserID == "" || input.Challenge.ID == "" {
		return errors.New("user ID and challenge ID cannot be empty")
	}

	challengeJSON, err := json.Marshal(input.Challenge)
	if err != nil {
		return fmt.Errorf("failed to marshal challenge: %w", err)
	}

	if err := r.client.HSet(ctx, challengesKeyPrefix+input.UserID, input.Challenge.ID, challengeJSON).Err(); err != nil {
		return fmt.Errorf("failed to save challenge: %w", err)
	}

	return nil
}

// DeleteChallenge removes a personal challenge from Redis; unknown IDs are not an error
func (r *redisRepository) DeleteChallenge(ctx context.Context, input *DeleteChallengeInput) error {
	if input == nil || input.UserID == "" || input.ChallengeID == "" {
		return errors.New("input, user ID and challenge ID cannot be empty")
	}

	if err := r.client.HDel(ctx, challengesKeyPrefix+input.UserID, input.ChallengeID).Err(); err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}

	return nil
}

// DeleteAllChallenges removes every personal challenge for a user
func (r *redisRepository) DeleteAllChallenges(ctx context.Context, input *DeleteAllChallengesInput) error {
	if input == nil || input.UserID == "" {
		return errors.New("input and user ID cannot be empty")
	}

	if err := r.client.Del(ctx, challengesKeyPrefix+input.UserID).Err(); err != nil {
		return fmt.Errorf("failed to delete challenges: %w", err)
	}

	return nil
}
