package entitlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// premiumUsersKey is the set of entitled user IDs
const premiumUsersKey = "premium_users"

// Config holds configuration for the Redis entitlement repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using a Redis set
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed entitlement repository
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

// IsEntitled reports set membership
func (r *redisRepository) IsEntitled(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, errors.New("user ID cannot be empty")
	}

	ok, err := r.client.SIsMember(ctx, premiumUsersKey, userID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check entitlement: %w", err)
	}

	return ok, nil
}

// Grant adds the user to the premium set
func (r *redisRepository) Grant(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("user ID cannot be empty")
	}

	if err := r.client.SAdd(ctx, premiumUsersKey, userID).Err(); err != nil {
		return fmt.Errorf("failed to grant entitlement: %w", err)
	}

	return nil
}

// Revoke removes the user from the premium set
func (r *redisRepository) Revoke(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("user ID cannot be empty")
	}

	if err := r.client.SRem(ctx, premiumUsersKey, userID).Err(); err != nil {
		return fmt.Errorf("failed to revoke entitlement: %w", err)
	}

	return nil
}
