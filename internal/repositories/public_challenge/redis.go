package public_challenge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/KirkDiggler/unplugged/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	challengeKeyPrefix   = "public_challenge:"
	completionsKeyPrefix = "public_challenge_completions:"
	indexKey             = "public_challenges"

	// updatesChannel carries a challenge ID whenever the collection changes
	updatesChannel = "public_challenges:updates"

	// Hash fields of a public challenge
	dataField  = "data"
	countField = "usersCompletedCount"
)

// createScript writes the mirror only when absent and records the sharer's completion.
// KEYS: challenge hash, completions set, index. ARGV: data, sharer, score, id.
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'data', ARGV[1], 'usersCompletedCount', '1')
if ARGV[2] ~= '' then
	redis.call('SADD', KEYS[2], ARGV[2])
end
redis.call('ZADD', KEYS[3], ARGV[3], ARGV[4])
return 1
`)

// completeScript adds the completion marker and bumps the counter only for a new marker.
// KEYS: challenge hash, completions set. ARGV: user.
// Returns {-1, 0} when the challenge is missing, otherwise {incremented, count}.
var completeScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return {-1, 0}
end
if redis.call('SADD', KEYS[2], ARGV[1]) == 0 then
	return {0, tonumber(redis.call('HGET', KEYS[1], 'usersCompletedCount'))}
end
return {1, redis.call('HINCRBY', KEYS[1], 'usersCompletedCount', 1)}
`)

// Config holds configuration for the Redis public challenge repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed public challenge repository
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

// GetPublicChallenge retrieves a public challenge from Redis
func (r *redisRepository) GetPublicChallenge(ctx context.Context, input *GetPublicChallengeInput) (*models.Challenge, error) {
	if input == nil || input.ChallengeID == "" {
		return nil, errors.New("input and challenge ID cannot be empty")
	}

	fields, err := r.client.HGetAll(ctx, challengeKeyPrefix+input.ChallengeID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get public challenge: %w", err)
	}

	if len(fields) == 0 {
		return nil, ErrPublicChallengeNotFound
	}

	return decodeChallenge(input.ChallengeID, fields)
}

// ListPublicChallenges retrieves public challenges ordered newest first
func (r *redisRepository) ListPublicChallenges(ctx context.Context, input *ListPublicChallengesInput) (*ListPublicChallengesOutput, error) {
	limit := DefaultListLimit
	if input != nil {
		limit = limitOrDefault(input.Limit)
	}

	ids, err := r.client.ZRevRange(ctx, indexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list public challenges: %w", err)
	}

	if len(ids) == 0 {
		return &ListPublicChallengesOutput{Challenges: []*models.Challenge{}}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, challengeKeyPrefix+id)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to get public challenges: %w", err)
	}

	challenges := make([]*models.Challenge, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// Index entry outlived its hash
			continue
		}

		c, err := decodeChallenge(ids[i], fields)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, c)
	}

	return &ListPublicChallengesOutput{
		Challenges: challenges,
	}, nil
}

// CreateIfAbsent writes the public mirror of a challenge unless it already exists
func (r *redisRepository) CreateIfAbsent(ctx context.Context, input *CreateIfAbsentInput) (*CreateIfAbsentOutput, error) {
	if input == nil || input.Challenge == nil {
		return nil, errors.New("input and challenge cannot be nil")
	}

	if input.Challenge.ID == "" {
		return nil, errors.New("challenge ID cannot be empty")
	}

	mirror := input.Challenge.Clone()
	mirror.IsPublic = true
	mirror.IsCompleted = false
	mirror.UsersCompletedCount = 0
	if mirror.OwnerID == "" {
		mirror.OwnerID = input.SharerID
	}

	data, err := json.Marshal(mirror)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public challenge: %w", err)
	}

	id := input.Challenge.ID
	created, err := createScript.Run(ctx, r.client,
		[]string{challengeKeyPrefix + id, completionsKeyPrefix + id, indexKey},
		data, input.SharerID, mirror.CreatedAt.UnixMilli(), id,
	).Int()
	if err != nil {
		return nil, fmt.Errorf("failed to create public challenge: %w", err)
	}

	if created == 1 {
		r.publish(ctx, id)
	}

	return &CreateIfAbsentOutput{
		Created: created == 1,
	}, nil
}

// CompleteFirstTime records a completion marker and increments the counter atomically
func (r *redisRepository) CompleteFirstTime(ctx context.Context, input *CompleteFirstTimeInput) (*CompleteFirstTimeOutput, error) {
	if input == nil || input.ChallengeID == "" || input.UserID == "" {
		return nil, errors.New("input, challenge ID and user ID cannot be empty")
	}

	id := input.ChallengeID
	result, err := completeScript.Run(ctx, r.client,
		[]string{challengeKeyPrefix + id, completionsKeyPrefix + id},
		input.UserID,
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to complete public challenge: %w", err)
	}

	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected completion result: %v", result)
	}

	if result[0] < 0 {
		return nil, ErrPublicChallengeNotFound
	}

	output := &CompleteFirstTimeOutput{
		Incremented:         result[0] == 1,
		UsersCompletedCount: int(result[1]),
	}

	if output.Incremented {
		r.publish(ctx, id)
	}

	return output, nil
}

// DeletePublicChallenge removes a public challenge, its completion markers and its index entry
func (r *redisRepository) DeletePublicChallenge(ctx context.Context, input *DeletePublicChallengeInput) error {
	if input == nil || input.ChallengeID == "" {
		return errors.New("input and challenge ID cannot be empty")
	}

	id := input.ChallengeID

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, challengeKeyPrefix+id, completionsKeyPrefix+id)
	pipe.ZRem(ctx, indexKey, id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete public challenge: %w", err)
	}

	r.publish(ctx, id)

	return nil
}

// WatchPublicChallenges sends an initial snapshot and a fresh one after every change
func (r *redisRepository) WatchPublicChallenges(ctx context.Context, input *WatchPublicChallengesInput) (<-chan []*models.Challenge, error) {
	limit := DefaultListLimit
	if input != nil {
		limit = limitOrDefault(input.Limit)
	}

	pubsub := r.client.Subscribe(ctx, updatesChannel)

	// Wait for the subscription so no update between snapshot and listen is lost
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to public challenges: %w", err)
	}

	snapshots := make(chan []*models.Challenge, 1)

	go func() {
		defer close(snapshots)
		defer pubsub.Close()

		messages := pubsub.Channel()

		send := func() bool {
			out, err := r.ListPublicChallenges(ctx, &ListPublicChallengesInput{Limit: limit})
			if err != nil {
				log.Printf("WatchPublicChallenges: failed to list snapshot: %v", err)
				return true
			}

			select {
			case snapshots <- out.Challenges:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !send() {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-messages:
				if !ok {
					return
				}
				if !send() {
					return
				}
			}
		}
	}()

	return snapshots, nil
}

// publish notifies watchers; failures only delay their next snapshot
func (r *redisRepository) publish(ctx context.Context, challengeID string) {
	if err := r.client.Publish(ctx, updatesChannel, challengeID).Err(); err != nil {
		log.Printf("PublicChallenge: failed to publish update for %s: %v", challengeID, err)
	}
}

func decodeChallenge(id string, fields map[string]string) (*models.Challenge, error) {
	var c models.Challenge
	if err := json.Unmarshal([]byte(fields[dataField]), &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal public challenge %s: %w", id, err)
	}

	count, err := strconv.Atoi(fields[countField])
	if err != nil {
		return nil, fmt.Errorf("invalid completion count for %s: %w", id, err)
	}

	c.ID = id
	c.IsPublic = true
	c.UsersCompletedCount = count

	return &c, nil
}
