package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/zombeers/internal/models"
	"github.com/redis/go-redis/v9"
)

// Key prefix for Redis
const snapshotKeyPrefix = "zombeers:snapshot:"

// Config holds configuration for the Redis session repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed session repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// GetSnapshot retrieves a snapshot from Redis
func (r *redisRepository) GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*models.RoomState, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	data, err := r.client.Get(ctx, redisKey(input.Key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	return decode(data)
}

// SaveSnapshot persists a snapshot to Redis
func (r *redisRepository) SaveSnapshot(ctx context.Context, input *SaveSnapshotInput) error {
	if input == nil || input.State == nil {
		return errors.New("input and state cannot be nil")
	}

	data, err := models.EncodeSnapshot(input.State)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	// No expiration, the snapshot lives until it is reset
	if err := r.client.Set(ctx, redisKey(input.Key), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// DeleteSnapshot removes a snapshot from Redis. Deleting a missing key is
// not an error.
func (r *redisRepository) DeleteSnapshot(ctx context.Context, input *DeleteSnapshotInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	if err := r.client.Del(ctx, redisKey(input.Key)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	return nil
}

func redisKey(key string) string {
	return snapshotKeyPrefix + keyOrDefault(key)
}
