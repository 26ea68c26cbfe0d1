package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"formrelay/internal/models"
)

// DefaultRedisKey is the list holding recorded responses, newest first.
const DefaultRedisKey = "formrelay:responses"

// RedisConfig configures the Redis history.
type RedisConfig struct {
	Client   *redis.Client
	Key      string
	Capacity int
}

// Redis is a ResponseHistory shared between relay instances.
type Redis struct {
	client   *redis.Client
	key      string
	capacity int
}

// NewRedis creates a Redis-backed history.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	if cfg.Client == nil {
		return nil, errors.New("redis client is required")
	}

	if cfg.Key == "" {
		cfg.Key = DefaultRedisKey
	}

	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}

	return &Redis{
		client:   cfg.Client,
		key:      cfg.Key,
		capacity: cfg.Capacity,
	}, nil
}

// Record implements ResponseHistory.
func (r *Redis) Record(ctx context.Context, resp *models.FormResponse) error {
	if resp == nil {
		return nil
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, r.key, data)
	pipe.LTrim(ctx, r.key, 0, int64(r.capacity-1))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record response in %s: %w", r.key, err)
	}

	return nil
}

// Latest implements ResponseHistory.
func (r *Redis) Latest(ctx context.Context) (*models.FormResponse, error) {
	data, err := r.client.LIndex(ctx, r.key, 0).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrEmpty
		}

		return nil, fmt.Errorf("failed to read %s: %w", r.key, err)
	}

	var resp models.FormResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored response: %w", err)
	}

	return &resp, nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
