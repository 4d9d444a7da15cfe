package redis_utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kitemate/src/config"

	"github.com/redis/go-redis/v9"
)

// RedisHandler encapsulates the Redis client and provides utility methods.
type RedisHandler struct {
	client *redis.Client
}

// NewRedisHandler initializes a new Redis handler.
func NewRedisHandler(cfg *config.Config) (*RedisHandler, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Databases.Redis.Host + ":" + cfg.Databases.Redis.Port,
		Username: cfg.Databases.Redis.Username,
		Password: cfg.Databases.Redis.Password, // Leave empty for no password
		DB:       cfg.Databases.Redis.Database,
	})

	// Test connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisHandler{client: client}, nil
}

// Set stores a key-value pair in Redis with an optional expiration.
func (r *RedisHandler) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize value: %w", err)
	}

	if err := r.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Get retrieves a value by key and deserializes it into target. It returns
// false when the key does not exist.
func (r *RedisHandler) Get(ctx context.Context, key string, target interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return false, fmt.Errorf("failed to deserialize value for key %s: %w", key, err)
	}
	return true, nil
}

// Delete removes a key from Redis.
func (r *RedisHandler) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Publish serializes the message and publishes it on the given channel.
func (r *RedisHandler) Publish(ctx context.Context, channel string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}
	if err := r.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish on channel %s: %w", channel, err)
	}
	return nil
}

// Subscribe subscribes to the given channel and returns the message channel.
// The returned PubSub must be closed by the caller.
func (r *RedisHandler) Subscribe(ctx context.Context, channel string) (*redis.PubSub, <-chan *redis.Message) {
	pubsub := r.client.Subscribe(ctx, channel)
	return pubsub, pubsub.Channel()
}

// Close releases the underlying client connection.
func (r *RedisHandler) Close() error {
	return r.client.Close()
}
