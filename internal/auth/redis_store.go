package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/BradenHooton/complaintbox/internal/config"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// NewRedisClient connects to Redis and verifies the connection with a short ping
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("unable to ping redis at %s: %w", cfg.Addr, err)
	}

	return client, nil
}

// RedisSessionStore keeps sessions as JSON strings under "session:<id>"
// and lets Redis expire them.
type RedisSessionStore struct {
	client redis.Cmdable
}

func NewRedisSessionStore(client redis.Cmdable) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// Get returns the principal stored under id. A record that no longer decodes
// is dropped and reported as not found, so the cookie's owner can log in again.
func (s *RedisSessionStore) Get(ctx context.Context, id string) (Principal, bool, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Anonymous(), false, nil
	}
	if err != nil {
		return Anonymous(), false, fmt.Errorf("failed to read session: %w", err)
	}

	var p Principal
	if err := json.Unmarshal(data, &p); err != nil {
		_ = s.client.Del(ctx, sessionKeyPrefix+id).Err()
		return Anonymous(), false, nil
	}
	return p, true, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, id string, p Principal, ttl time.Duration) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+id, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
