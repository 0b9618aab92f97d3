package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRepository keeps server-side sessions in Redis. Each record is the
// JSON form of a Session (signed-in username, pending error and success
// flashes, expiry) under "<prefix><session id>". The key TTL follows
// ExpiresAt so Redis drops abandoned sessions on its own.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRepository uses "session:" when prefix is empty.
func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = "session:"
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) key(id string) string {
	return r.prefix + id
}

// ttl never goes below one second; SET rejects a zero or negative expiry.
func ttl(expiresAt time.Time) time.Duration {
	if d := time.Until(expiresAt); d > time.Second {
		return d
	}
	return time.Second
}

func (r *RedisRepository) Put(ctx context.Context, s *Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	if err := r.client.Set(ctx, r.key(s.ID), b, ttl(s.ExpiresAt)).Err(); err != nil {
		return fmt.Errorf("put session %s: %w", s.ID, err)
	}
	return nil
}

func (r *RedisRepository) Get(ctx context.Context, id string) (*Session, error) {
	b, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	if time.Now().UTC().After(s.ExpiresAt) {
		_ = r.Delete(ctx, id)
		return nil, nil
	}
	return &s, nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}
