package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisRegistry stores sessions in Redis for multi-process deployments.
// Same contract as MemoryRegistry; entries carry a TTL matching the token
// expiry, so Redis itself handles the sweep.
type RedisRegistry struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisRegistry creates a registry backed by the given Redis client.
func NewRedisRegistry(client *redis.Client, logger *slog.Logger) *RedisRegistry {
	return &RedisRegistry{client: client, logger: logger}
}

func (r *RedisRegistry) key(accountID string) string {
	return redisKeyPrefix + accountID
}

func (r *RedisRegistry) Put(ctx context.Context, accountID, token string, expiresAt time.Time, meta ClientMeta) error {
	ua := meta.UserAgent
	if len(ua) > maxUserAgentLen {
		ua = ua[:maxUserAgentLen]
	}
	if ua == "" {
		ua = "unknown"
	}
	ip := meta.IPAddress
	if ip == "" {
		ip = "unknown"
	}

	now := time.Now()
	s := Session{
		AccountID:  accountID,
		Token:      token,
		ExpiresAt:  expiresAt,
		LastActive: now,
		CreatedAt:  now,
		UserAgent:  ua,
		IPAddress:  ip,
		IsValid:    true,
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("token already expired")
	}

	if err := r.client.Set(ctx, r.key(accountID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (r *RedisRegistry) get(ctx context.Context, accountID string) (*Session, bool) {
	data, err := r.client.Get(ctx, r.key(accountID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Error("failed to load session", slog.Any("error", err))
		}
		return nil, false
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		// Undecodable entry is useless; drop it.
		r.client.Del(ctx, r.key(accountID))
		return nil, false
	}
	return &s, true
}

func (r *RedisRegistry) IsValid(ctx context.Context, accountID string) bool {
	s, ok := r.get(ctx, accountID)
	if !ok {
		return false
	}

	if time.Now().After(s.ExpiresAt) || !s.IsValid {
		r.client.Del(ctx, r.key(accountID))
		return false
	}
	return true
}

func (r *RedisRegistry) Touch(ctx context.Context, accountID string) {
	s, ok := r.get(ctx, accountID)
	if !ok {
		return
	}

	s.LastActive = time.Now()
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	// Preserve the remaining TTL on rewrite.
	r.client.Set(ctx, r.key(accountID), data, redis.KeepTTL)
}

func (r *RedisRegistry) Remove(ctx context.Context, accountID string) bool {
	n, err := r.client.Del(ctx, r.key(accountID)).Result()
	if err != nil {
		r.logger.Error("failed to remove session", slog.Any("error", err))
		return false
	}
	return n > 0
}

func (r *RedisRegistry) InvalidateAll(ctx context.Context, accountID string) bool {
	return r.Remove(ctx, accountID)
}

func (r *RedisRegistry) ListForAccount(ctx context.Context, accountID string) []Session {
	s, ok := r.get(ctx, accountID)
	if !ok {
		return nil
	}
	return []Session{*s}
}

func (r *RedisRegistry) ListAll(ctx context.Context) []Session {
	var out []Session

	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}
		var s Session
		if err := json.Unmarshal(data, &s); err != nil {
			continue
		}
		out = append(out, s)
	}
	if err := iter.Err(); err != nil {
		r.logger.Error("failed to scan sessions", slog.Any("error", err))
	}
	return out
}
