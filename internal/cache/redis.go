package cache

import (
	"context"
	"fmt"
	"time"

	"studyabroad-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// Key prefixes
const (
	revokedKeyFmt   = "session:revoked:%s"
	rateLimitKeyFmt = "ratelimit:%s"
	BlogKeyPrefix   = "blog:"
)

// Store wraps the Redis client. A Store with a nil client is a no-op cache:
// reads miss, writes are dropped and rate limits always allow.
type Store struct {
	client *redis.Client
}

// New connects to Redis. On failure it returns a degraded Store and the error.
func New(cfg *config.Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return &Store{}, err
	}
	return &Store{client: client}, nil
}

// NewWithClient wraps an existing client; nil gives a degraded Store.
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Enabled reports whether a Redis connection is configured.
func (s *Store) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Close()
}

// IsHealthy returns true if Redis connection is working
func (s *Store) IsHealthy(ctx context.Context) bool {
	if !s.Enabled() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err() == nil
}

// ============================================
// Session revocation
// ============================================

// RevokeToken blacklists a token id until its natural expiry.
func (s *Store) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if !s.Enabled() || tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, fmt.Sprintf(revokedKeyFmt, tokenID), 1, ttl).Err()
}

// IsRevoked reports whether the token id was revoked. Lookups fail open.
func (s *Store) IsRevoked(ctx context.Context, tokenID string) bool {
	if !s.Enabled() || tokenID == "" {
		return false
	}
	n, err := s.client.Exists(ctx, fmt.Sprintf(revokedKeyFmt, tokenID)).Result()
	return err == nil && n > 0
}

// ============================================
// Generic Cache Functions
// ============================================

// GetCached returns cached data for a key
func (s *Store) GetCached(ctx context.Context, key string) ([]byte, bool) {
	if !s.Enabled() {
		return nil, false
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func (s *Store) SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if !s.Enabled() {
		return
	}
	s.client.Set(ctx, key, data, ttl)
}

// InvalidatePrefix removes every key starting with prefix.
func (s *Store) InvalidatePrefix(ctx context.Context, prefix string) {
	if !s.Enabled() {
		return
	}
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		s.client.Del(ctx, keys...)
	}
}

// ============================================
// Rate limiting
// ============================================

// Allow counts a hit for key in a fixed window and reports whether it is within limit.
// Errors and a disabled store allow the request.
func (s *Store) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if !s.Enabled() || limit <= 0 {
		return true
	}
	k := fmt.Sprintf(rateLimitKeyFmt, key)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true
	}
	return incr.Val() <= int64(limit)
}
