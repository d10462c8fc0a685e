package cooldown

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store arbitrates cooldowns across requests. Acquire succeeds when key is
// not cooling down and starts a new window of ttl; otherwise it reports how
// long remains.
type Store interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, time.Duration, error)
}

func Key(playerID string, kind Kind) string {
	return fmt.Sprintf("cooldown:%s:%s", kind, playerID)
}

type MemoryStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{expires: make(map[string]time.Time), now: now}
}

func (s *MemoryStore) Acquire(_ context.Context, key string, ttl time.Duration) (bool, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if until, ok := s.expires[key]; ok && now.Before(until) {
		return false, until.Sub(now), nil
	}
	s.expires[key] = now.Add(ttl)

	if len(s.expires) > 1024 {
		for k, until := range s.expires {
			if !now.Before(until) {
				delete(s.expires, k)
			}
		}
	}
	return true, 0, nil
}

type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, time.Duration, error) {
	ok, err := s.client.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to set cooldown %s: %w", key, err)
	}
	if ok {
		return true, 0, nil
	}

	left, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to read cooldown %s: %w", key, err)
	}
	if left < 0 {
		left = 0
	}
	return false, left, nil
}
