package challenge

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ttlCounter caps how long an orphaned challenge counter can linger if the
// process dies between issue and disposal.
const ttlCounter = 24 * time.Hour

// RedisStore keeps the per-player challenge counters in Redis so the limit
// survives restarts.
type RedisStore struct{ rdb *redis.Client }

func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{rdb: rdb} }

func (s *RedisStore) key(playerID string) string {
	return "arcade:challenges:" + strings.TrimSpace(playerID)
}

func (s *RedisStore) Incr(ctx context.Context, playerID string) (int64, error) {
	n, err := s.rdb.Incr(ctx, s.key(playerID)).Result()
	if err != nil {
		return 0, err
	}
	_ = s.rdb.Expire(ctx, s.key(playerID), ttlCounter).Err()
	return n, nil
}

func (s *RedisStore) Decr(ctx context.Context, playerID string) error {
	n, err := s.rdb.Decr(ctx, s.key(playerID)).Result()
	if err != nil {
		return err
	}
	if n <= 0 {
		return s.rdb.Del(ctx, s.key(playerID)).Err()
	}
	return nil
}

func (s *RedisStore) Count(ctx context.Context, playerID string) (int64, error) {
	n, err := s.rdb.Get(ctx, s.key(playerID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}
