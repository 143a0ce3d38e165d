package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// reserveScript prunes, counts and conditionally adds in one server-side step.
// KEYS[1] attempt set; ARGV: cutoff ms, limit, score ms, member, ttl ms.
var reserveScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[2]) then
	return 0
end
redis.call('ZADD', KEYS[1], ARGV[3], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return 1
`)

// RedisStore keeps attempts in one sorted set per key, scored by Unix milliseconds,
// so several API instances share the same counters.
type RedisStore struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisStore{
		Client: client,
		Prefix: "auth_attempts:",
		TTL:    ttl,
	}
}

func (s *RedisStore) Reserve(ctx context.Context, key string, at, cutoff time.Time, limit int) (bool, error) {
	score := at.UnixMilli()
	// members must be unique or concurrent attempts in the same millisecond collapse
	member := strconv.FormatInt(score, 10) + ":" + uuid.NewString()

	added, err := reserveScript.Run(ctx, s.Client, []string{s.Prefix + key},
		cutoff.UnixMilli(), limit, score, member, s.TTL.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return added == 1, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]time.Time, error) {
	scores, err := s.Client.ZRangeWithScores(ctx, s.Prefix+key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, len(scores))
	for _, z := range scores {
		out = append(out, time.UnixMilli(int64(z.Score)).UTC())
	}
	return out, nil
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	return s.Client.Del(ctx, s.Prefix+key).Err()
}
