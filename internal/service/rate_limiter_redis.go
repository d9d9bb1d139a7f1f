package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisRateKeyPrefix = "report:rl:"

// redisWindowScript cuenta el hit y devuelve {count, pttl_ms}. La ventana arranca con
// el primer hit; si la key perdio su TTL se lo vuelve a poner.
const redisWindowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {current, ttl}
`

const redisRateTimeout = 500 * time.Millisecond

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// redisRateLimiter comparte la ventana de reportes entre instancias de la API.
type redisRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
}

// NewRedisRateLimiter returns nil without a client. Redis errors fail open.
func NewRedisRateLimiter(client *redis.Client, window time.Duration, max int) RateLimiter {
	if client == nil {
		return nil
	}
	return newRedisRateLimiter(client, window, max)
}

func newRedisRateLimiter(client redisEvaler, window time.Duration, max int) *redisRateLimiter {
	if window < time.Millisecond {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisRateLimiter{client: client, window: window, max: max}
}

func (l *redisRateLimiter) Allow(ctx context.Context, key string) RateDecision {
	if l == nil || l.client == nil {
		return RateDecision{Allowed: true}
	}
	key = normalizeRateKey(key)
	if key == "" {
		return RateDecision{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, redisRateTimeout)
	defer cancel()

	res, err := l.client.Eval(ctx, redisWindowScript, []string{redisRateKeyPrefix + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil || len(res) != 2 {
		return RateDecision{Allowed: true}
	}
	count, ttl := int(res[0]), time.Duration(res[1])*time.Millisecond
	if count > l.max {
		return RateDecision{RetryAfter: ttl}
	}
	return RateDecision{Allowed: true, Remaining: l.max - count}
}
