package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter implements ports.LoginLimiter as a fixed-window counter.
// Key format: login:attempts:<normalized_email>
type LoginLimiter struct {
	client *redis.Client
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
func NewLoginLimiter(client *redis.Client) *LoginLimiter {
	return &LoginLimiter{client: client}
}

// The first hit of a window sets its expiry, so the counter and the TTL are
// created atomically.
var attemptScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// Allow counts one attempt for key and reports whether it is within limit.
func (l *LoginLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}
	windowMillis := window.Milliseconds()
	if windowMillis <= 0 {
		windowMillis = 1000
	}

	result, err := attemptScript.Run(ctx, l.client, []string{l.key(key)}, windowMillis).Result()
	if err != nil {
		return false, fmt.Errorf("login limiter: %w", err)
	}
	current, ok := result.(int64)
	if !ok {
		return false, errors.New("login limiter: unexpected counter response")
	}
	return current <= int64(limit), nil
}

// Reset clears the counter for key after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.key(key)).Err()
}

func (l *LoginLimiter) key(k string) string {
	return "login:attempts:" + k
}
