package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Credential endpoints share one limit: bcrypt is deliberately slow, so a
// burst of attempts is either abuse or a stuck client.
const (
	attemptLimit  = 10
	attemptWindow = time.Minute
)

// RateLimiter throttles credential attempts per client key using a Redis
// counter with a sliding expiry window.
type RateLimiter struct {
	rdb *redis.Client
}

func NewRateLimiter(rdb *redis.Client) *RateLimiter {
	return &RateLimiter{rdb: rdb}
}

// Allow records one attempt for key and reports whether it is still within
// the window's budget. A Redis failure is returned to the caller, which
// fails open rather than locking out logins.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	rk := "authlimit:" + key
	n, err := l.rdb.Incr(ctx, rk).Result()
	if err != nil {
		return true, err
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, rk, attemptWindow).Err(); err != nil {
			return true, err
		}
	}
	return n <= attemptLimit, nil
}
