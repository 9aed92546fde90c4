// Package ratelimit throttles login attempts per email with fixed Redis
// windows.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/userhub/internal/common"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "userhub:login:"

// LoginLimiter gates login attempts for an email. Allow fails with
// common.ErrTooManyRequests once the window is exhausted.
type LoginLimiter interface {
	Allow(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// RedisLimiter counts attempts with INCR and starts the window on the first
// one.
type RedisLimiter struct {
	redis       redis.Cmdable
	maxAttempts int
	window      time.Duration
}

func NewRedisLimiter(client redis.Cmdable, maxAttempts int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{redis: client, maxAttempts: maxAttempts, window: window}
}

// Allow fails closed: a Redis error is reported as ErrUpstreamUnavailable.
func (l *RedisLimiter) Allow(ctx context.Context, email string) error {
	key := loginKey(email)

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: rate limiter: %v", common.ErrUpstreamUnavailable, err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", common.ErrUpstreamUnavailable, err)
		}
	}

	if count > int64(l.maxAttempts) {
		return common.ErrTooManyRequests
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *RedisLimiter) Reset(ctx context.Context, email string) error {
	if err := l.redis.Del(ctx, loginKey(email)).Err(); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", common.ErrUpstreamUnavailable, err)
	}
	return nil
}

func loginKey(email string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(email))
}

// Noop never throttles.
type Noop struct{}

func (Noop) Allow(context.Context, string) error { return nil }
func (Noop) Reset(context.Context, string) error { return nil }
