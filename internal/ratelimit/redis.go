package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis is a fixed-window limiter shared by every instance using the same server. Keys are
// rl:<window seconds>:<key>. Redis errors fail open.
type Redis struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRedis wraps client.
func NewRedis(client *redis.Client, limit int, window time.Duration) *Redis {
	return &Redis{
		client: client,
		limit:  limit,
		window: window,
		prefix: "rl:" + strconv.FormatInt(int64(window/time.Second), 10) + ":",
	}
}

// DialRedis parses url, pings the server and returns a limiter on it.
func DialRedis(ctx context.Context, url string, limit int, window time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedis(client, limit, window), nil
}

func (l *Redis) Allow(ctx context.Context, key string) Decision {
	k := l.prefix + key
	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis rate limit failed, allowing")
		return Decision{Allowed: true}
	}
	if n == 1 {
		l.client.Expire(ctx, k, l.window)
	}
	if n > int64(l.limit) {
		retry, err := l.client.PTTL(ctx, k).Result()
		if err != nil || retry <= 0 {
			retry = l.window
		}
		return Decision{RetryAfter: retry}
	}
	return Decision{Allowed: true, Remaining: l.limit - int(n)}
}

// Close releases the client.
func (l *Redis) Close() error {
	return l.client.Close()
}
