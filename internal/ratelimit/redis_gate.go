package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisGate shares a minimum interval across processes scraping the same site.
// Each call claims a Redis key that expires after the interval.
type RedisGate struct {
	client   *redis.Client
	key      string
	interval time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewRedisGate creates a new Redis-backed gate for one site
func NewRedisGate(client *redis.Client, site string, interval time.Duration) *RedisGate {
	return &RedisGate{
		client:   client,
		key:      fmt.Sprintf("props:ratelimit:%s", site),
		interval: interval,
		sleep:    sleepContext,
	}
}

// Wait blocks until this process holds the slot for the site
func (g *RedisGate) Wait(ctx context.Context) error {
	if g.interval <= 0 {
		return ctx.Err()
	}

	for {
		// Claim the slot if nobody holds it
		ok, err := g.client.SetNX(ctx, g.key, "1", g.interval).Result()
		if err != nil {
			return fmt.Errorf("failed to claim rate limit slot: %w", err)
		}
		if ok {
			return nil
		}

		// Someone else holds it; sleep for what is left
		ttl, err := g.client.PTTL(ctx, g.key).Result()
		if err != nil {
			return fmt.Errorf("failed to read rate limit ttl: %w", err)
		}
		if ttl <= 0 {
			ttl = 50 * time.Millisecond
		}
		if err := g.sleep(ctx, ttl); err != nil {
			return err
		}
	}
}

// Reset releases the slot (for testing)
func (g *RedisGate) Reset(ctx context.Context) error {
	return g.client.Del(ctx, g.key).Err()
}
