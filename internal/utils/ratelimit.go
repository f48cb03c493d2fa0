package utils

import (
	"context" // Context for Redis operations
	"sync"    // Guards the in-process counters
	"time"    // Window durations

	"github.com/redis/go-redis/v9" // Redis client
)

// RateLimiter counts hits per key in fixed windows
type RateLimiter interface {
	// Allow records a hit for key and reports whether it is within the limit.
	// When it is not, retryAfter is the time left in the current window.
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// RedisRateLimiter keeps counters in Redis so every server instance shares them
type RedisRateLimiter struct {
	rdb    *redis.Client // Redis client
	limit  int           // Hits allowed per window
	window time.Duration // Window length
	prefix string        // Key namespace
}

// NewRedisRateLimiter creates a Redis-backed limiter
func NewRedisRateLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{rdb: rdb, limit: limit, window: window, prefix: "ratelimit:"}
}

// Allow increments the window counter, setting its expiry on the first hit
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := l.prefix + key
	count, err := l.rdb.Incr(ctx, k).Result() // Count this hit
	if err != nil {
		return false, 0, err
	}
	ttl, err := l.rdb.PTTL(ctx, k).Result() // Time left in the window
	if err != nil {
		return false, 0, err
	}
	// First hit of a window, or a counter that lost its expiry
	if count == 1 || ttl < 0 {
		if err := l.rdb.PExpire(ctx, k, l.window).Err(); err != nil {
			return false, 0, err
		}
		ttl = l.window
	}
	if count <= int64(l.limit) {
		return true, 0, nil
	}
	return false, ttl, nil
}

// MemoryRateLimiter is the single-instance fallback when Redis is not configured
type MemoryRateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	count     int
	windowEnd time.Time
}

// NewMemoryRateLimiter creates an in-process limiter
func NewMemoryRateLimiter(limit int, window time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow records a hit for key
func (l *MemoryRateLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.clients[key]
	if !ok || !now.Before(b.windowEnd) {
		l.clients[key] = &bucket{count: 1, windowEnd: now.Add(l.window)}
		l.sweep(now)
		return true, 0, nil
	}
	if b.count >= l.limit {
		return false, b.windowEnd.Sub(now), nil
	}
	b.count++
	return true, 0, nil
}

// sweep drops expired buckets so the map does not grow with every client ever seen
func (l *MemoryRateLimiter) sweep(now time.Time) {
	for k, b := range l.clients {
		if !now.Before(b.windowEnd) {
			delete(l.clients, k)
		}
	}
}
