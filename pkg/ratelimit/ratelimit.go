package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiter defines the interface for rate limiting
type RateLimiter interface {
	// Allow checks if the request is allowed for the given key and limit
	Allow(ctx context.Context, key string, limit Limit) (*Result, error)
}

// Limit defines the rate limit rule
type Limit struct {
	Rate   int
	Period time.Duration
	Burst  int
}

// PerSecond builds a limit of rate requests per second with the given burst
func PerSecond(rate, burst int) Limit {
	return Limit{Rate: rate, Period: time.Second, Burst: burst}
}

// Result represents the result of a rate limit check
type Result struct {
	Allowed    bool
	Remaining  int
	ResetAfter time.Duration
	RetryAfter time.Duration
}

// RedisRateLimiter implements RateLimiter using Redis (GCRA via redis_rate)
type RedisRateLimiter struct {
	limiter *redis_rate.Limiter
}

// NewRedisRateLimiter creates a new RedisRateLimiter
func NewRedisRateLimiter(rdb *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{limiter: redis_rate.NewLimiter(rdb)}
}

// Allow checks if the request is allowed
func (r *RedisRateLimiter) Allow(ctx context.Context, key string, limit Limit) (*Result, error) {
	res, err := r.limiter.Allow(ctx, key, redis_rate.Limit{
		Rate:   limit.Rate,
		Period: limit.Period,
		Burst:  limit.Burst,
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	return &Result{
		Allowed:    res.Allowed > 0,
		Remaining:  res.Remaining,
		ResetAfter: res.ResetAfter,
		RetryAfter: res.RetryAfter,
	}, nil
}

// DefaultIdleTTL is how long a local key may stay unused before it is evicted
const DefaultIdleTTL = 10 * time.Minute

// LocalRateLimiter keeps one token bucket per key in process, used when Redis is not configured.
// Keys unused for idleTTL are evicted.
type LocalRateLimiter struct {
	mu        sync.Mutex
	entries   map[string]*localEntry
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalRateLimiter creates a new LocalRateLimiter with DefaultIdleTTL
func NewLocalRateLimiter() *LocalRateLimiter {
	return NewLocalRateLimiterWithTTL(DefaultIdleTTL)
}

// NewLocalRateLimiterWithTTL creates a LocalRateLimiter evicting keys idle longer than idleTTL
func NewLocalRateLimiterWithTTL(idleTTL time.Duration) *LocalRateLimiter {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &LocalRateLimiter{entries: make(map[string]*localEntry), idleTTL: idleTTL, now: time.Now}
}

// Allow checks if the request is allowed
func (l *LocalRateLimiter) Allow(_ context.Context, key string, limit Limit) (*Result, error) {
	if limit.Rate <= 0 || limit.Period <= 0 {
		return nil, fmt.Errorf("invalid limit: rate=%d period=%s", limit.Rate, limit.Period)
	}
	every := rate.Limit(float64(limit.Rate) / limit.Period.Seconds())
	burst := max(limit.Burst, 1)

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	e, ok := l.entries[key]
	if !ok {
		e = &localEntry{limiter: rate.NewLimiter(every, burst)}
		l.entries[key] = e
	} else if e.limiter.Limit() != every || e.limiter.Burst() != burst {
		e.limiter.SetLimitAt(now, every)
		e.limiter.SetBurstAt(now, burst)
	}
	e.lastSeen = now

	lim := e.limiter
	if lim.AllowN(now, 1) {
		tokens := lim.TokensAt(now)
		return &Result{
			Allowed:    true,
			Remaining:  int(tokens),
			ResetAfter: refillDuration(float64(burst)-tokens, every),
		}, nil
	}
	tokens := lim.TokensAt(now)
	return &Result{
		Allowed:    false,
		RetryAfter: refillDuration(1-tokens, every),
		ResetAfter: refillDuration(float64(burst)-tokens, every),
	}, nil
}

// sweep runs at most once per idleTTL; callers hold l.mu
func (l *LocalRateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	l.lastSweep = now
	for key, e := range l.entries {
		if now.Sub(e.lastSeen) >= l.idleTTL {
			delete(l.entries, key)
		}
	}
}

func refillDuration(tokens float64, every rate.Limit) time.Duration {
	if tokens <= 0 {
		return 0
	}
	return time.Duration(tokens / float64(every) * float64(time.Second))
}
