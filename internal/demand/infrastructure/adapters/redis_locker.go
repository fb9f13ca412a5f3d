package adapters

import (
	"context"
	"time"

	"github.com/wyfcoding/storefront/internal/demand/application"
	"github.com/wyfcoding/storefront/pkg/cache"
)

// RedisLocker 用 Redis 租约保证同一时刻只有一个副本执行检查周期
type RedisLocker struct {
	cache *cache.RedisCache
}

func NewRedisLocker(c *cache.RedisCache) *RedisLocker {
	return &RedisLocker{cache: c}
}

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (application.Unlocker, bool, error) {
	lease, ok, err := l.cache.TryLock(ctx, key, ttl)
	if err != nil || !ok {
		return nil, false, err
	}
	return lease, true, nil
}
