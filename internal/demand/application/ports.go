package application

import (
	"context"
	"time"

	"github.com/wyfcoding/storefront/internal/demand/domain"
)

// OrderReader 读取统计窗口内的订单
type OrderReader interface {
	ListSince(ctx context.Context, since time.Time) ([]domain.Order, error)
}

// ProductReader 解析商品的分类与所属卖家
type ProductReader interface {
	// FindByIDs 不存在的 ID 被忽略
	FindByIDs(ctx context.Context, ids []string) ([]domain.ProductRef, error)
	// FindByName 取最早创建的同名商品，不存在时返回 nil, nil
	FindByName(ctx context.Context, name string) (*domain.ProductRef, error)
}

// SellerReader 查询卖家目录
type SellerReader interface {
	FindByCategory(ctx context.Context, category string) ([]domain.SellerRef, error)
	// FindByIDs 不存在的 ID 被忽略
	FindByIDs(ctx context.Context, ids []string) ([]domain.SellerRef, error)
}

// NotificationStore 需求提醒的去重查询与写入
type NotificationStore interface {
	HasRecent(ctx context.Context, key domain.AlertKey, since time.Time) (bool, error)
	Insert(ctx context.Context, alert domain.Alert) error
}

// Locker 跨副本的周期互斥，可选
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (Unlocker, bool, error)
}

// Unlocker 已获取的租约
type Unlocker interface {
	Release(ctx context.Context) error
}

// ReportCache 缓存统计报告的 JSON，可选。Get 未命中时返回空字符串
type ReportCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
