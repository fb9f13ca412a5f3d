package domain

import (
	"context"
	"time"
)

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// Save 保存订单及其订单行
	Save(ctx context.Context, order *Order) error
	// Get 根据订单 ID 获取订单，不存在时返回 ErrNotFound
	Get(ctx context.Context, orderID string) (*Order, error)
	// ListSince 返回 created_at >= since 的订单（含订单行），按创建时间升序
	ListSince(ctx context.Context, since time.Time) ([]*Order, error)
}
