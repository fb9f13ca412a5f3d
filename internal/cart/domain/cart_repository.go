package domain

import "context"

type CartRepository interface {
	// GetByUserID 不存在时返回 ErrNotFound
	GetByUserID(ctx context.Context, userID string) (*Cart, error)
	// Save 整体覆盖购物车条目
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, userID string) error
}
