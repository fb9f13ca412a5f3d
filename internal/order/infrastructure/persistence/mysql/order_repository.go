// Package mysql 提供了订单仓储接口的 GORM 实现。
package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wyfcoding/storefront/internal/order/domain"
	"github.com/wyfcoding/storefront/pkg/db"
	"github.com/wyfcoding/storefront/pkg/logger"
	"gorm.io/gorm"
)

// orderRepositoryImpl 是 domain.OrderRepository 接口的 GORM 实现。
type orderRepositoryImpl struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储实例
func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &orderRepositoryImpl{db: db}
}

// Save 在一个事务中写入订单头和订单行
func (r *orderRepositoryImpl) Save(ctx context.Context, order *domain.Order) error {
	m := toOrderModel(order)
	items := m.Items
	m.Items = nil

	err := db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error(ctx, "order_repository.Save failed", "order_id", order.ID, "error", err)
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

// Get 实现 domain.OrderRepository.Get
func (r *orderRepositoryImpl) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	var m OrderModel
	err := r.withItems(r.db.WithContext(ctx)).Where("id = ?", orderID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return toOrder(&m), nil
}

// ListSince 实现 domain.OrderRepository.ListSince
func (r *orderRepositoryImpl) ListSince(ctx context.Context, since time.Time) ([]*domain.Order, error) {
	var ms []OrderModel
	err := r.withItems(r.db.WithContext(ctx)).
		Where("created_at >= ?", since).
		Order("created_at asc").
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	orders := make([]*domain.Order, len(ms))
	for i := range ms {
		orders[i] = toOrder(&ms[i])
	}
	return orders, nil
}

func (r *orderRepositoryImpl) withItems(q *gorm.DB) *gorm.DB {
	return q.Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position asc") })
}
