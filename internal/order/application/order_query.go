package application

import (
	"context"
	"time"

	"github.com/wyfcoding/storefront/internal/order/domain"
)

// OrderQueryService 订单只读查询
type OrderQueryService struct {
	repo domain.OrderRepository
}

func NewOrderQueryService(repo domain.OrderRepository) *OrderQueryService {
	return &OrderQueryService{repo: repo}
}

func (q *OrderQueryService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return q.repo.Get(ctx, orderID)
}

// ListSince 返回 since 之后（含）的订单
func (q *OrderQueryService) ListSince(ctx context.Context, since time.Time) ([]*domain.Order, error) {
	return q.repo.ListSince(ctx, since)
}
