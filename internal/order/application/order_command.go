package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/storefront/internal/order/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// OrderCommandService 处理下单
type OrderCommandService struct {
	repo       domain.OrderRepository
	publishers []domain.EventPublisher
	now        func() time.Time
}

// NewOrderCommandService publishers 中的 nil 会被忽略
func NewOrderCommandService(repo domain.OrderRepository, publishers ...domain.EventPublisher) *OrderCommandService {
	active := make([]domain.EventPublisher, 0, len(publishers))
	for _, p := range publishers {
		if p != nil {
			active = append(active, p)
		}
	}
	return &OrderCommandService{
		repo:       repo,
		publishers: active,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// PlaceOrder 持久化订单后发布 OrderPlacedEvent，发布失败只记录日志
func (s *OrderCommandService) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	order := domain.NewOrder(uuid.NewString(), cmd.UserID, cmd.Items, cmd.Amount, cmd.PaymentID, cmd.Address, s.now())
	if err := order.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}
	logger.Info(ctx, "order placed", "order_id", order.ID, "user_id", order.UserID, "items", order.ItemCount())

	event := domain.OrderPlacedEvent{
		OrderID:    order.ID,
		UserID:     order.UserID,
		ItemCount:  order.ItemCount(),
		OccurredOn: order.CreatedAt,
	}
	for _, p := range s.publishers {
		if err := p.PublishOrderPlaced(ctx, event); err != nil {
			logger.Error(ctx, "failed to publish order placed event", "order_id", order.ID, "error", err)
		}
	}
	return order, nil
}
