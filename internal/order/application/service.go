// Package application 订单应用服务
package application

import "github.com/wyfcoding/storefront/internal/order/domain"

// OrderService 订单门面，组合命令与查询
type OrderService struct {
	*OrderCommandService
	*OrderQueryService
}

// NewOrderService 创建订单服务
func NewOrderService(repo domain.OrderRepository, publishers ...domain.EventPublisher) *OrderService {
	return &OrderService{
		OrderCommandService: NewOrderCommandService(repo, publishers...),
		OrderQueryService:   NewOrderQueryService(repo),
	}
}
