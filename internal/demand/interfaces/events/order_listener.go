// Package events 把下单事件转换为需求检查触发。
package events

import (
	"context"

	orderdomain "github.com/wyfcoding/storefront/internal/order/domain"
)

// Enqueuer 接收检查触发请求
type Enqueuer interface {
	Enqueue(reason string) bool
}

// OrderListener 进程内的订单事件发布者，每个下单事件请求一次延迟检查
type OrderListener struct {
	queue Enqueuer
}

func NewOrderListener(queue Enqueuer) *OrderListener {
	return &OrderListener{queue: queue}
}

// PublishOrderPlaced 实现 orderdomain.EventPublisher，从不阻塞下单请求
func (l *OrderListener) PublishOrderPlaced(_ context.Context, event orderdomain.OrderPlacedEvent) error {
	l.queue.Enqueue("order " + event.OrderID)
	return nil
}
