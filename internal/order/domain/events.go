package domain

import (
	"context"
	"time"
)

// OrderPlacedEvent 下单事件
type OrderPlacedEvent struct {
	OrderID    string    `json:"orderId"`
	UserID     string    `json:"userId"`
	ItemCount  int       `json:"itemCount"`
	OccurredOn time.Time `json:"occurredOn"`
}

// EventPublisher 事件发布者接口
type EventPublisher interface {
	// PublishOrderPlaced 发布下单事件
	PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error
}
