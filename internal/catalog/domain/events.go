package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ProductCreatedEvent 商品创建事件
type ProductCreatedEvent struct {
	ProductID  string          `json:"productId"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	SellerID   string          `json:"sellerId"`
	Price      decimal.Decimal `json:"price"`
	OccurredOn time.Time       `json:"occurredOn"`
}

// ProductPriceChangedEvent 商品价格变更事件
type ProductPriceChangedEvent struct {
	ProductID  string          `json:"productId"`
	Name       string          `json:"name"`
	SellerID   string          `json:"sellerId"`
	OldPrice   decimal.Decimal `json:"oldPrice"`
	NewPrice   decimal.Decimal `json:"newPrice"`
	OccurredOn time.Time       `json:"occurredOn"`
}

// EventPublisher 事件发布者接口
type EventPublisher interface {
	// PublishProductCreated 发布商品创建事件
	PublishProductCreated(ctx context.Context, event ProductCreatedEvent) error

	// PublishProductPriceChanged 发布价格变更事件
	PublishProductPriceChanged(ctx context.Context, event ProductPriceChangedEvent) error
}
