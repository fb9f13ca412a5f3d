package events

import (
	"context"
	"fmt"

	catalogdomain "github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/internal/notification/domain"
)

// Inserter 写入通知
type Inserter interface {
	Insert(ctx context.Context, n *domain.Notification) error
}

// CatalogListener 订阅商品目录事件并生成 new_product / price_update 通知
type CatalogListener struct {
	notifications Inserter
}

func NewCatalogListener(notifications Inserter) *CatalogListener {
	return &CatalogListener{notifications: notifications}
}

var _ catalogdomain.EventPublisher = (*CatalogListener)(nil)

// PublishProductCreated 新品上架通知
func (l *CatalogListener) PublishProductCreated(ctx context.Context, event catalogdomain.ProductCreatedEvent) error {
	return l.notifications.Insert(ctx, &domain.Notification{
		Message:     fmt.Sprintf("🆕 New product added: \"%s\" in %s category!", event.Name, event.Category),
		Type:        domain.TypeNewProduct,
		ProductID:   event.ProductID,
		SellerID:    event.SellerID,
		ProductName: event.Name,
		Category:    event.Category,
	})
}

// PublishProductPriceChanged 价格变动通知
func (l *CatalogListener) PublishProductPriceChanged(ctx context.Context, event catalogdomain.ProductPriceChangedEvent) error {
	return l.notifications.Insert(ctx, &domain.Notification{
		Message: fmt.Sprintf("💰 Price updated for \"%s\" - New price: ₹%s (was ₹%s)",
			event.Name, event.NewPrice.String(), event.OldPrice.String()),
		Type:        domain.TypePriceUpdate,
		ProductID:   event.ProductID,
		SellerID:    event.SellerID,
		ProductName: event.Name,
	})
}
