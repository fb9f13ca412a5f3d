// Package adapters 把订单、商品目录、卖家与通知上下文接入需求追踪的端口。
package adapters

import (
	"context"
	"errors"
	"time"

	catalogdomain "github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/internal/demand/domain"
	notificationdomain "github.com/wyfcoding/storefront/internal/notification/domain"
	orderdomain "github.com/wyfcoding/storefront/internal/order/domain"
	sellerdomain "github.com/wyfcoding/storefront/internal/seller/domain"
)

type orderLister interface {
	ListSince(ctx context.Context, since time.Time) ([]*orderdomain.Order, error)
}

// OrderSource 实现 application.OrderReader
type OrderSource struct {
	orders orderLister
}

func NewOrderSource(orders orderLister) *OrderSource {
	return &OrderSource{orders: orders}
}

func (s *OrderSource) ListSince(ctx context.Context, since time.Time) ([]domain.Order, error) {
	orders, err := s.orders.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, len(orders))
	for i, o := range orders {
		items := make([]domain.Item, len(o.Items))
		for j, it := range o.Items {
			items[j] = domain.Item{ProductID: it.ID, Name: it.Name, Price: it.Price, Qty: it.Qty}
		}
		out[i] = domain.Order{ID: o.ID, Items: items, Amount: o.Amount, CreatedAt: o.CreatedAt}
	}
	return out, nil
}

type productFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]*catalogdomain.Product, error)
	FindByName(ctx context.Context, name string) (*catalogdomain.Product, error)
}

// CatalogSource 实现 application.ProductReader
type CatalogSource struct {
	products productFinder
}

func NewCatalogSource(products productFinder) *CatalogSource {
	return &CatalogSource{products: products}
}

func (s *CatalogSource) FindByIDs(ctx context.Context, ids []string) ([]domain.ProductRef, error) {
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ProductRef, len(products))
	for i, p := range products {
		out[i] = productRef(p)
	}
	return out, nil
}

func (s *CatalogSource) FindByName(ctx context.Context, name string) (*domain.ProductRef, error) {
	p, err := s.products.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, catalogdomain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	ref := productRef(p)
	return &ref, nil
}

func productRef(p *catalogdomain.Product) domain.ProductRef {
	return domain.ProductRef{ID: p.ID, Name: p.Name, Category: p.Category, SellerID: p.SellerID}
}

type sellerFinder interface {
	FindByCategory(ctx context.Context, category string) ([]*sellerdomain.Seller, error)
	FindByIDs(ctx context.Context, ids []string) ([]*sellerdomain.Seller, error)
}

// SellerDirectory 实现 application.SellerReader
type SellerDirectory struct {
	sellers sellerFinder
}

func NewSellerDirectory(sellers sellerFinder) *SellerDirectory {
	return &SellerDirectory{sellers: sellers}
}

func (d *SellerDirectory) FindByCategory(ctx context.Context, category string) ([]domain.SellerRef, error) {
	sellers, err := d.sellers.FindByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return sellerRefs(sellers), nil
}

func (d *SellerDirectory) FindByIDs(ctx context.Context, ids []string) ([]domain.SellerRef, error) {
	sellers, err := d.sellers.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return sellerRefs(sellers), nil
}

func sellerRefs(sellers []*sellerdomain.Seller) []domain.SellerRef {
	out := make([]domain.SellerRef, len(sellers))
	for i, s := range sellers {
		out[i] = domain.SellerRef{ID: s.ID, ShopName: s.ShopName, Category: s.Category}
	}
	return out
}

type notificationWriter interface {
	FindRecent(ctx context.Context, filter notificationdomain.Filter, since time.Time) ([]*notificationdomain.Notification, error)
	Insert(ctx context.Context, n *notificationdomain.Notification) error
}

// NotificationSink 实现 application.NotificationStore，写入 high_demand 通知
type NotificationSink struct {
	notifications notificationWriter
}

func NewNotificationSink(notifications notificationWriter) *NotificationSink {
	return &NotificationSink{notifications: notifications}
}

func (s *NotificationSink) HasRecent(ctx context.Context, key domain.AlertKey, since time.Time) (bool, error) {
	found, err := s.notifications.FindRecent(ctx, notificationdomain.Filter{
		SellerID:    key.SellerID,
		Type:        notificationdomain.TypeHighDemand,
		Category:    key.Category,
		ProductName: key.ProductName,
	}, since)
	if err != nil {
		return false, err
	}
	return len(found) > 0, nil
}

func (s *NotificationSink) Insert(ctx context.Context, a domain.Alert) error {
	return s.notifications.Insert(ctx, &notificationdomain.Notification{
		Message:     a.Message,
		Type:        notificationdomain.TypeHighDemand,
		ProductID:   a.ProductID,
		SellerID:    a.SellerID,
		SellerName:  a.SellerName,
		ProductName: a.ProductName,
		Category:    a.Category,
		DemandData: &notificationdomain.DemandData{
			SalesCount: a.SalesCount,
			TimeFrame:  a.TimeFrame,
		},
	})
}
