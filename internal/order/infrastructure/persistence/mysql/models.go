package mysql

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/order/domain"
)

// OrderModel 订单表映射
type OrderModel struct {
	ID            string           `gorm:"column:id;type:varchar(36);primaryKey"`
	UserID        string           `gorm:"column:user_id;type:varchar(64);index;not null"`
	Amount        decimal.Decimal  `gorm:"column:amount;type:decimal(20,2);not null"`
	PaymentID     string           `gorm:"column:payment_id;type:varchar(128)"`
	PaymentStatus string           `gorm:"column:payment_status;type:varchar(16);not null"`
	Address       string           `gorm:"column:address;type:varchar(1024)"`
	CreatedAt     time.Time        `gorm:"column:created_at;not null;index"`
	Items         []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

func (OrderModel) TableName() string { return "orders" }

// OrderItemModel 订单行表映射
type OrderItemModel struct {
	ID        uint            `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   string          `gorm:"column:order_id;type:varchar(36);index;not null"`
	ProductID string          `gorm:"column:product_id;type:varchar(36)"`
	Name      string          `gorm:"column:name;type:varchar(255);not null"`
	Price     decimal.Decimal `gorm:"column:price;type:decimal(20,2);not null"`
	Image     string          `gorm:"column:image;type:varchar(1024)"`
	Qty       int             `gorm:"column:qty;not null"`
	Position  int             `gorm:"column:position;not null"`
}

func (OrderItemModel) TableName() string { return "order_items" }

// mapping helpers

func toOrderModel(o *domain.Order) *OrderModel {
	m := &OrderModel{
		ID:            o.ID,
		UserID:        o.UserID,
		Amount:        o.Amount,
		PaymentID:     o.PaymentID,
		PaymentStatus: string(o.PaymentStatus),
		Address:       o.Address,
		CreatedAt:     o.CreatedAt,
		Items:         make([]OrderItemModel, len(o.Items)),
	}
	for i, it := range o.Items {
		m.Items[i] = OrderItemModel{
			OrderID:   o.ID,
			ProductID: it.ID,
			Name:      it.Name,
			Price:     it.Price,
			Image:     it.Image,
			Qty:       it.Qty,
			Position:  i,
		}
	}
	return m
}

func toOrder(m *OrderModel) *domain.Order {
	o := &domain.Order{
		ID:            m.ID,
		UserID:        m.UserID,
		Amount:        m.Amount,
		PaymentID:     m.PaymentID,
		PaymentStatus: domain.PaymentStatus(m.PaymentStatus),
		Address:       m.Address,
		CreatedAt:     m.CreatedAt.UTC(),
		Items:         make([]domain.LineItem, len(m.Items)),
	}
	for i, it := range m.Items {
		o.Items[i] = domain.LineItem{
			ID:    it.ProductID,
			Name:  it.Name,
			Price: it.Price,
			Image: it.Image,
			Qty:   it.Qty,
		}
	}
	return o
}
