// Package domain 订单领域模型
package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("order not found")
	ErrInvalidOrder = errors.New("invalid order")
)

// PaymentStatus 支付状态
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// LineItem 订单行，ID 为商品ID
type LineItem struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image,omitempty"`
	Qty   int             `json:"qty"`
}

// Order 订单实体
type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Items         []LineItem      `json:"items"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentID     string          `json:"paymentId,omitempty"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	Address       string          `json:"address,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// NewOrder 构造订单，有支付单号时视为已支付
func NewOrder(id, userID string, items []LineItem, amount decimal.Decimal, paymentID, address string, now time.Time) *Order {
	status := PaymentPending
	if paymentID != "" {
		status = PaymentPaid
	}
	return &Order{
		ID:            id,
		UserID:        userID,
		Items:         items,
		Amount:        amount,
		PaymentID:     paymentID,
		PaymentStatus: status,
		Address:       address,
		CreatedAt:     now,
	}
}

// Validate 用户、订单行与正金额必填；每行需有名称且数量 >= 1
func (o *Order) Validate() error {
	if o.UserID == "" {
		return fmt.Errorf("%w: userId is required", ErrInvalidOrder)
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("%w: items are required", ErrInvalidOrder)
	}
	if !o.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidOrder)
	}
	for i, it := range o.Items {
		if it.Name == "" {
			return fmt.Errorf("%w: item %d has no name", ErrInvalidOrder, i)
		}
		if it.Qty < 1 {
			return fmt.Errorf("%w: item %d qty must be at least 1", ErrInvalidOrder, i)
		}
	}
	return nil
}

// ItemCount 订单商品总件数
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Qty
	}
	return n
}
