// Package domain 购物车领域模型
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("cart not found")
	ErrItemNotFound = errors.New("item not found in cart")
	ErrInvalidCart  = errors.New("invalid cart request")
)

// CartItem 购物车条目，ID 为商品ID
type CartItem struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
	Qty   int             `json:"qty"`
}

// Cart 每个用户一个购物车
type Cart struct {
	UserID string     `json:"userId"`
	Items  []CartItem `json:"items"`
}

// Total 购物车总价
func (c *Cart) Total() decimal.Decimal {
	t := decimal.Zero
	for _, item := range c.Items {
		t = t.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	return t
}

// AddItem 同一商品合并数量
func (c *Cart) AddItem(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ID == item.ID {
			c.Items[i].Qty += item.Qty
			return
		}
	}
	c.Items = append(c.Items, item)
}

// RemoveItem 移除商品，返回是否存在
func (c *Cart) RemoveItem(productID string) bool {
	for i := range c.Items {
		if c.Items[i].ID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// SetQuantity 修改数量，qty 必须 >= 1
func (c *Cart) SetQuantity(productID string, qty int) (*CartItem, error) {
	if qty < 1 {
		return nil, ErrInvalidCart
	}
	for i := range c.Items {
		if c.Items[i].ID == productID {
			c.Items[i].Qty = qty
			return &c.Items[i], nil
		}
	}
	return nil, ErrItemNotFound
}
