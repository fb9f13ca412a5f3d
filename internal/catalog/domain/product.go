// Package domain 商品目录的领域模型
package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("product not found")
	ErrForbidden       = errors.New("product belongs to another seller")
	ErrInvalidProduct  = errors.New("invalid product")
	ErrUnknownCategory = errors.New("unknown category")
)

// Product 商品实体
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Rating      float64         `json:"rating"`
	SellerID    string          `json:"sellerId,omitempty"`
	Amount      int             `json:"amount"` // 库存
	CreatedAt   time.Time       `json:"createdAt"`
}

// Validate 名称必填，价格与库存不能为负
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	if p.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidProduct)
	}
	return nil
}

// CheckOwner 调用方给出 sellerID 且商品有归属卖家时，二者必须一致
func (p *Product) CheckOwner(sellerID string) error {
	if sellerID != "" && p.SellerID != "" && p.SellerID != sellerID {
		return ErrForbidden
	}
	return nil
}
