// Package domain 卖家领域模型
package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("seller not found")
	ErrInvalidSeller = errors.New("invalid seller")
)

// Seller 卖家（店铺），Category 为其声明的主营品类
type Seller struct {
	ID       string `json:"id"`
	ShopName string `json:"shopName"`
	Category string `json:"category"`
	Pincode  string `json:"pincode"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Country  string `json:"country"`
	Shipping string `json:"shipping"`
}

func (s *Seller) Validate() error {
	if s.ShopName == "" {
		return fmt.Errorf("%w: shopName is required", ErrInvalidSeller)
	}
	if s.Category == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidSeller)
	}
	return nil
}

// SellerRepository 卖家仓储接口
type SellerRepository interface {
	Save(ctx context.Context, s *Seller) error
	// GetByID 不存在时返回 ErrNotFound
	GetByID(ctx context.Context, id string) (*Seller, error)
	// FindByCategory 声明品类完全匹配
	FindByCategory(ctx context.Context, category string) ([]*Seller, error)
	FindByIDs(ctx context.Context, ids []string) ([]*Seller, error)
}
