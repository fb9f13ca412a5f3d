package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/cart/domain"
)

// AddItemCommand 添加商品到购物车命令
type AddItemCommand struct {
	UserID    string          `json:"userId"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Qty       int             `json:"qty"`
}

// UpdateQuantityCommand 修改数量命令
type UpdateQuantityCommand struct {
	UserID string `json:"userId"`
	ItemID string `json:"itemId"`
	Qty    int    `json:"qty"`
}

// CartService 购物车应用服务
type CartService struct {
	repo domain.CartRepository
}

func NewCartService(repo domain.CartRepository) *CartService {
	return &CartService{repo: repo}
}

// AddItem 添加商品，同一商品累加数量；数量缺省为 1
func (s *CartService) AddItem(ctx context.Context, cmd AddItemCommand) (*domain.Cart, error) {
	if cmd.UserID == "" || cmd.ProductID == "" || cmd.Name == "" || !cmd.Price.IsPositive() {
		return nil, fmt.Errorf("%w: missing required fields", domain.ErrInvalidCart)
	}
	if cmd.Qty == 0 {
		cmd.Qty = 1
	}
	if cmd.Qty < 1 {
		return nil, fmt.Errorf("%w: qty must be at least 1", domain.ErrInvalidCart)
	}

	cart, err := s.load(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	cart.AddItem(domain.CartItem{ID: cmd.ProductID, Name: cmd.Name, Price: cmd.Price, Image: cmd.Image, Qty: cmd.Qty})
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// GetItems 用户没有购物车时返回空列表
func (s *CartService) GetItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return cart.Items, nil
}

// RemoveItem 移除商品；购物车或商品不存在时视为成功
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	if userID == "" || itemID == "" {
		return fmt.Errorf("%w: missing userId or itemId", domain.ErrInvalidCart)
	}
	cart, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !cart.RemoveItem(itemID) {
		return nil
	}
	return s.repo.Save(ctx, cart)
}

// UpdateQuantity 修改某商品数量
func (s *CartService) UpdateQuantity(ctx context.Context, cmd UpdateQuantityCommand) (*domain.CartItem, error) {
	if cmd.UserID == "" || cmd.ItemID == "" || cmd.Qty < 1 {
		return nil, fmt.Errorf("%w: invalid update request", domain.ErrInvalidCart)
	}
	cart, err := s.repo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	item, err := cart.SetQuantity(cmd.ItemID, cmd.Qty)
	if err != nil {
		return nil, err
	}
	updated := *item
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}

func (s *CartService) load(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
	}
	return cart, err
}
