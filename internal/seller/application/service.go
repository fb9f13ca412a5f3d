package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/wyfcoding/storefront/internal/seller/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// CategoryChecker 校验品类是否属于商品目录的品类词表
type CategoryChecker interface {
	CheckCategory(ctx context.Context, category string) error
}

// RegisterSellerCommand 卖家注册命令
type RegisterSellerCommand struct {
	ShopName string `json:"shopName"`
	Category string `json:"category"`
	Pincode  string `json:"pincode"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Country  string `json:"country"`
	Shipping string `json:"shipping"`
}

// SellerService 卖家应用服务
type SellerService struct {
	repo       domain.SellerRepository
	categories CategoryChecker
}

func NewSellerService(repo domain.SellerRepository, categories CategoryChecker) *SellerService {
	return &SellerService{repo: repo, categories: categories}
}

// Register 注册卖家并返回其ID
func (s *SellerService) Register(ctx context.Context, cmd RegisterSellerCommand) (string, error) {
	seller := &domain.Seller{
		ID:       uuid.NewString(),
		ShopName: cmd.ShopName,
		Category: cmd.Category,
		Pincode:  cmd.Pincode,
		Address:  cmd.Address,
		City:     cmd.City,
		State:    cmd.State,
		Country:  cmd.Country,
		Shipping: cmd.Shipping,
	}
	if err := seller.Validate(); err != nil {
		return "", err
	}
	if s.categories != nil {
		if err := s.categories.CheckCategory(ctx, seller.Category); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrInvalidSeller, err)
		}
	}
	if err := s.repo.Save(ctx, seller); err != nil {
		return "", err
	}
	logger.Info(ctx, "seller registered", "seller_id", seller.ID, "category", seller.Category)
	return seller.ID, nil
}

func (s *SellerService) GetSeller(ctx context.Context, id string) (*domain.Seller, error) {
	return s.repo.GetByID(ctx, id)
}

// FindByCategory 按声明品类精确匹配
func (s *SellerService) FindByCategory(ctx context.Context, category string) ([]*domain.Seller, error) {
	return s.repo.FindByCategory(ctx, category)
}

func (s *SellerService) FindByIDs(ctx context.Context, ids []string) ([]*domain.Seller, error) {
	return s.repo.FindByIDs(ctx, ids)
}
