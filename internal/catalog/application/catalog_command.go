package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// CreateProductCommand 创建商品命令
type CreateProductCommand struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Rating      float64         `json:"rating"`
	SellerID    string          `json:"sellerId"`
	Amount      *int            `json:"amount"`
}

// UpdateProductCommand 更新商品命令，nil 字段保持不变
type UpdateProductCommand struct {
	ID          string           `json:"-"`
	SellerID    string           `json:"sellerId"` // 调用方卖家，用于归属校验
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Image       *string          `json:"image"`
	Category    *string          `json:"category"`
	Rating      *float64         `json:"rating"`
	Amount      *int             `json:"amount"`
}

// CatalogCommandService 商品目录命令服务
type CatalogCommandService struct {
	repo      domain.ProductRepository
	publisher domain.EventPublisher
	vocab     *domain.Vocabulary
	now       func() time.Time
}

// NewCatalogCommandService 创建商品目录命令服务实例
func NewCatalogCommandService(
	repo domain.ProductRepository,
	publisher domain.EventPublisher,
	vocab *domain.Vocabulary,
) *CatalogCommandService {
	return &CatalogCommandService{
		repo:      repo,
		publisher: publisher,
		vocab:     vocab,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateProduct 处理创建商品
func (s *CatalogCommandService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	amount := 1
	if cmd.Amount != nil {
		amount = *cmd.Amount
	}
	product := &domain.Product{
		ID:          uuid.NewString(),
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
		Image:       cmd.Image,
		Category:    cmd.Category,
		Rating:      cmd.Rating,
		SellerID:    cmd.SellerID,
		Amount:      amount,
		CreatedAt:   s.now(),
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := s.vocab.Check(product.Category); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}

	// 发布商品创建事件
	if s.publisher != nil {
		event := domain.ProductCreatedEvent{
			ProductID:  product.ID,
			Name:       product.Name,
			Category:   product.Category,
			SellerID:   product.SellerID,
			Price:      product.Price,
			OccurredOn: s.now(),
		}
		if err := s.publisher.PublishProductCreated(ctx, event); err != nil {
			logger.Warn(ctx, "failed to publish product created event", "product_id", product.ID, "error", err)
		}
	}
	logger.Info(ctx, "product created", "product_id", product.ID, "name", product.Name)

	return product, nil
}

// UpdateProduct 处理更新商品
func (s *CatalogCommandService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if err := product.CheckOwner(cmd.SellerID); err != nil {
		return nil, err
	}

	oldPrice := product.Price

	if cmd.Name != nil {
		product.Name = *cmd.Name
	}
	if cmd.Description != nil {
		product.Description = *cmd.Description
	}
	if cmd.Price != nil {
		product.Price = *cmd.Price
	}
	if cmd.Image != nil {
		product.Image = *cmd.Image
	}
	if cmd.Category != nil {
		if err := s.vocab.Check(*cmd.Category); err != nil {
			return nil, err
		}
		product.Category = *cmd.Category
	}
	if cmd.Rating != nil {
		product.Rating = *cmd.Rating
	}
	if cmd.Amount != nil {
		product.Amount = *cmd.Amount
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}

	// 价格变化时发布价格变更事件
	if s.publisher != nil && !oldPrice.Equal(product.Price) {
		event := domain.ProductPriceChangedEvent{
			ProductID:  product.ID,
			Name:       product.Name,
			SellerID:   product.SellerID,
			OldPrice:   oldPrice,
			NewPrice:   product.Price,
			OccurredOn: s.now(),
		}
		if err := s.publisher.PublishProductPriceChanged(ctx, event); err != nil {
			logger.Warn(ctx, "failed to publish price changed event", "product_id", product.ID, "error", err)
		}
	}

	return product, nil
}

// DeleteProduct 删除商品，sellerID 非空时校验归属
func (s *CatalogCommandService) DeleteProduct(ctx context.Context, id, sellerID string) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := product.CheckOwner(sellerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
