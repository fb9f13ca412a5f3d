package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/catalog/domain"
)

// CatalogQueryService 商品目录查询服务
type CatalogQueryService struct {
	repo domain.ProductRepository
}

// NewCatalogQueryService 创建商品目录查询服务实例
func NewCatalogQueryService(
	repo domain.ProductRepository,
) *CatalogQueryService {
	return &CatalogQueryService{
		repo: repo,
	}
}

// GetProduct 根据ID获取商品信息
func (s *CatalogQueryService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// ListProducts 列出全部商品
func (s *CatalogQueryService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *CatalogQueryService) Search(ctx context.Context, q string) ([]*domain.Product, error) {
	return s.repo.Search(ctx, q)
}

func (s *CatalogQueryService) ListBySeller(ctx context.Context, sellerID string) ([]*domain.Product, error) {
	return s.repo.ListBySeller(ctx, sellerID)
}

func (s *CatalogQueryService) ListByCategory(ctx context.Context, pattern string) ([]*domain.Product, error) {
	return s.repo.ListByCategory(ctx, pattern)
}

// FindByIDs 批量按ID查询，需求统计用它解析品类和卖家
func (s *CatalogQueryService) FindByIDs(ctx context.Context, ids []string) ([]*domain.Product, error) {
	return s.repo.FindByIDs(ctx, ids)
}

// FindByName 名称精确匹配，取最早创建的一条
func (s *CatalogQueryService) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	return s.repo.FindByName(ctx, name)
}

// AnalyzePricing 定价分析
func (s *CatalogQueryService) AnalyzePricing(ctx context.Context, req domain.PricingRequest) (*domain.PricingReport, error) {
	candidates, err := s.repo.ListCompetitors(ctx, req.Category, req.SellerID)
	if err != nil {
		return nil, err
	}
	competitors := make([]*domain.Product, 0, domain.MaxCompetitors)
	for _, p := range candidates {
		if !domain.IsCompetitor(p, req.ProductName) {
			continue
		}
		competitors = append(competitors, p)
		if len(competitors) == domain.MaxCompetitors {
			break
		}
	}
	report := domain.AnalyzePricing(req.CurrentPrice, competitors)
	return &report, nil
}
