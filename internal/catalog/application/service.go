package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/catalog/domain"
)

// CatalogService 商品目录门面服务
type CatalogService struct {
	*CatalogCommandService
	*CatalogQueryService
}

func NewCatalogService(repo domain.ProductRepository, publisher domain.EventPublisher, vocab *domain.Vocabulary) *CatalogService {
	return &CatalogService{
		CatalogCommandService: NewCatalogCommandService(repo, publisher, vocab),
		CatalogQueryService:   NewCatalogQueryService(repo),
	}
}

// CheckCategory 校验品类是否在白名单中，供卖家注册复用
func (s *CatalogService) CheckCategory(_ context.Context, category string) error {
	return s.vocab.Check(category)
}
