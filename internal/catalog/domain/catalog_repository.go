package domain

import "context"

// ProductRepository 商品仓储接口
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	// GetByID 不存在时返回 ErrNotFound
	GetByID(ctx context.Context, id string) (*Product, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Product, error)
	// Search 名称大小写不敏感的子串匹配
	Search(ctx context.Context, q string) ([]*Product, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*Product, error)
	// ListByCategory 品类大小写不敏感的子串匹配
	ListByCategory(ctx context.Context, pattern string) ([]*Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]*Product, error)
	// FindByName 名称完全匹配时取创建最早的一条，不存在时返回 ErrNotFound
	FindByName(ctx context.Context, name string) (*Product, error)
	// ListCompetitors 同品类、其他卖家、价格为正的商品
	ListCompetitors(ctx context.Context, category, excludeSellerID string) ([]*Product, error)
}
