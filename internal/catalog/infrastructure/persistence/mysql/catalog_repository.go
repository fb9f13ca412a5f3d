package mysql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"gorm.io/gorm"
)

// ProductModel 商品数据库模型
type ProductModel struct {
	ID          string          `gorm:"column:id;type:varchar(36);primaryKey"`
	Name        string          `gorm:"column:name;type:varchar(255);not null;index"`
	Description string          `gorm:"column:description;type:text"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(20,2);not null"`
	Image       string          `gorm:"column:image;type:varchar(1024)"`
	Category    string          `gorm:"column:category;type:varchar(100);index"`
	Rating      float64         `gorm:"column:rating"`
	SellerID    string          `gorm:"column:seller_id;type:varchar(36);index"`
	Amount      int             `gorm:"column:amount;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;not null"`
}

func (ProductModel) TableName() string { return "products" }

type productRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Save(toModel(product)).Error; err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var m ProductModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return toDomain(&m), nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ProductModel{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *productRepository) Search(ctx context.Context, q string) ([]*domain.Product, error) {
	return r.find(r.db.WithContext(ctx).Where("LOWER(name) LIKE ?", likePattern(q)))
}

func (r *productRepository) ListBySeller(ctx context.Context, sellerID string) ([]*domain.Product, error) {
	return r.find(r.db.WithContext(ctx).Where("seller_id = ?", sellerID))
}

func (r *productRepository) ListByCategory(ctx context.Context, pattern string) ([]*domain.Product, error) {
	return r.find(r.db.WithContext(ctx).Where("LOWER(category) LIKE ?", likePattern(pattern)))
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(r.db.WithContext(ctx).Where("id IN ?", ids))
}

func (r *productRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	var m ProductModel
	err := r.db.WithContext(ctx).Where("name = ?", name).Order("created_at asc").First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product by name: %w", err)
	}
	return toDomain(&m), nil
}

func (r *productRepository) ListCompetitors(ctx context.Context, category, excludeSellerID string) ([]*domain.Product, error) {
	return r.find(r.db.WithContext(ctx).
		Where("category = ? AND seller_id <> ? AND price > 0", category, excludeSellerID))
}

func (r *productRepository) find(q *gorm.DB) ([]*domain.Product, error) {
	var ms []ProductModel
	if err := q.Order("created_at asc").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	res := make([]*domain.Product, len(ms))
	for i := range ms {
		res[i] = toDomain(&ms[i])
	}
	return res, nil
}

func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

func toModel(p *domain.Product) *ProductModel {
	return &ProductModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		Rating:      p.Rating,
		SellerID:    p.SellerID,
		Amount:      p.Amount,
		CreatedAt:   p.CreatedAt,
	}
}

func toDomain(m *ProductModel) *domain.Product {
	return &domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Image:       m.Image,
		Category:    m.Category,
		Rating:      m.Rating,
		SellerID:    m.SellerID,
		Amount:      m.Amount,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}
