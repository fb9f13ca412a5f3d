package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wyfcoding/storefront/internal/seller/domain"
	"gorm.io/gorm"
)

// SellerModel 卖家数据库模型
type SellerModel struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey"`
	ShopName  string    `gorm:"column:shop_name;type:varchar(255);not null"`
	Category  string    `gorm:"column:category;type:varchar(100);index"`
	Pincode   string    `gorm:"column:pincode;type:varchar(16)"`
	Address   string    `gorm:"column:address;type:varchar(512)"`
	City      string    `gorm:"column:city;type:varchar(100)"`
	State     string    `gorm:"column:state;type:varchar(100)"`
	Country   string    `gorm:"column:country;type:varchar(100)"`
	Shipping  string    `gorm:"column:shipping;type:varchar(100)"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SellerModel) TableName() string { return "sellers" }

type sellerRepository struct{ db *gorm.DB }

func NewSellerRepository(db *gorm.DB) domain.SellerRepository {
	return &sellerRepository{db: db}
}

func (r *sellerRepository) Save(ctx context.Context, s *domain.Seller) error {
	if err := r.db.WithContext(ctx).Save(toModel(s)).Error; err != nil {
		return fmt.Errorf("failed to save seller: %w", err)
	}
	return nil
}

func (r *sellerRepository) GetByID(ctx context.Context, id string) (*domain.Seller, error) {
	var m SellerModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get seller: %w", err)
	}
	return toDomain(&m), nil
}

func (r *sellerRepository) FindByCategory(ctx context.Context, category string) ([]*domain.Seller, error) {
	return r.find(r.db.WithContext(ctx).Where("category = ?", category))
}

func (r *sellerRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Seller, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(r.db.WithContext(ctx).Where("id IN ?", ids))
}

func (r *sellerRepository) find(q *gorm.DB) ([]*domain.Seller, error) {
	var ms []SellerModel
	if err := q.Order("created_at asc").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to query sellers: %w", err)
	}
	res := make([]*domain.Seller, len(ms))
	for i := range ms {
		res[i] = toDomain(&ms[i])
	}
	return res, nil
}

func toModel(s *domain.Seller) *SellerModel {
	return &SellerModel{
		ID:       s.ID,
		ShopName: s.ShopName,
		Category: s.Category,
		Pincode:  s.Pincode,
		Address:  s.Address,
		City:     s.City,
		State:    s.State,
		Country:  s.Country,
		Shipping: s.Shipping,
	}
}

func toDomain(m *SellerModel) *domain.Seller {
	return &domain.Seller{
		ID:       m.ID,
		ShopName: m.ShopName,
		Category: m.Category,
		Pincode:  m.Pincode,
		Address:  m.Address,
		City:     m.City,
		State:    m.State,
		Country:  m.Country,
		Shipping: m.Shipping,
	}
}
