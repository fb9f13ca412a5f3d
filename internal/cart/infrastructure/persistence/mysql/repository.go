package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartModel 购物车表，每个用户一行
type CartModel struct {
	UserID    string          `gorm:"column:user_id;type:varchar(64);primaryKey"`
	Items     []CartItemModel `gorm:"foreignKey:UserID;references:UserID"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (CartModel) TableName() string { return "carts" }

// CartItemModel 购物车条目表
type CartItemModel struct {
	ID        uint            `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    string          `gorm:"column:user_id;type:varchar(64);index;not null"`
	ProductID string          `gorm:"column:product_id;type:varchar(36);not null"`
	Name      string          `gorm:"column:name;type:varchar(255);not null"`
	Price     decimal.Decimal `gorm:"column:price;type:decimal(20,2);not null"`
	Image     string          `gorm:"column:image;type:varchar(1024)"`
	Qty       int             `gorm:"column:qty;not null"`
	Position  int             `gorm:"column:position;not null"`
}

func (CartItemModel) TableName() string { return "cart_items" }

type cartRepository struct{ db *gorm.DB }

func NewCartRepository(db *gorm.DB) domain.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	var m CartModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position asc") }).
		Where("user_id = ?", userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	cart := &domain.Cart{UserID: m.UserID, Items: make([]domain.CartItem, 0, len(m.Items))}
	for _, it := range m.Items {
		cart.Items = append(cart.Items, domain.CartItem{
			ID:    it.ProductID,
			Name:  it.Name,
			Price: it.Price,
			Image: it.Image,
			Qty:   it.Qty,
		})
	}
	return cart, nil
}

func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	return db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		upsert := clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
		}
		if err := tx.Clauses(upsert).Create(&CartModel{UserID: cart.UserID}).Error; err != nil {
			return fmt.Errorf("failed to save cart: %w", err)
		}
		if err := tx.Where("user_id = ?", cart.UserID).Delete(&CartItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to reset cart items: %w", err)
		}
		if len(cart.Items) == 0 {
			return nil
		}
		items := make([]CartItemModel, len(cart.Items))
		for i, it := range cart.Items {
			items[i] = CartItemModel{
				UserID:    cart.UserID,
				ProductID: it.ID,
				Name:      it.Name,
				Price:     it.Price,
				Image:     it.Image,
				Qty:       it.Qty,
				Position:  i,
			}
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to save cart items: %w", err)
		}
		return nil
	})
}

func (r *cartRepository) Delete(ctx context.Context, userID string) error {
	return db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&CartItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete cart items: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&CartModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete cart: %w", err)
		}
		return nil
	})
}
