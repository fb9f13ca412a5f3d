// Package mysql 提供了通知仓储接口的 GORM 实现。
package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wyfcoding/storefront/internal/notification/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"gorm.io/gorm"
)

// NotificationModel 通知数据库模型
type NotificationModel struct {
	ID          string    `gorm:"column:id;type:varchar(36);primaryKey"`
	Message     string    `gorm:"column:message;type:text;not null"`
	Type        string    `gorm:"column:type;type:varchar(20);not null;index:idx_notifications_dedup,priority:2"`
	ProductID   string    `gorm:"column:product_id;type:varchar(36)"`
	SellerID    string    `gorm:"column:seller_id;type:varchar(36);index:idx_notifications_dedup,priority:1"`
	SellerName  string    `gorm:"column:seller_name;type:varchar(255)"`
	ProductName string    `gorm:"column:product_name;type:varchar(255)"`
	Category    string    `gorm:"column:category;type:varchar(100)"`
	SalesCount  *int      `gorm:"column:demand_sales_count"`
	TimeFrame   string    `gorm:"column:demand_time_frame;type:varchar(16)"`
	IsRead      bool      `gorm:"column:is_read;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;index;index:idx_notifications_dedup,priority:3"`
}

// TableName 指定表名
func (NotificationModel) TableName() string {
	return "notifications"
}

// notificationRepositoryImpl 是 domain.NotificationRepository 接口的 GORM 实现。
type notificationRepositoryImpl struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知仓储实例
func NewNotificationRepository(db *gorm.DB) domain.NotificationRepository {
	return &notificationRepositoryImpl{db: db}
}

// Insert 实现 domain.NotificationRepository.Insert
func (r *notificationRepositoryImpl) Insert(ctx context.Context, n *domain.Notification) error {
	m := toModel(n)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		logger.Error(ctx, "notification_repository.Insert failed", "notification_id", n.ID, "error", err)
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// FindRecent 实现 domain.NotificationRepository.FindRecent
func (r *notificationRepositoryImpl) FindRecent(ctx context.Context, filter domain.Filter, since time.Time) ([]*domain.Notification, error) {
	var ms []NotificationModel
	err := applyFilter(r.db.WithContext(ctx), filter).
		Where("created_at >= ?", since).
		Order("created_at desc").
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find recent notifications: %w", err)
	}
	return toDomainList(ms), nil
}

// List 实现 domain.NotificationRepository.List
func (r *notificationRepositoryImpl) List(ctx context.Context, filter domain.Filter, since time.Time, limit int) ([]*domain.Notification, error) {
	var ms []NotificationModel
	err := applyFilter(r.db.WithContext(ctx), filter).
		Where("created_at >= ?", since).
		Order("created_at desc").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		logger.Error(ctx, "notification_repository.List failed", "seller_id", filter.SellerID, "type", filter.Type, "error", err)
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return toDomainList(ms), nil
}

// MarkRead 实现 domain.NotificationRepository.MarkRead
func (r *notificationRepositoryImpl) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	var m NotificationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	if err := r.db.WithContext(ctx).Model(&NotificationModel{}).Where("id = ?", id).Update("is_read", true).Error; err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	m.IsRead = true
	return toDomain(&m), nil
}

// ClearAll 实现 domain.NotificationRepository.ClearAll
func (r *notificationRepositoryImpl) ClearAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&NotificationModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear notifications: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// PurgeOlderThan 实现 domain.NotificationRepository.PurgeOlderThan
func (r *notificationRepositoryImpl) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&NotificationModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge notifications: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func applyFilter(db *gorm.DB, f domain.Filter) *gorm.DB {
	q := db.Model(&NotificationModel{})
	if f.SellerID != "" {
		q = q.Where("seller_id = ?", f.SellerID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", string(f.Type))
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.ProductName != "" {
		q = q.Where("product_name = ?", f.ProductName)
	}
	return q
}

func toModel(n *domain.Notification) *NotificationModel {
	m := &NotificationModel{
		ID:          n.ID,
		Message:     n.Message,
		Type:        string(n.Type),
		ProductID:   n.ProductID,
		SellerID:    n.SellerID,
		SellerName:  n.SellerName,
		ProductName: n.ProductName,
		Category:    n.Category,
		IsRead:      n.Read,
		CreatedAt:   n.CreatedAt,
	}
	if n.DemandData != nil {
		count := n.DemandData.SalesCount
		m.SalesCount = &count
		m.TimeFrame = n.DemandData.TimeFrame
	}
	return m
}

func toDomain(m *NotificationModel) *domain.Notification {
	n := &domain.Notification{
		ID:          m.ID,
		Message:     m.Message,
		Type:        domain.NotificationType(m.Type),
		ProductID:   m.ProductID,
		SellerID:    m.SellerID,
		SellerName:  m.SellerName,
		ProductName: m.ProductName,
		Category:    m.Category,
		Read:        m.IsRead,
		CreatedAt:   m.CreatedAt.UTC(),
	}
	if m.SalesCount != nil {
		n.DemandData = &domain.DemandData{SalesCount: *m.SalesCount, TimeFrame: m.TimeFrame}
	}
	return n
}

func toDomainList(ms []NotificationModel) []*domain.Notification {
	res := make([]*domain.Notification, len(ms))
	for i := range ms {
		res[i] = toDomain(&ms[i])
	}
	return res
}
