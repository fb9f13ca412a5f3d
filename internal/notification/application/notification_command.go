package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/storefront/internal/notification/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

// NotificationCommand 处理通知相关的写操作
type NotificationCommand struct {
	repo      domain.NotificationRepository
	senders   []domain.Sender
	metrics   *metrics.Metrics
	retention time.Duration
	now       func() time.Time
}

// NewNotificationCommand 创建 NotificationCommand，senders 中的 nil 会被忽略
func NewNotificationCommand(repo domain.NotificationRepository, m *metrics.Metrics, retention time.Duration, senders ...domain.Sender) *NotificationCommand {
	active := make([]domain.Sender, 0, len(senders))
	for _, s := range senders {
		if s != nil {
			active = append(active, s)
		}
	}
	return &NotificationCommand{
		repo:      repo,
		senders:   active,
		metrics:   m,
		retention: retention,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create 根据命令创建通知
func (c *NotificationCommand) Create(ctx context.Context, cmd CreateNotificationCommand) (*domain.Notification, error) {
	typ, err := domain.ParseType(cmd.Type)
	if err != nil {
		return nil, err
	}
	n := &domain.Notification{
		Message:     cmd.Message,
		Type:        typ,
		ProductID:   cmd.ProductID,
		SellerID:    cmd.SellerID,
		SellerName:  cmd.SellerName,
		ProductName: cmd.ProductName,
		Category:    cmd.Category,
		DemandData:  cmd.DemandData,
	}
	if err := c.Insert(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Insert 追加通知：分配 ID，read=false，createdAt=now，然后尽力推送给各个 sender
func (c *NotificationCommand) Insert(ctx context.Context, n *domain.Notification) error {
	n.ID = uuid.NewString()
	n.Read = false
	n.CreatedAt = c.now()
	if err := n.Validate(); err != nil {
		return err
	}
	if err := c.repo.Insert(ctx, n); err != nil {
		return err
	}
	c.metrics.NotificationCreated(string(n.Type))

	for _, s := range c.senders {
		if err := s.Send(ctx, n); err != nil {
			logger.Warn(ctx, "notification delivery failed", "notification_id", n.ID, "error", err)
		}
	}
	return nil
}

// MarkRead 标记通知为已读
func (c *NotificationCommand) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	return c.repo.MarkRead(ctx, id)
}

// ClearAll 删除全部通知
func (c *NotificationCommand) ClearAll(ctx context.Context) (int64, error) {
	n, err := c.repo.ClearAll(ctx)
	if err != nil {
		return 0, err
	}
	logger.Info(ctx, "notifications cleared", "count", n)
	return n, nil
}

// PurgeExpired 删除超过保留期的通知
func (c *NotificationCommand) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := c.now().Add(-c.retention)
	n, err := c.repo.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	c.metrics.NotificationsPurgedAdd(n)
	return n, nil
}
