package application

import (
	"context"
	"time"

	"github.com/wyfcoding/storefront/internal/notification/domain"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

// NotificationService 通知门面服务，整合 Command 和 Query。
type NotificationService struct {
	command *NotificationCommand
	query   *NotificationQuery
}

// NewNotificationService 构造函数。
func NewNotificationService(repo domain.NotificationRepository, m *metrics.Metrics, retention time.Duration, senders ...domain.Sender) *NotificationService {
	return &NotificationService{
		command: NewNotificationCommand(repo, m, retention, senders...),
		query:   NewNotificationQuery(repo, retention),
	}
}

// --- Command (Writes) ---

func (s *NotificationService) Create(ctx context.Context, cmd CreateNotificationCommand) (*domain.Notification, error) {
	return s.command.Create(ctx, cmd)
}

func (s *NotificationService) Insert(ctx context.Context, n *domain.Notification) error {
	return s.command.Insert(ctx, n)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	return s.command.MarkRead(ctx, id)
}

func (s *NotificationService) ClearAll(ctx context.Context) (int64, error) {
	return s.command.ClearAll(ctx)
}

func (s *NotificationService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.command.PurgeExpired(ctx)
}

// --- Query (Reads) ---

func (s *NotificationService) ListLatest(ctx context.Context) ([]*domain.Notification, error) {
	return s.query.ListLatest(ctx)
}

func (s *NotificationService) ListBySeller(ctx context.Context, sellerID string) ([]*domain.Notification, error) {
	return s.query.ListBySeller(ctx, sellerID)
}

func (s *NotificationService) ListHighDemand(ctx context.Context) ([]*domain.Notification, error) {
	return s.query.ListHighDemand(ctx)
}

func (s *NotificationService) FindRecent(ctx context.Context, filter domain.Filter, since time.Time) ([]*domain.Notification, error) {
	return s.query.FindRecent(ctx, filter, since)
}
