package application

import (
	"context"
	"time"

	"github.com/wyfcoding/storefront/internal/notification/domain"
)

const (
	latestLimit     = 50
	sellerLimit     = 20
	highDemandLimit = 20
)

// NotificationQuery 处理通知相关的查询操作，结果不包含超出保留期的记录
type NotificationQuery struct {
	repo      domain.NotificationRepository
	retention time.Duration
	now       func() time.Time
}

// NewNotificationQuery 创建 NotificationQuery
func NewNotificationQuery(repo domain.NotificationRepository, retention time.Duration) *NotificationQuery {
	return &NotificationQuery{
		repo:      repo,
		retention: retention,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ListLatest 最新 50 条
func (q *NotificationQuery) ListLatest(ctx context.Context) ([]*domain.Notification, error) {
	return q.repo.List(ctx, domain.Filter{}, q.cutoff(), latestLimit)
}

// ListBySeller 某个卖家最新 20 条
func (q *NotificationQuery) ListBySeller(ctx context.Context, sellerID string) ([]*domain.Notification, error) {
	return q.repo.List(ctx, domain.Filter{SellerID: sellerID}, q.cutoff(), sellerLimit)
}

// ListHighDemand 最新 20 条 high_demand 通知
func (q *NotificationQuery) ListHighDemand(ctx context.Context) ([]*domain.Notification, error) {
	return q.repo.List(ctx, domain.Filter{Type: domain.TypeHighDemand}, q.cutoff(), highDemandLimit)
}

// FindRecent 去重查询，since 早于保留期时按保留期截断
func (q *NotificationQuery) FindRecent(ctx context.Context, filter domain.Filter, since time.Time) ([]*domain.Notification, error) {
	if cutoff := q.cutoff(); since.Before(cutoff) {
		since = cutoff
	}
	return q.repo.FindRecent(ctx, filter, since)
}

func (q *NotificationQuery) cutoff() time.Time {
	return q.now().Add(-q.retention)
}
