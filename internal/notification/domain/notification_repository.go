package domain

import (
	"context"
	"time"
)

// NotificationRepository 通知仓储接口
type NotificationRepository interface {
	// Insert 追加一条通知
	Insert(ctx context.Context, n *Notification) error
	// FindRecent 查询 created_at >= since 且匹配过滤条件的通知，用于去重判断
	FindRecent(ctx context.Context, filter Filter, since time.Time) ([]*Notification, error)
	// List 按创建时间倒序返回最多 limit 条 created_at >= since 的通知
	List(ctx context.Context, filter Filter, since time.Time, limit int) ([]*Notification, error)
	// MarkRead 标记已读，不存在时返回 ErrNotFound
	MarkRead(ctx context.Context, id string) (*Notification, error)
	// ClearAll 删除全部通知
	ClearAll(ctx context.Context) (int64, error)
	// PurgeOlderThan 删除 created_at < cutoff 的通知
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sender 新通知的推送通道（webhook、websocket 等）
type Sender interface {
	Send(ctx context.Context, n *Notification) error
}
