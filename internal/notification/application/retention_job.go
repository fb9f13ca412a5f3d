package application

import (
	"context"
	"log/slog"
	"time"
)

// Purger 删除过期通知
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// RetentionJob 定期清理超过保留期的通知。
type RetentionJob struct {
	purger   Purger
	logger   *slog.Logger
	interval time.Duration
}

func NewRetentionJob(purger Purger, logger *slog.Logger, interval time.Duration) *RetentionJob {
	return &RetentionJob{
		purger:   purger,
		logger:   logger,
		interval: interval,
	}
}

// Start 阻塞运行直到 ctx 取消，启动时先清理一次
func (j *RetentionJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("Notification retention job started", "interval", j.interval)
	j.run(ctx)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("Notification retention job stopped")
			return
		case <-ticker.C:
			j.run(ctx)
		}
	}
}

func (j *RetentionJob) run(ctx context.Context) {
	n, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		j.logger.Error("failed to purge expired notifications", "error", err)
		return
	}
	if n > 0 {
		j.logger.Info("purged expired notifications", "count", n)
	}
}
