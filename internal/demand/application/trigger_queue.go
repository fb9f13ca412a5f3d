package application

import (
	"context"
	"log/slog"
	"time"
)

// Checker 执行一次需求检查
type Checker interface {
	TriggerCheck(ctx context.Context) (CycleResult, error)
}

// TriggerQueue 把下单等事件转换为延迟执行的检查。
// 队列容量为 1，检查开始前到达的多次触发合并为一次。
type TriggerQueue struct {
	checker Checker
	delay   time.Duration
	logger  *slog.Logger
	pending chan string
}

func NewTriggerQueue(checker Checker, delay time.Duration, logger *slog.Logger) *TriggerQueue {
	return &TriggerQueue{
		checker: checker,
		delay:   delay,
		logger:  logger,
		pending: make(chan string, 1),
	}
}

// Enqueue 请求一次检查，从不阻塞；已有待执行请求时返回 false
func (q *TriggerQueue) Enqueue(reason string) bool {
	select {
	case q.pending <- reason:
		return true
	default:
		q.logger.Debug("demand trigger coalesced", "reason", reason)
		return false
	}
}

// Run 阻塞消费触发请求直到 ctx 取消
func (q *TriggerQueue) Run(ctx context.Context) error {
	q.logger.Info("Demand trigger queue started", "delay", q.delay)
	for {
		select {
		case <-ctx.Done():
			q.logger.Info("Demand trigger queue stopped")
			return nil
		case reason := <-q.pending:
			if !q.wait(ctx) {
				return nil
			}
			res, err := q.checker.TriggerCheck(ctx)
			if err != nil {
				q.logger.Error("triggered demand check failed", "reason", reason, "error", err)
				continue
			}
			q.logger.Debug("triggered demand check finished", "reason", reason, "created", res.Created)
		}
	}
}

func (q *TriggerQueue) wait(ctx context.Context) bool {
	if q.delay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(q.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
