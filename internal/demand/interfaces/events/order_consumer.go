package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	orderdomain "github.com/wyfcoding/storefront/internal/order/domain"
	"github.com/wyfcoding/storefront/pkg/mq"
)

// MessageFetcher Kafka 消费端的最小接口
type MessageFetcher interface {
	FetchMessage(ctx context.Context) (*mq.Message, error)
	CommitMessages(ctx context.Context, messages ...*mq.Message) error
}

// DeadLetterSender 死信投递
type DeadLetterSender interface {
	Send(ctx context.Context, original *mq.Message, reason string, err error) error
}

// dlqAttempts 死信投递的最大尝试次数
const dlqAttempts = 3

// OrderConsumer 消费其他副本发布的下单事件并触发检查。
// 无法解析的消息进入死信队列后提交，不阻塞分区。
// 死信投递重试耗尽时记录丢弃的 topic/partition/offset 后照常提交。
type OrderConsumer struct {
	fetcher MessageFetcher
	dlq     DeadLetterSender
	queue   Enqueuer
	logger  *slog.Logger
	backoff time.Duration
}

func NewOrderConsumer(fetcher MessageFetcher, dlq DeadLetterSender, queue Enqueuer, logger *slog.Logger) *OrderConsumer {
	return &OrderConsumer{
		fetcher: fetcher,
		dlq:     dlq,
		queue:   queue,
		logger:  logger,
		backoff: time.Second,
	}
}

// Run 阻塞消费直到 ctx 取消
func (c *OrderConsumer) Run(ctx context.Context) error {
	c.logger.Info("Order event consumer started")
	for {
		msg, err := c.fetcher.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.logger.Info("Order event consumer stopped")
				return nil
			}
			c.logger.Error("failed to fetch order event", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.backoff):
			}
			continue
		}
		c.handle(ctx, msg)
	}
}

func (c *OrderConsumer) handle(ctx context.Context, msg *mq.Message) {
	var event orderdomain.OrderPlacedEvent
	if err := msg.UnmarshalPayload(&event); err != nil || event.OrderID == "" {
		if err == nil {
			err = errors.New("missing orderId")
		}
		c.logger.Warn("undecodable order event", "offset", msg.Offset, "error", err)
		if c.dlq != nil && !c.deadLetter(ctx, msg, err) {
			return
		}
	} else {
		c.queue.Enqueue("order " + event.OrderID)
	}

	if err := c.fetcher.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("failed to commit order event", "offset", msg.Offset, "error", err)
	}
}

// deadLetter 按指数退避重试投递；返回 false 表示 ctx 已取消，消息不提交
func (c *OrderConsumer) deadLetter(ctx context.Context, msg *mq.Message, cause error) bool {
	wait := c.backoff
	var err error
	for attempt := 1; attempt <= dlqAttempts; attempt++ {
		if err = c.dlq.Send(ctx, msg, "decode_failed", cause); err == nil {
			return true
		}
		c.logger.Warn("failed to send order event to dead letter queue",
			"attempt", attempt, "offset", msg.Offset, "error", err)
		if attempt == dlqAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(wait):
		}
		wait *= 2
	}
	c.logger.Error("dropping undeliverable order event",
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"key", msg.Key,
		"error", err)
	return true
}
