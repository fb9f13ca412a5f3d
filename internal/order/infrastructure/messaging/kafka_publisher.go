// Package messaging 把订单领域事件投递到 Kafka。
package messaging

import (
	"context"
	"fmt"

	"github.com/wyfcoding/storefront/internal/order/domain"
	"github.com/wyfcoding/storefront/pkg/mq"
)

// TopicOrderPlaced 下单事件主题
const TopicOrderPlaced = "storefront.order.placed"

// KafkaPublisher 基于 Kafka 的订单事件发布者
type KafkaPublisher struct {
	sender mq.MessageSender
	topic  string
}

// NewKafkaPublisher topic 为空时使用 TopicOrderPlaced
func NewKafkaPublisher(sender mq.MessageSender, topic string) *KafkaPublisher {
	if topic == "" {
		topic = TopicOrderPlaced
	}
	return &KafkaPublisher{sender: sender, topic: topic}
}

// PublishOrderPlaced 以订单 ID 为 key 发送，保证同一订单的事件有序
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, event domain.OrderPlacedEvent) error {
	if err := p.sender.SendMessage(ctx, p.topic, event.OrderID, event); err != nil {
		return fmt.Errorf("publish order placed %s: %w", event.OrderID, err)
	}
	return nil
}
