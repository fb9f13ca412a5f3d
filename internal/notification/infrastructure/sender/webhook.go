package sender

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/wyfcoding/storefront/internal/notification/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// WebhookSender 将新通知以 JSON 推送到外部 webhook（Slack 兼容的 text 字段）
type WebhookSender struct {
	client *resty.Client
	url    string
}

type webhookPayload struct {
	Text         string               `json:"text"`
	Notification *domain.Notification `json:"notification"`
}

func NewWebhookSender(url string, timeout time.Duration) *WebhookSender {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")
	return &WebhookSender{client: client, url: url}
}

func (s *WebhookSender) Send(ctx context.Context, n *domain.Notification) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(webhookPayload{Text: n.Message, Notification: n}).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	logger.Debug(ctx, "Webhook triggered", "url", s.url, "notification_id", n.ID)
	return nil
}
