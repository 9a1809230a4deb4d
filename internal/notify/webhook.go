package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebhookSender POSTs events as JSON to a configured endpoint. Retries
// are handled by the queue, so each Send is a single attempt.
type WebhookSender struct {
	client *resty.Client
	url    string
}

var _ Sender = (*WebhookSender)(nil)

func NewWebhookSender(url string, timeout time.Duration) *WebhookSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &WebhookSender{client: client, url: url}
}

func (s *WebhookSender) Send(ctx context.Context, ev Event) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(ev).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned %d", resp.StatusCode())
	}
	return nil
}
