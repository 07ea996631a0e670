// Package notifier delivers review outcome notifications to an external webhook.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// Notification is the payload emitted after a review transition.
type Notification struct {
	StoryID      string `json:"story_id"`
	Action       string `json:"action"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	ReviewerName string `json:"reviewer_name,omitempty"`
}

// Notifier delivers a notification to an external receiver.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// Webhook posts notifications as JSON to a fixed endpoint.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a webhook notifier targeting the given URL.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url: url,
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Notify posts the notification. Any non-2xx response is an error; retry
// policy belongs to the caller.
func (w *Webhook) Notify(ctx context.Context, notification Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
