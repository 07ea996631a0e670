package notifier

import (
	"context"
	"sync"

	"github.com/newsdesk/newsdesk/pkg/config"
)

// Router fans notifications out to per-category webhooks based on the
// routing config, falling back to the default endpoint.
type Router struct {
	config config.NotifierConfig

	mu       sync.Mutex
	webhooks map[string]*Webhook
}

// NewRouter creates a routing notifier from a validated config.
func NewRouter(cfg config.NotifierConfig) *Router {
	return &Router{
		config:   cfg,
		webhooks: make(map[string]*Webhook),
	}
}

// Notify delivers the notification to the webhook routed for its category.
func (r *Router) Notify(ctx context.Context, notification Notification) error {
	return r.webhook(r.config.Resolve(notification.Category)).Notify(ctx, notification)
}

func (r *Router) webhook(url string) *Webhook {
	r.mu.Lock()
	defer r.mu.Unlock()

	webhook, ok := r.webhooks[url]
	if !ok {
		webhook = NewWebhook(url)
		r.webhooks[url] = webhook
	}

	return webhook
}
