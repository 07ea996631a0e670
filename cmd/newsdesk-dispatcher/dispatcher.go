// Package main provides the Newsdesk notification dispatcher.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/newsdesk/newsdesk/pkg/eventbus"
	"github.com/newsdesk/newsdesk/pkg/events"
	"github.com/newsdesk/newsdesk/pkg/notifier"
	"github.com/newsdesk/newsdesk/pkg/otelhelper"
)

// Dispatcher consumes story review events and forwards them to the
// newsroom webhook. Delivery failures are returned to the bus so the
// message is redelivered.
type Dispatcher struct {
	id       string
	eventBus eventbus.EventBus
	notifier notifier.Notifier
	tracer   trace.Tracer
	logger   *slog.Logger
}

func NewDispatcher(
	id string,
	eventBus eventbus.EventBus,
	notifier notifier.Notifier,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		id:       id,
		eventBus: eventBus,
		notifier: notifier,
		tracer:   tracer,
		logger:   logger.With("module", "dispatcher"),
	}
}

// Start registers handlers for the review outcome events and blocks until
// the context is cancelled or a termination signal arrives.
func (d *Dispatcher) Start(ctx context.Context) error {
	for _, eventType := range []events.EventType{
		events.StoryApprovedEvent,
		events.StoryRejectedEvent,
		events.StoryPublishedEvent,
	} {
		if err := d.eventBus.Handle(eventType, d.handleReviewed); err != nil {
			return fmt.Errorf("failed to register handler for %s: %w", eventType, err)
		}
	}

	if err := d.eventBus.Subscribe(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to story events: %w", err)
	}

	d.logger.InfoContext(ctx, "Dispatcher started")

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-signals:
		d.logger.InfoContext(ctx, "Received signal, shutting down", "signal", sig)
	case <-ctx.Done():
	}

	return nil
}

func (d *Dispatcher) handleReviewed(ctx context.Context, event any) error {
	reviewed, ok := event.(interface {
		GetType() events.EventType
	})
	if !ok {
		d.logger.WarnContext(ctx, "Dropping unexpected event payload", "payload_type", fmt.Sprintf("%T", event))

		return nil
	}

	notification, storyID := d.notification(event)

	ctx, span := otelhelper.StartSpan(ctx, d.tracer, "dispatcher.notify",
		attribute.String(otelhelper.StoryIDKey, storyID),
		attribute.String(otelhelper.EventTypeKey, string(reviewed.GetType())),
		attribute.String(otelhelper.ReviewActionKey, notification.Action),
		attribute.String(otelhelper.ServiceIDKey, d.id),
	)
	defer span.End()

	err := d.notifier.Notify(ctx, notification)
	if err != nil {
		otelhelper.SetError(span, err)
		d.logger.ErrorContext(ctx, "Failed to deliver notification",
			"story_id", storyID, "action", notification.Action, "error", err)

		return err
	}

	d.logger.InfoContext(ctx, "Notification delivered",
		"story_id", storyID, "action", notification.Action)

	return nil
}

func (d *Dispatcher) notification(event any) (notifier.Notification, string) {
	switch e := event.(type) {
	case *events.StoryApproved:
		return reviewedNotification(e.StoryReviewed), e.StoryID
	case *events.StoryRejected:
		return reviewedNotification(e.StoryReviewed), e.StoryID
	case *events.StoryPublished:
		return reviewedNotification(e.StoryReviewed), e.StoryID
	default:
		return notifier.Notification{}, ""
	}
}

func reviewedNotification(reviewed events.StoryReviewed) notifier.Notification {
	return notifier.Notification{
		StoryID:      reviewed.StoryID,
		Action:       reviewed.Action,
		Title:        reviewed.Title,
		Category:     reviewed.Category,
		ReviewerName: reviewed.ReviewerName,
	}
}
