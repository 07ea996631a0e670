package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/newsdesk/newsdesk/pkg/channels/gochannel"
	"github.com/newsdesk/newsdesk/pkg/eventbus"
	"github.com/newsdesk/newsdesk/pkg/events"
	"github.com/newsdesk/newsdesk/pkg/notifier"
)

type captureNotifier struct {
	notifications chan notifier.Notification
}

func (c *captureNotifier) Notify(_ context.Context, notification notifier.Notification) error {
	c.notifications <- notification

	return nil
}

func TestDispatcher_DeliversReviewNotifications(t *testing.T) {
	publisher, subscriber, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(publisher, subscriber)
	t.Cleanup(func() { _ = bus.Close() })

	capture := &captureNotifier{notifications: make(chan notifier.Notification, 1)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dispatcher := NewDispatcher("dispatcher-test", bus, capture, noop.NewTracerProvider().Tracer("test"), logger)

	ctx := t.Context()

	for _, eventType := range []events.EventType{
		events.StoryApprovedEvent,
		events.StoryRejectedEvent,
		events.StoryPublishedEvent,
	} {
		require.NoError(t, bus.Handle(eventType, dispatcher.handleReviewed))
	}

	require.NoError(t, bus.Subscribe(ctx))

	approved := &events.StoryApproved{
		StoryReviewed: events.StoryReviewed{
			BaseEvent:    events.NewBaseEvent(events.StoryApprovedEvent, "story-1"),
			Action:       "approve",
			Title:        "Harbor Expansion Approved",
			Category:     "local",
			ReviewerID:   "chief-1",
			ReviewerName: "Casey",
		},
	}
	require.NoError(t, bus.Publish(ctx, "story-1", approved))

	select {
	case notification := <-capture.notifications:
		assert.Equal(t, "story-1", notification.StoryID)
		assert.Equal(t, "approve", notification.Action)
		assert.Equal(t, "Harbor Expansion Approved", notification.Title)
		assert.Equal(t, "Casey", notification.ReviewerName)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification delivery")
	}
}
