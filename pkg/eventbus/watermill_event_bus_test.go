package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk/newsdesk/pkg/channels/gochannel"
	"github.com/newsdesk/newsdesk/pkg/eventbus"
	"github.com/newsdesk/newsdesk/pkg/events"
)

func newTestBus(t *testing.T) eventbus.EventBus {
	t.Helper()

	publisher, subscriber, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(publisher, subscriber)
	t.Cleanup(func() {
		_ = bus.Close()
	})

	return bus
}

func TestWatermillEventBusGenerateID(t *testing.T) {
	bus := newTestBus(t)

	first := bus.GenerateID()
	second := bus.GenerateID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestWatermillEventBusPublishSubscribe(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()

	received := make(chan *events.StoryApproved, 1)

	err := bus.Handle(events.StoryApprovedEvent, func(_ context.Context, event any) error {
		approved, ok := event.(*events.StoryApproved)
		if !ok {
			t.Errorf("unexpected event payload %T", event)

			return nil
		}

		received <- approved

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Subscribe(ctx))

	approved := &events.StoryApproved{
		StoryReviewed: events.StoryReviewed{
			BaseEvent:    events.NewBaseEvent(events.StoryApprovedEvent, "story-1"),
			Action:       "approve",
			Title:        "Harbor expansion greenlit",
			Category:     "local",
			ReviewerID:   "chief-1",
			ReviewerName: "Dana",
		},
	}

	require.NoError(t, bus.Publish(ctx, "story-1", approved))

	select {
	case got := <-received:
		assert.Equal(t, "story-1", got.StoryID)
		assert.Equal(t, "Harbor expansion greenlit", got.Title)
		assert.Equal(t, "Dana", got.ReviewerName)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for story.approved event")
	}
}

func TestWatermillEventBusIgnoresUnhandledTypes(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()

	published := make(chan struct{}, 1)

	err := bus.Handle(events.StoryPublishedEvent, func(context.Context, any) error {
		published <- struct{}{}

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Subscribe(ctx))

	// No handler registered for story.submitted; the bus acks and moves on.
	submitted := &events.StorySubmitted{
		BaseEvent: events.NewBaseEvent(events.StorySubmittedEvent, "story-2"),
		Title:     "Council budget vote",
		Category:  "politics",
		AuthorID:  "anchor-1",
	}
	require.NoError(t, bus.Publish(ctx, "story-2", submitted))

	publishedEvent := &events.StoryPublished{
		StoryReviewed: events.StoryReviewed{
			BaseEvent:  events.NewBaseEvent(events.StoryPublishedEvent, "story-2"),
			Action:     "publish",
			Title:      "Council budget vote",
			Category:   "politics",
			ReviewerID: "chief-1",
		},
		Slug: "council-budget-vote",
	}
	require.NoError(t, bus.Publish(ctx, "story-2", publishedEvent))

	select {
	case <-published:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for story.published event")
	}
}
