// Package events defines event types for story lifecycle notifications.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Kafka topic carrying story lifecycle events.
const Topic = "newsdesk.stories"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	StorySubmittedEvent EventType = "story.submitted"
	StoryApprovedEvent  EventType = "story.approved"
	StoryRejectedEvent  EventType = "story.rejected"
	StoryPublishedEvent EventType = "story.published"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	StoryID   string         `json:"story_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewBaseEvent creates the shared envelope for a story event.
func NewBaseEvent(eventType EventType, storyID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		StoryID:   storyID,
		Metadata:  make(map[string]any),
	}
}

// StorySubmitted is emitted when a new story enters the review pipeline.
type StorySubmitted struct {
	BaseEvent

	Title      string `json:"title"`
	Category   string `json:"category"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name,omitempty"`
}

func (s StorySubmitted) GetType() EventType {
	return StorySubmittedEvent
}

// StoryReviewed carries the shared payload of all review outcome events.
type StoryReviewed struct {
	BaseEvent

	Action       string `json:"action"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	ReviewerID   string `json:"reviewer_id"`
	ReviewerName string `json:"reviewer_name,omitempty"`
	ReviewNotes  string `json:"review_notes,omitempty"`
}

// StoryApproved is emitted when a reviewer approves a pending story.
type StoryApproved struct {
	StoryReviewed
}

func (s StoryApproved) GetType() EventType {
	return StoryApprovedEvent
}

// StoryRejected is emitted when a reviewer rejects a pending story.
type StoryRejected struct {
	StoryReviewed
}

func (s StoryRejected) GetType() EventType {
	return StoryRejectedEvent
}

// StoryPublished is emitted when a story goes live, either from approved or
// via a direct publish.
type StoryPublished struct {
	StoryReviewed

	Slug string `json:"slug,omitempty"`
}

func (s StoryPublished) GetType() EventType {
	return StoryPublishedEvent
}
