package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEvent(t *testing.T) {
	event := NewBaseEvent(StoryApprovedEvent, "story-123")

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, StoryApprovedEvent, event.Type)
	assert.Equal(t, "story-123", event.StoryID)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, time.Second)
	assert.NotNil(t, event.Metadata)
}

func TestStoryEvents_GetType(t *testing.T) {
	assert.Equal(t, StorySubmittedEvent, StorySubmitted{}.GetType())
	assert.Equal(t, StoryApprovedEvent, StoryApproved{}.GetType())
	assert.Equal(t, StoryRejectedEvent, StoryRejected{}.GetType())
	assert.Equal(t, StoryPublishedEvent, StoryPublished{}.GetType())
}

func TestStoryPublished_JSONSerialization(t *testing.T) {
	original := &StoryPublished{
		StoryReviewed: StoryReviewed{
			BaseEvent:    NewBaseEvent(StoryPublishedEvent, "story-123"),
			Action:       "published",
			Title:        "Council Approves New Budget",
			Category:     "Politics",
			ReviewerID:   "chief-1",
			ReviewerName: "Dana Cruz",
			ReviewNotes:  "Direct publish by chief author",
		},
		Slug: "council-approves-new-budget",
	}

	jsonData, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), `"type":"story.published"`)
	assert.Contains(t, string(jsonData), `"story_id":"story-123"`)
	assert.Contains(t, string(jsonData), `"reviewer_name":"Dana Cruz"`)
	assert.Contains(t, string(jsonData), `"slug":"council-approves-new-budget"`)

	var deserialized StoryPublished

	err = json.Unmarshal(jsonData, &deserialized)
	require.NoError(t, err)
	assert.Equal(t, original.StoryID, deserialized.StoryID)
	assert.Equal(t, original.Action, deserialized.Action)
	assert.Equal(t, original.ReviewNotes, deserialized.ReviewNotes)
}

func TestStorySubmitted_JSONSerialization(t *testing.T) {
	original := &StorySubmitted{
		BaseEvent:  NewBaseEvent(StorySubmittedEvent, "story-42"),
		Title:      "Transfer Window Roundup",
		Category:   "Sports",
		AuthorID:   "anchor-7",
		AuthorName: "Riley Okafor",
	}

	jsonData, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), `"type":"story.submitted"`)
	assert.Contains(t, string(jsonData), `"author_id":"anchor-7"`)

	var deserialized StorySubmitted

	err = json.Unmarshal(jsonData, &deserialized)
	require.NoError(t, err)
	assert.Equal(t, original.Title, deserialized.Title)
}
