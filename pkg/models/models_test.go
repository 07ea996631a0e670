package models_test

import (
	"testing"
	"time"

	"github.com/newsdesk/newsdesk/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{
			name:     "simple title",
			title:    "Council Approves New Budget",
			expected: "council-approves-new-budget",
		},
		{
			name:     "punctuation stripped",
			title:    "Breaking: City Hall's $2M Plan!",
			expected: "breaking-city-halls-2m-plan",
		},
		{
			name:     "whitespace runs collapsed",
			title:    "Late   Night \t Update",
			expected: "late-night-update",
		},
		{
			name:     "long title capped at 50 characters",
			title:    "An Extremely Long Headline That Keeps Going And Going And Going Forever",
			expected: "an-extremely-long-headline-that-keeps-going-and-go",
		},
		{
			name:     "empty title",
			title:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := models.Slugify(tt.title)
			assert.Equal(t, tt.expected, got)
			assert.LessOrEqual(t, len(got), 50)
		})
	}
}

func TestStoryStatus(t *testing.T) {
	t.Parallel()

	assert.True(t, models.ValidStoryStatus(models.StoryStatusPending))
	assert.True(t, models.ValidStoryStatus(models.StoryStatusApproved))
	assert.True(t, models.ValidStoryStatus(models.StoryStatusPublished))
	assert.True(t, models.ValidStoryStatus(models.StoryStatusRejected))
	assert.False(t, models.ValidStoryStatus(models.StoryStatus("draft")))

	assert.True(t, models.StoryStatusPublished.Terminal())
	assert.True(t, models.StoryStatusRejected.Terminal())
	assert.False(t, models.StoryStatusPending.Terminal())
	assert.False(t, models.StoryStatusApproved.Terminal())
}

func TestPrincipalCan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		principal  models.Principal
		capability models.Capability
		allowed    bool
	}{
		{
			name:       "verified anchor can create",
			principal:  models.Principal{ID: "a1", Role: models.RoleNewsAnchor, Verified: true},
			capability: models.CapabilityCreateStory,
			allowed:    true,
		},
		{
			name:       "unverified anchor cannot create",
			principal:  models.Principal{ID: "a1", Role: models.RoleNewsAnchor, Verified: false},
			capability: models.CapabilityCreateStory,
			allowed:    false,
		},
		{
			name:       "anchor cannot review",
			principal:  models.Principal{ID: "a1", Role: models.RoleNewsAnchor, Verified: true},
			capability: models.CapabilityReviewStory,
			allowed:    false,
		},
		{
			name:       "chief author can review",
			principal:  models.Principal{ID: "c1", Role: models.RoleChiefAuthor},
			capability: models.CapabilityReviewStory,
			allowed:    true,
		},
		{
			name:       "chief author can create",
			principal:  models.Principal{ID: "c1", Role: models.RoleChiefAuthor},
			capability: models.CapabilityCreateStory,
			allowed:    true,
		},
		{
			name:       "admin can list all",
			principal:  models.Principal{ID: "x1", Role: models.RoleAdmin},
			capability: models.CapabilityListAllStories,
			allowed:    true,
		},
		{
			name:       "chief author cannot delete",
			principal:  models.Principal{ID: "c1", Role: models.RoleChiefAuthor},
			capability: models.CapabilityDeleteStory,
			allowed:    false,
		},
		{
			name:       "admin can delete",
			principal:  models.Principal{ID: "x1", Role: models.RoleAdmin},
			capability: models.CapabilityDeleteStory,
			allowed:    true,
		},
		{
			name:       "customer has no capabilities",
			principal:  models.Principal{ID: "u1", Role: models.RoleCustomer, Verified: true},
			capability: models.CapabilityCreateStory,
			allowed:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.allowed, tt.principal.Can(tt.capability))
		})
	}
}

func TestArticleVisible(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	visible := &models.Article{Published: true, PublicationDate: now.Add(-time.Hour)}
	assert.True(t, visible.Visible(now))

	scheduled := &models.Article{Published: true, PublicationDate: now.Add(time.Hour)}
	assert.False(t, scheduled.Visible(now))

	unpublished := &models.Article{Published: false, PublicationDate: now.Add(-time.Hour)}
	assert.False(t, unpublished.Visible(now))

	deleted := &models.Article{Published: true, PublicationDate: now.Add(-time.Hour), DeletedAt: &now}
	assert.False(t, deleted.Visible(now))
}
