package file_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/newsdesk/newsdesk/pkg/models"
	"github.com/newsdesk/newsdesk/pkg/persistence"
	"github.com/newsdesk/newsdesk/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStory(t *testing.T, authorID string, status models.StoryStatus) *models.Story {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err)

	return &models.Story{
		ID:       id.String(),
		Title:    "Test Story",
		Content:  "Test content",
		Category: "Sports",
		AuthorID: authorID,
		Status:   status,
	}
}

func TestStoryRepository_SaveAndGetByID(t *testing.T) {
	t.Parallel()

	p := file.NewPersistence(t.TempDir())
	repo := p.StoryRepository()
	ctx := context.Background()

	story := newTestStory(t, "author-1", models.StoryStatusPending)

	require.NoError(t, repo.Save(ctx, story))
	assert.False(t, story.CreatedAt.IsZero())
	assert.False(t, story.UpdatedAt.IsZero())

	got, err := repo.GetByID(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, story.ID, got.ID)
	assert.Equal(t, "Test Story", got.Title)
	assert.Equal(t, models.StoryStatusPending, got.Status)
	assert.Nil(t, got.ReviewedBy)
	assert.Nil(t, got.ReviewedAt)
}

func TestStoryRepository_GetByIDNotFound(t *testing.T) {
	t.Parallel()

	p := file.NewPersistence(t.TempDir())

	_, err := p.StoryRepository().GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsStoryNotFound(err))
}

func TestStoryRepository_ListStories(t *testing.T) {
	t.Parallel()

	p := file.NewPersistence(t.TempDir())
	repo := p.StoryRepository()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s := newTestStory(t, "author-1", models.StoryStatusPending)
		require.NoError(t, repo.Save(ctx, s))
		time.Sleep(5 * time.Millisecond) // distinct created_at ordering
	}

	other := newTestStory(t, "author-2", models.StoryStatusApproved)
	require.NoError(t, repo.Save(ctx, other))

	byAuthor, err := repo.ListStories(ctx, persistence.ListStoriesOptions{AuthorID: "author-1"})
	require.NoError(t, err)
	assert.Len(t, byAuthor.Stories, 3)
	assert.Equal(t, int64(3), byAuthor.TotalCount)
	assert.False(t, byAuthor.HasNextPage)

	// Newest first by default
	for i := 1; i < len(byAuthor.Stories); i++ {
		assert.False(t, byAuthor.Stories[i].CreatedAt.After(byAuthor.Stories[i-1].CreatedAt))
	}

	approved := models.StoryStatusApproved
	byStatus, err := repo.ListStories(ctx, persistence.ListStoriesOptions{Status: &approved})
	require.NoError(t, err)
	assert.Len(t, byStatus.Stories, 1)
	assert.Equal(t, "author-2", byStatus.Stories[0].AuthorID)

	all, err := repo.ListStories(ctx, persistence.ListStoriesOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.TotalCount)
}

func TestStoryRepository_ListStoriesPagination(t *testing.T) {
	t.Parallel()

	p := file.NewPersistence(t.TempDir())
	repo := p.StoryRepository()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Save(ctx, newTestStory(t, "author-1", models.StoryStatusPending)))
	}

	page, err := repo.ListStories(ctx, persistence.ListStoriesOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Stories, 2)
	assert.Equal(t, int64(5), page.TotalCount)
	assert.True(t, page.HasNextPage)

	last, err := repo.ListStories(ctx, persistence.ListStoriesOptions{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, last.Stories, 1)
	assert.False(t, last.HasNextPage)

	past, err := repo.ListStories(ctx, persistence.ListStoriesOptions{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, past.Stories)
}

func TestStoryRepository_ListStoriesInvalidSort(t *testing.T) {
	t.Parallel()

	p := file.NewPersistence(t.TempDir())

	_, err := p.StoryRepository().ListStories(context.Background(), persistence.ListStoriesOptions{SortBy: "author_id"})
	require.Error(t, err)
	assert.True(t, persistence.IsInvalidSortField(err))
}

func TestStoryRepository_UpdateStatus(t *testing.T) {
	t.Parallel()

	p := file.NewPersistence(t.TempDir())
	repo := p.StoryRepository()
	ctx := context.Background()

	story := newTestStory(t, "author-1", models.StoryStatusPending)
	require.NoError(t, repo.Save(ctx, story))

	reviewedAt := time.Now().UTC()
	updated, err := repo.UpdateStatus(ctx, story.ID, models.StoryStatusPending, persistence.StatusUpdate{
		Status:      models.StoryStatusApproved,
		ReviewedBy:  "reviewer-1",
		ReviewedAt:  reviewedAt,
		ReviewNotes: "Looks good",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StoryStatusApproved, updated.Status)
	require.NotNil(t, updated.ReviewedBy)
	assert.Equal(t, "reviewer-1", *updated.ReviewedBy)
	require.NotNil(t, updated.ReviewedAt)
	assert.WithinDuration(t, reviewedAt, *updated.ReviewedAt, time.Second)
	require.NotNil(t, updated.ReviewNotes)
	assert.Equal(t, "Looks good", *updated.ReviewNotes)

	// Reload from disk to confirm the write is durable.
	stored, err := repo.GetByID(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StoryStatusApproved, stored.Status)
}

func TestStoryRepository_UpdateStatusConflict(t *testing.T) {
	t.Parallel()

	p := file.NewPersistence(t.TempDir())
	repo := p.StoryRepository()
	ctx := context.Background()

	story := newTestStory(t, "author-1", models.StoryStatusRejected)
	require.NoError(t, repo.Save(ctx, story))

	_, err := repo.UpdateStatus(ctx, story.ID, models.StoryStatusPending, persistence.StatusUpdate{
		Status:     models.StoryStatusApproved,
		ReviewedBy: "reviewer-1",
		ReviewedAt: time.Now().UTC(),
	})
	require.Error(t, err)
	assert.True(t, persistence.IsStatusConflict(err))

	// The stored record is untouched.
	stored, err := repo.GetByID(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StoryStatusRejected, stored.Status)
	assert.Nil(t, stored.ReviewedBy)
}

func TestStoryRepository_Delete(t *testing.T) {
	t.Parallel()

	p := file.NewPersistence(t.TempDir())
	repo := p.StoryRepository()
	ctx := context.Background()

	story := newTestStory(t, "author-1", models.StoryStatusPending)
	require.NoError(t, repo.Save(ctx, story))
	require.NoError(t, repo.Delete(ctx, story.ID))

	_, err := repo.GetByID(ctx, story.ID)
	assert.True(t, persistence.IsStoryNotFound(err))

	err = repo.Delete(ctx, story.ID)
	assert.True(t, persistence.IsStoryNotFound(err))
}
