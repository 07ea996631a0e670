package postgresql_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/newsdesk/newsdesk/pkg/models"
	"github.com/newsdesk/newsdesk/pkg/persistence"
	"github.com/newsdesk/newsdesk/pkg/persistence/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var postgresContainer *postgres.PostgresContainer

func dropDb(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	for _, table := range []string{"articles", "stories", "schema_migrations"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	err = db.Close()
	require.NoError(t, err)
}

func setupTestDB(t *testing.T) (*postgresql.Persistence, context.Context) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("newsdesk_test"),
			postgres.WithUsername("newsdesk"),
			postgres.WithPassword("newsdesk"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDb(ctx, t, databaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDb(ctx, t, databaseURL)

		err = p.Close(ctx)
		require.NoError(t, err)

		cancel()
	})

	return p, ctx
}

func newStory(t *testing.T, authorID string) *models.Story {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err)

	slug := models.Slugify("Integration Test Story")

	return &models.Story{
		ID:       id.String(),
		Title:    "Integration Test Story",
		Content:  "Full story body",
		Category: "Politics",
		AuthorID: authorID,
		Status:   models.StoryStatusPending,
		Slug:     &slug,
	}
}

func TestStoryRepository_Lifecycle(t *testing.T) {
	p, ctx := setupTestDB(t)
	repo := p.StoryRepository()

	story := newStory(t, "author-1")
	require.NoError(t, repo.Save(ctx, story))

	stored, err := repo.GetByID(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, story.Title, stored.Title)
	assert.Equal(t, models.StoryStatusPending, stored.Status)
	assert.Nil(t, stored.ReviewedBy)

	// Conditional transition commits when the stored status matches.
	reviewedAt := time.Now().UTC()
	approved, err := repo.UpdateStatus(ctx, story.ID, models.StoryStatusPending, persistence.StatusUpdate{
		Status:      models.StoryStatusApproved,
		ReviewedBy:  "chief-1",
		ReviewedAt:  reviewedAt,
		ReviewNotes: "Looks good",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StoryStatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, "chief-1", *approved.ReviewedBy)
	require.NotNil(t, approved.ReviewedAt)
	assert.WithinDuration(t, reviewedAt, *approved.ReviewedAt, time.Second)

	// A second writer expecting the old status loses the race.
	_, err = repo.UpdateStatus(ctx, story.ID, models.StoryStatusPending, persistence.StatusUpdate{
		Status:     models.StoryStatusRejected,
		ReviewedBy: "chief-2",
		ReviewedAt: time.Now().UTC(),
	})
	require.Error(t, err)
	assert.True(t, persistence.IsStatusConflict(err))

	stored, err = repo.GetByID(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StoryStatusApproved, stored.Status)
	assert.Equal(t, "chief-1", *stored.ReviewedBy)

	require.NoError(t, repo.Delete(ctx, story.ID))

	_, err = repo.GetByID(ctx, story.ID)
	assert.True(t, persistence.IsStoryNotFound(err))
}

func TestStoryRepository_UpdateStatusMissingStory(t *testing.T) {
	p, ctx := setupTestDB(t)

	missingID, err := uuid.NewV7()
	require.NoError(t, err)

	_, err = p.StoryRepository().UpdateStatus(ctx, missingID.String(), models.StoryStatusPending, persistence.StatusUpdate{
		Status:     models.StoryStatusApproved,
		ReviewedBy: "chief-1",
		ReviewedAt: time.Now().UTC(),
	})
	require.Error(t, err)
	assert.True(t, persistence.IsStoryNotFound(err))
}

func TestStoryRepository_ListStoriesFilters(t *testing.T) {
	p, ctx := setupTestDB(t)
	repo := p.StoryRepository()

	first := newStory(t, "author-1")
	require.NoError(t, repo.Save(ctx, first))

	second := newStory(t, "author-1")
	second.Title = "Second Story"
	require.NoError(t, repo.Save(ctx, second))

	third := newStory(t, "author-2")
	third.Status = models.StoryStatusApproved
	require.NoError(t, repo.Save(ctx, third))

	byAuthor, err := repo.ListStories(ctx, persistence.ListStoriesOptions{AuthorID: "author-1"})
	require.NoError(t, err)
	assert.Len(t, byAuthor.Stories, 2)
	assert.Equal(t, int64(2), byAuthor.TotalCount)

	approved := models.StoryStatusApproved
	byStatus, err := repo.ListStories(ctx, persistence.ListStoriesOptions{Status: &approved})
	require.NoError(t, err)
	require.Len(t, byStatus.Stories, 1)
	assert.Equal(t, "author-2", byStatus.Stories[0].AuthorID)

	paged, err := repo.ListStories(ctx, persistence.ListStoriesOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, paged.Stories, 2)
	assert.True(t, paged.HasNextPage)

	_, err = repo.ListStories(ctx, persistence.ListStoriesOptions{SortBy: "status"})
	require.Error(t, err)
	assert.True(t, persistence.IsInvalidSortField(err))
}

func TestArticleRepository_Roundtrip(t *testing.T) {
	p, ctx := setupTestDB(t)
	repo := p.ArticleRepository()

	id, err := uuid.NewV7()
	require.NoError(t, err)

	now := time.Now().UTC()
	article := &models.Article{
		ID:              id.String(),
		Title:           "Published Piece",
		Content:         "Body",
		Category:        "Sports",
		AuthorID:        "author-1",
		Published:       true,
		Slug:            "published-piece",
		PublicationDate: now.Add(-time.Hour),
	}

	require.NoError(t, repo.Save(ctx, article))

	bySlug, err := repo.GetBySlug(ctx, "published-piece")
	require.NoError(t, err)
	assert.Equal(t, article.ID, bySlug.ID)

	public, err := repo.ListArticles(ctx, persistence.ListArticlesOptions{PublishedOnly: true, Now: now})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Published Piece", public[0].Title)

	require.NoError(t, repo.Delete(ctx, article.ID))

	_, err = repo.GetByID(ctx, article.ID)
	assert.True(t, persistence.IsArticleNotFound(err))
}
