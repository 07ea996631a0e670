package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk/newsdesk/pkg/models"
	"github.com/newsdesk/newsdesk/pkg/persistence"
	"github.com/newsdesk/newsdesk/pkg/persistence/file"
)

func seedArticle(t *testing.T, store persistence.Persistence, article *models.Article) {
	t.Helper()

	now := time.Now().UTC()

	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}

	article.UpdatedAt = now

	require.NoError(t, store.ArticleRepository().Save(t.Context(), article))
}

func TestArticle_ListArticles(t *testing.T) {
	store := file.NewPersistence(t.TempDir())
	service := NewArticle(store)

	now := time.Now().UTC()

	seedArticle(t, store, &models.Article{
		ID:              "article-live",
		Title:           "Live Story",
		Content:         "Body",
		Category:        "local",
		AuthorID:        "anchor-1",
		Published:       true,
		Slug:            "live-story",
		PublicationDate: now.Add(-time.Hour),
	})
	seedArticle(t, store, &models.Article{
		ID:              "article-scheduled",
		Title:           "Scheduled Story",
		Content:         "Body",
		Category:        "local",
		AuthorID:        "anchor-1",
		Published:       true,
		Slug:            "scheduled-story",
		PublicationDate: now.Add(time.Hour),
	})
	seedArticle(t, store, &models.Article{
		ID:              "article-draft",
		Title:           "Unpublished Story",
		Content:         "Body",
		Category:        "tech",
		AuthorID:        "anchor-1",
		Published:       false,
		Slug:            "unpublished-story",
		PublicationDate: now.Add(-time.Hour),
	})

	articles, err := service.ListArticles(t.Context(), ListArticlesRequest{})
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "article-live", articles[0].ID)
}

func TestArticle_ListArticles_CategoryAndFeatured(t *testing.T) {
	store := file.NewPersistence(t.TempDir())
	service := NewArticle(store)

	past := time.Now().UTC().Add(-time.Hour)

	seedArticle(t, store, &models.Article{
		ID:              "article-sports",
		Title:           "Sports Story",
		Content:         "Body",
		Category:        "sports",
		AuthorID:        "anchor-1",
		Published:       true,
		Featured:        true,
		Slug:            "sports-story",
		PublicationDate: past,
	})
	seedArticle(t, store, &models.Article{
		ID:              "article-tech",
		Title:           "Tech Story",
		Content:         "Body",
		Category:        "tech",
		AuthorID:        "anchor-1",
		Published:       true,
		Slug:            "tech-story",
		PublicationDate: past,
	})

	sports, err := service.ListArticles(t.Context(), ListArticlesRequest{Category: "sports"})
	require.NoError(t, err)
	require.Len(t, sports, 1)
	assert.Equal(t, "article-sports", sports[0].ID)

	featured := true
	highlighted, err := service.ListArticles(t.Context(), ListArticlesRequest{Featured: &featured})
	require.NoError(t, err)
	require.Len(t, highlighted, 1)
	assert.Equal(t, "article-sports", highlighted[0].ID)
}

func TestArticle_FetchBySlug(t *testing.T) {
	store := file.NewPersistence(t.TempDir())
	service := NewArticle(store)

	seedArticle(t, store, &models.Article{
		ID:              "article-1",
		Title:           "Findable",
		Content:         "Body",
		Category:        "local",
		AuthorID:        "anchor-1",
		Published:       true,
		Slug:            "findable",
		PublicationDate: time.Now().UTC().Add(-time.Hour),
	})

	article, err := service.FetchBySlug(t.Context(), "findable")
	require.NoError(t, err)
	assert.Equal(t, "article-1", article.ID)

	_, err = service.FetchBySlug(t.Context(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsArticleNotFound(err))
}

func TestArticle_FetchBySlug_HidesScheduled(t *testing.T) {
	store := file.NewPersistence(t.TempDir())
	service := NewArticle(store)

	seedArticle(t, store, &models.Article{
		ID:              "article-scheduled",
		Title:           "Scheduled",
		Content:         "Body",
		Category:        "local",
		AuthorID:        "anchor-1",
		Published:       true,
		Slug:            "scheduled",
		PublicationDate: time.Now().UTC().Add(time.Hour),
	})

	_, err := service.FetchBySlug(t.Context(), "scheduled")
	require.Error(t, err)
	assert.True(t, persistence.IsArticleNotFound(err))
}

func TestArticle_Delete(t *testing.T) {
	store := file.NewPersistence(t.TempDir())
	service := NewArticle(store)

	seedArticle(t, store, &models.Article{
		ID:              "article-1",
		Title:           "Removable",
		Content:         "Body",
		Category:        "local",
		AuthorID:        "anchor-1",
		Published:       true,
		Slug:            "removable",
		PublicationDate: time.Now().UTC().Add(-time.Hour),
	})

	err := service.Delete(t.Context(), chief, "article-1")
	require.Error(t, err)
	assert.True(t, IsPermissionDenied(err))

	require.NoError(t, service.Delete(t.Context(), admin, "article-1"))

	_, err = service.FetchBySlug(t.Context(), "removable")
	require.Error(t, err)
}
