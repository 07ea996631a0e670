package services

import (
	"context"
	"fmt"
	"time"

	"github.com/newsdesk/newsdesk/pkg/models"
	"github.com/newsdesk/newsdesk/pkg/persistence"
)

var (
	// ErrArticleNotFound is returned when an article is not found.
	ErrArticleNotFound = persistence.ErrArticleNotFound
)

// Article serves the reader-facing side: published articles only, filtered by
// category or featured flag, never exposing unpublished or future-dated records.
type Article struct {
	persistence persistence.Persistence
}

// NewArticle creates a new public article service.
func NewArticle(persistence persistence.Persistence) *Article {
	return &Article{
		persistence: persistence,
	}
}

// ListArticlesRequest contains options for the public article listing.
type ListArticlesRequest struct {
	Category string
	Featured *bool
	Limit    int
	Offset   int
}

// ListArticles returns currently visible articles, newest first.
func (a *Article) ListArticles(ctx context.Context, req ListArticlesRequest) ([]*models.Article, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	if req.Limit > 100 {
		req.Limit = 100
	}

	if req.Offset < 0 {
		req.Offset = 0
	}

	opts := persistence.ListArticlesOptions{
		Category:      req.Category,
		Featured:      req.Featured,
		PublishedOnly: true,
		Now:           time.Now().UTC(),
		Limit:         req.Limit,
		Offset:        req.Offset,
	}

	articles, err := a.persistence.ArticleRepository().ListArticles(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	return articles, nil
}

// FetchBySlug retrieves a visible article by its URL slug.
func (a *Article) FetchBySlug(ctx context.Context, slug string) (*models.Article, error) {
	article, err := a.persistence.ArticleRepository().GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if !article.Visible(time.Now().UTC()) {
		return nil, ErrArticleNotFound
	}

	return article, nil
}

// Delete soft-deletes an article, removing it from public pages. Admin only.
func (a *Article) Delete(ctx context.Context, principal models.Principal, id string) error {
	if !principal.Can(models.CapabilityDeleteStory) {
		return NewPermissionError("Delete", "only admins may delete articles")
	}

	return a.persistence.ArticleRepository().Delete(ctx, id)
}
