// Package persistence provides the data storage abstraction for stories and articles.
package persistence

import (
	"context"
	"time"

	"github.com/newsdesk/newsdesk/pkg/models"
)

// Persistence is the storage boundary consumed by the services layer. Adapters
// exist for PostgreSQL, Redis and the local file system.
type Persistence interface {
	StoryRepository() StoryRepository
	ArticleRepository() ArticleRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// ListStoriesOptions filters and pages story listings.
type ListStoriesOptions struct {
	AuthorID string
	Status   *models.StoryStatus

	Limit  int
	Offset int

	SortBy    string // created_at, updated_at, title
	SortOrder string // asc, desc
}

// StoryListResult carries one page of stories plus pagination metadata.
type StoryListResult struct {
	Stories     []*models.Story
	TotalCount  int64
	HasNextPage bool
}

// StatusUpdate is the atomic payload of a review transition: the new status
// and the audit fields, always written together.
type StatusUpdate struct {
	Status      models.StoryStatus
	ReviewedBy  string
	ReviewedAt  time.Time
	ReviewNotes string
}

// StoryRepository handles story record storage.
type StoryRepository interface {
	Save(ctx context.Context, story *models.Story) error
	GetByID(ctx context.Context, id string) (*models.Story, error)
	ListStories(ctx context.Context, opts ListStoriesOptions) (*StoryListResult, error)

	// UpdateStatus applies a review transition as a conditional write: the
	// update commits only if the stored status still equals expected, so the
	// transition's legality is always evaluated against the freshest state.
	// Returns ErrStatusConflict when the stored status has moved on.
	UpdateStatus(ctx context.Context, id string, expected models.StoryStatus, update StatusUpdate) (*models.Story, error)

	Delete(ctx context.Context, id string) error
}

// ListArticlesOptions filters public article listings.
type ListArticlesOptions struct {
	Category      string
	Featured      *bool
	PublishedOnly bool
	Now           time.Time // publication-date cutoff when PublishedOnly is set
	Limit         int
	Offset        int
}

// ArticleRepository handles reader-facing article storage.
type ArticleRepository interface {
	Save(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	ListArticles(ctx context.Context, opts ListArticlesOptions) ([]*models.Article, error)
	Delete(ctx context.Context, id string) error
}
