package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/newsdesk/newsdesk/pkg/models"
	"github.com/newsdesk/newsdesk/pkg/persistence"
)

// ArticleRepository handles article-related database operations.
type ArticleRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(db *sql.DB, logger *slog.Logger) *ArticleRepository {
	return &ArticleRepository{db: db, logger: logger}
}

const articleColumns = `
	id
  , title
  , excerpt
  , content
  , image_url
  , category
  , author_id
  , author_name
  , author_email
  , published
  , featured
  , slug
  , publication_date
  , created_at
  , updated_at
  , deleted_at
`

// Save inserts or updates an article record.
func (r *ArticleRepository) Save(ctx context.Context, article *models.Article) error {
	now := time.Now().UTC()

	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}

	article.UpdatedAt = now

	query := `
		INSERT INTO articles (id, title, excerpt, content, image_url, category, author_id,
author_name, author_email, published, featured, slug, publication_date, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			excerpt = EXCLUDED.excerpt,
			content = EXCLUDED.content,
			image_url = EXCLUDED.image_url,
			category = EXCLUDED.category,
			author_name = EXCLUDED.author_name,
			author_email = EXCLUDED.author_email,
			published = EXCLUDED.published,
			featured = EXCLUDED.featured,
			slug = EXCLUDED.slug,
			publication_date = EXCLUDED.publication_date,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at
	`

	_, err := r.db.ExecContext(ctx, query,
		article.ID,
		article.Title,
		article.Excerpt,
		article.Content,
		article.ImageURL,
		article.Category,
		article.AuthorID,
		article.AuthorName,
		article.AuthorEmail,
		article.Published,
		article.Featured,
		article.Slug,
		article.PublicationDate,
		article.CreatedAt,
		article.UpdatedAt,
		article.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save article %s: %w", article.ID, err)
	}

	return nil
}

// GetByID returns an article by its ID.
func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1 AND deleted_at IS NULL`

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("article %s: %w", id, persistence.ErrArticleNotFound)
		}

		return nil, fmt.Errorf("failed to scan article %s: %w", id, err)
	}

	return article, nil
}

// GetBySlug returns an article by its URL slug.
func (r *ArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE slug = $1 AND deleted_at IS NULL`

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("article slug %s: %w", slug, persistence.ErrArticleNotFound)
		}

		return nil, fmt.Errorf("failed to scan article slug %s: %w", slug, err)
	}

	return article, nil
}

// ListArticles returns filtered articles, newest publication first.
func (r *ArticleRepository) ListArticles(ctx context.Context, opts persistence.ListArticlesOptions) ([]*models.Article, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := make([]any, 0, 4)

	if opts.PublishedOnly {
		now := opts.Now
		if now.IsZero() {
			now = time.Now().UTC()
		}

		args = append(args, now)
		conditions = append(conditions, fmt.Sprintf("published = true AND publication_date <= $%d", len(args)))
	}

	if opts.Category != "" {
		args = append(args, opts.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}

	if opts.Featured != nil {
		args = append(args, *opts.Featured)
		conditions = append(conditions, fmt.Sprintf("featured = $%d", len(args)))
	}

	query := `SELECT ` + articleColumns + ` FROM articles WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY publication_date DESC`

	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	articles := make([]*models.Article, 0)

	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}

		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating articles: %w", err)
	}

	return articles, nil
}

// Delete soft deletes an article by setting deleted_at.
func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE articles SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete article %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("article %s: %w", id, persistence.ErrArticleNotFound)
	}

	return nil
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var article models.Article

	err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Excerpt,
		&article.Content,
		&article.ImageURL,
		&article.Category,
		&article.AuthorID,
		&article.AuthorName,
		&article.AuthorEmail,
		&article.Published,
		&article.Featured,
		&article.Slug,
		&article.PublicationDate,
		&article.CreatedAt,
		&article.UpdatedAt,
		&article.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	return &article, nil
}
