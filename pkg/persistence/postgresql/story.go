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

// StoryRepository handles story-related database operations.
type StoryRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStoryRepository creates a new story repository.
func NewStoryRepository(db *sql.DB, logger *slog.Logger) *StoryRepository {
	return &StoryRepository{db: db, logger: logger}
}

const storyColumns = `
	id
  , title
  , content
  , excerpt
  , category
  , author_id
  , status
  , image_url
  , slug
  , reviewed_by
  , reviewed_at
  , review_notes
  , created_at
  , updated_at
`

// Save inserts or updates a story record.
func (r *StoryRepository) Save(ctx context.Context, story *models.Story) error {
	now := time.Now().UTC()

	if story.CreatedAt.IsZero() {
		story.CreatedAt = now
	}

	story.UpdatedAt = now

	query := `
		INSERT INTO stories (id, title, content, excerpt, category, author_id, status,
image_url, slug, reviewed_by, reviewed_at, review_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			excerpt = EXCLUDED.excerpt,
			category = EXCLUDED.category,
			status = EXCLUDED.status,
			image_url = EXCLUDED.image_url,
			slug = EXCLUDED.slug,
			reviewed_by = EXCLUDED.reviewed_by,
			reviewed_at = EXCLUDED.reviewed_at,
			review_notes = EXCLUDED.review_notes,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		story.ID,
		story.Title,
		story.Content,
		story.Excerpt,
		story.Category,
		story.AuthorID,
		story.Status,
		story.ImageURL,
		story.Slug,
		story.ReviewedBy,
		story.ReviewedAt,
		story.ReviewNotes,
		story.CreatedAt,
		story.UpdatedAt,
	)
	if err != nil {
		return persistence.NewStoryError("Save", story.ID, err)
	}

	return nil
}

// GetByID returns a story by its ID.
func (r *StoryRepository) GetByID(ctx context.Context, id string) (*models.Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)

	story, err := scanStory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewStoryError("GetByID", id, persistence.ErrStoryNotFound)
		}

		return nil, persistence.NewStoryError("GetByID", id, err)
	}

	return story, nil
}

// ListStories returns filtered, sorted and paginated stories.
func (r *StoryRepository) ListStories(ctx context.Context, opts persistence.ListStoriesOptions) (*persistence.StoryListResult, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 20
	}

	if opts.SortBy == "" {
		opts.SortBy = "created_at"
	}

	if opts.SortOrder == "" {
		opts.SortOrder = "desc"
	}

	// Sort fields are interpolated into SQL; keep the allowlist strict.
	allowedSorts := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"title":      true,
	}
	if !allowedSorts[opts.SortBy] {
		return nil, fmt.Errorf("%w: %s", persistence.ErrInvalidSortField, opts.SortBy)
	}

	order := "DESC"
	if strings.EqualFold(opts.SortOrder, "asc") {
		order = "ASC"
	}

	conditions := make([]string, 0, 2)
	args := make([]any, 0, 4)

	if opts.AuthorID != "" {
		args = append(args, opts.AuthorID)
		conditions = append(conditions, fmt.Sprintf("author_id = $%d", len(args)))
	}

	if opts.Status != nil {
		args = append(args, *opts.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var totalCount int64

	countQuery := `SELECT COUNT(*) FROM stories` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to count stories: %w", err)
	}

	args = append(args, opts.Limit, opts.Offset)
	listQuery := fmt.Sprintf(`SELECT %s FROM stories%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		storyColumns, where, opts.SortBy, order, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stories: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	stories := make([]*models.Story, 0)

	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}

		stories = append(stories, story)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stories: %w", err)
	}

	return &persistence.StoryListResult{
		Stories:     stories,
		TotalCount:  totalCount,
		HasNextPage: int64(opts.Offset+len(stories)) < totalCount,
	}, nil
}

// UpdateStatus applies a review transition as a single conditional UPDATE so
// the legality check always runs against the stored status, not a cached copy.
func (r *StoryRepository) UpdateStatus(ctx context.Context, id string, expected models.StoryStatus, update persistence.StatusUpdate) (*models.Story, error) {
	query := `
		UPDATE stories SET
			status = $1,
			reviewed_by = $2,
			reviewed_at = $3,
			review_notes = $4,
			updated_at = $5
		WHERE id = $6 AND status = $7
		RETURNING ` + storyColumns

	row := r.db.QueryRowContext(ctx, query,
		update.Status,
		update.ReviewedBy,
		update.ReviewedAt,
		update.ReviewNotes,
		time.Now().UTC(),
		id,
		expected,
	)

	story, err := scanStory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Either the story is gone or its status moved on; look again to
			// report the right error.
			if _, getErr := r.GetByID(ctx, id); persistence.IsStoryNotFound(getErr) {
				return nil, persistence.NewStoryError("UpdateStatus", id, persistence.ErrStoryNotFound)
			}

			return nil, &persistence.StoryError{
				Op:      "UpdateStatus",
				StoryID: id,
				Err:     persistence.ErrStatusConflict,
				Message: fmt.Sprintf("expected %s", expected),
			}
		}

		return nil, persistence.NewStoryError("UpdateStatus", id, err)
	}

	return story, nil
}

// Delete removes a story record.
func (r *StoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stories WHERE id = $1`, id)
	if err != nil {
		return persistence.NewStoryError("Delete", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return persistence.NewStoryError("Delete", id, persistence.ErrStoryNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStory(row rowScanner) (*models.Story, error) {
	var story models.Story

	err := row.Scan(
		&story.ID,
		&story.Title,
		&story.Content,
		&story.Excerpt,
		&story.Category,
		&story.AuthorID,
		&story.Status,
		&story.ImageURL,
		&story.Slug,
		&story.ReviewedBy,
		&story.ReviewedAt,
		&story.ReviewNotes,
		&story.CreatedAt,
		&story.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &story, nil
}
