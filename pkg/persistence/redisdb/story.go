package redisdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/newsdesk/newsdesk/pkg/models"
	"github.com/newsdesk/newsdesk/pkg/persistence"
)

// StoryRepository handles story records in Redis.
type StoryRepository struct {
	client *redis.Client
}

// NewStoryRepository creates a new story repository.
func NewStoryRepository(client *redis.Client) *StoryRepository {
	return &StoryRepository{client: client}
}

func storyKey(id string) string {
	return keyPrefix + ":stories:" + id
}

const storyIndexKey = keyPrefix + ":stories:index"

// Save writes a story record and maintains the id index.
func (sr *StoryRepository) Save(ctx context.Context, story *models.Story) error {
	now := time.Now().UTC()

	if story.CreatedAt.IsZero() {
		story.CreatedAt = now
	}

	story.UpdatedAt = now

	payload, err := json.Marshal(story)
	if err != nil {
		return fmt.Errorf("failed to marshal story %s: %w", story.ID, err)
	}

	pipe := sr.client.TxPipeline()
	pipe.Set(ctx, storyKey(story.ID), payload, 0)
	pipe.SAdd(ctx, storyIndexKey, story.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return persistence.NewStoryError("Save", story.ID, err)
	}

	return nil
}

// GetByID returns a story by its ID.
func (sr *StoryRepository) GetByID(ctx context.Context, id string) (*models.Story, error) {
	payload, err := sr.client.Get(ctx, storyKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, persistence.NewStoryError("GetByID", id, persistence.ErrStoryNotFound)
		}

		return nil, persistence.NewStoryError("GetByID", id, err)
	}

	var story models.Story

	if err := json.Unmarshal(payload, &story); err != nil {
		return nil, fmt.Errorf("failed to unmarshal story %s: %w", id, err)
	}

	return &story, nil
}

// ListStories loads all indexed stories and filters, sorts and pages in memory.
func (sr *StoryRepository) ListStories(ctx context.Context, opts persistence.ListStoriesOptions) (*persistence.StoryListResult, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 20
	}

	if opts.SortBy == "" {
		opts.SortBy = "created_at"
	}

	if opts.SortOrder == "" {
		opts.SortOrder = "desc"
	}

	allowedSorts := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"title":      true,
	}
	if !allowedSorts[opts.SortBy] {
		return nil, fmt.Errorf("%w: %s", persistence.ErrInvalidSortField, opts.SortBy)
	}

	ids, err := sr.client.SMembers(ctx, storyIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read story index: %w", err)
	}

	filtered := make([]*models.Story, 0, len(ids))

	for _, id := range ids {
		story, err := sr.GetByID(ctx, id)
		if err != nil {
			if persistence.IsStoryNotFound(err) {
				continue // index entry outlived the record
			}

			return nil, err
		}

		if opts.AuthorID != "" && story.AuthorID != opts.AuthorID {
			continue
		}

		if opts.Status != nil && story.Status != *opts.Status {
			continue
		}

		filtered = append(filtered, story)
	}

	sort.Slice(filtered, func(i, j int) bool {
		var less bool

		switch opts.SortBy {
		case "updated_at":
			less = filtered[i].UpdatedAt.Before(filtered[j].UpdatedAt)
		case "title":
			less = filtered[i].Title < filtered[j].Title
		default:
			less = filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
		}

		if opts.SortOrder == "desc" {
			return !less
		}

		return less
	})

	totalCount := int64(len(filtered))
	startIdx := opts.Offset
	endIdx := opts.Offset + opts.Limit

	if startIdx >= len(filtered) {
		return &persistence.StoryListResult{
			Stories:     make([]*models.Story, 0),
			TotalCount:  totalCount,
			HasNextPage: false,
		}, nil
	}

	if endIdx > len(filtered) {
		endIdx = len(filtered)
	}

	return &persistence.StoryListResult{
		Stories:     filtered[startIdx:endIdx],
		TotalCount:  totalCount,
		HasNextPage: endIdx < len(filtered),
	}, nil
}

// UpdateStatus applies a review transition inside an optimistic WATCH
// transaction so the status check and the write are atomic.
func (sr *StoryRepository) UpdateStatus(ctx context.Context, id string, expected models.StoryStatus, update persistence.StatusUpdate) (*models.Story, error) {
	var updated *models.Story

	key := storyKey(id)

	err := sr.client.Watch(ctx, func(tx *redis.Tx) error {
		payload, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return persistence.NewStoryError("UpdateStatus", id, persistence.ErrStoryNotFound)
			}

			return err
		}

		var story models.Story

		if err := json.Unmarshal(payload, &story); err != nil {
			return fmt.Errorf("failed to unmarshal story %s: %w", id, err)
		}

		if story.Status != expected {
			return &persistence.StoryError{
				Op:      "UpdateStatus",
				StoryID: id,
				Err:     persistence.ErrStatusConflict,
				Message: fmt.Sprintf("expected %s, stored %s", expected, story.Status),
			}
		}

		reviewedBy := update.ReviewedBy
		reviewedAt := update.ReviewedAt
		reviewNotes := update.ReviewNotes

		story.Status = update.Status
		story.ReviewedBy = &reviewedBy
		story.ReviewedAt = &reviewedAt
		story.ReviewNotes = &reviewNotes
		story.UpdatedAt = time.Now().UTC()

		next, err := json.Marshal(&story)
		if err != nil {
			return fmt.Errorf("failed to marshal story %s: %w", id, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)

			return nil
		})
		if err != nil {
			return err
		}

		updated = &story

		return nil
	}, key)
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return nil, &persistence.StoryError{
				Op:      "UpdateStatus",
				StoryID: id,
				Err:     persistence.ErrStatusConflict,
				Message: "concurrent write detected",
			}
		}

		return nil, err
	}

	return updated, nil
}

// Delete removes a story record and its index entry.
func (sr *StoryRepository) Delete(ctx context.Context, id string) error {
	removed, err := sr.client.Del(ctx, storyKey(id)).Result()
	if err != nil {
		return persistence.NewStoryError("Delete", id, err)
	}

	if removed == 0 {
		return persistence.NewStoryError("Delete", id, persistence.ErrStoryNotFound)
	}

	if err := sr.client.SRem(ctx, storyIndexKey, id).Err(); err != nil {
		return fmt.Errorf("failed to update story index for %s: %w", id, err)
	}

	return nil
}
