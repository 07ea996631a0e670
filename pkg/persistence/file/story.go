package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/newsdesk/newsdesk/pkg/models"
	"github.com/newsdesk/newsdesk/pkg/persistence"
)

// StoryRepository handles story-related file operations.
type StoryRepository struct {
	root string

	// Guards read-modify-write cycles so UpdateStatus stays conditional even
	// with concurrent callers in the same process.
	mu sync.Mutex
}

// NewStoryRepository creates a new story repository.
func NewStoryRepository(root string) *StoryRepository {
	return &StoryRepository{root: root}
}

// Save writes a story record, refreshing timestamps.
func (sr *StoryRepository) Save(_ context.Context, story *models.Story) error {
	err := os.MkdirAll(sr.root+"/stories", 0750)
	if err != nil {
		return fmt.Errorf("failed to create stories directory: %w", err)
	}

	now := time.Now().UTC()
	if story.CreatedAt.IsZero() {
		story.CreatedAt = now
	}

	story.UpdatedAt = now

	data, err := json.MarshalIndent(story, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal story %s: %w", story.ID, err)
	}

	filePath := path.Join(sr.root+"/stories", story.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}

// GetByID retrieves a story by its ID from the file system.
func (sr *StoryRepository) GetByID(_ context.Context, storyID string) (*models.Story, error) {
	return sr.read(storyID)
}

func (sr *StoryRepository) read(storyID string) (*models.Story, error) {
	filePath := filepath.Clean(path.Join(sr.root, "stories", storyID+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewStoryError("GetByID", storyID, persistence.ErrStoryNotFound)
		}

		return nil, fmt.Errorf("failed to fetch story %s: %w", storyID, err)
	}

	var story models.Story

	err = json.Unmarshal(body, &story)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal story %s: %w", storyID, err)
	}

	return &story, nil
}

// ListStories returns paginated and filtered stories with in-memory operations.
func (sr *StoryRepository) ListStories(_ context.Context, opts persistence.ListStoriesOptions) (*persistence.StoryListResult, error) {
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

	root := os.DirFS(sr.root + "/stories")

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list story files: %w", err)
	}

	allStories := make([]*models.Story, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		storyID := file[:len(file)-5] // Remove .json extension

		story, err := sr.read(storyID)
		if err != nil {
			if persistence.IsStoryNotFound(err) {
				continue
			}

			return nil, fmt.Errorf("failed to load story %s: %w", storyID, err)
		}

		allStories = append(allStories, story)
	}

	filtered := make([]*models.Story, 0, len(allStories))

	for _, story := range allStories {
		if opts.AuthorID != "" && story.AuthorID != opts.AuthorID {
			continue
		}

		if opts.Status != nil && story.Status != *opts.Status {
			continue
		}

		filtered = append(filtered, story)
	}

	sr.sortStories(filtered, opts.SortBy, opts.SortOrder)

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

// sortStories sorts stories in-place based on the specified field and order.
func (sr *StoryRepository) sortStories(stories []*models.Story, sortBy, sortOrder string) {
	sort.Slice(stories, func(i, j int) bool {
		var less bool

		switch sortBy {
		case "updated_at":
			less = stories[i].UpdatedAt.Before(stories[j].UpdatedAt)
		case "title":
			less = stories[i].Title < stories[j].Title
		default:
			less = stories[i].CreatedAt.Before(stories[j].CreatedAt)
		}

		if sortOrder == "desc" {
			return !less
		}

		return less
	})
}

// UpdateStatus applies a review transition conditionally: it commits only if
// the stored status still equals expected.
func (sr *StoryRepository) UpdateStatus(ctx context.Context, id string, expected models.StoryStatus, update persistence.StatusUpdate) (*models.Story, error) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	story, err := sr.read(id)
	if err != nil {
		return nil, err
	}

	if story.Status != expected {
		return nil, &persistence.StoryError{
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

	if err := sr.Save(ctx, story); err != nil {
		return nil, fmt.Errorf("failed to persist status update for story %s: %w", id, err)
	}

	return story, nil
}

// Delete removes a story by its ID.
func (sr *StoryRepository) Delete(_ context.Context, id string) error {
	filePath := path.Join(sr.root+"/stories", id+".json")

	err := os.Remove(filePath)

	if err != nil && os.IsNotExist(err) {
		return persistence.NewStoryError("Delete", id, persistence.ErrStoryNotFound)
	}

	if err != nil {
		return fmt.Errorf("failed to delete story %s: %w", id, err)
	}

	return nil
}
