package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/newsdesk/newsdesk/pkg/eventbus"
	"github.com/newsdesk/newsdesk/pkg/events"
	"github.com/newsdesk/newsdesk/pkg/models"
	"github.com/newsdesk/newsdesk/pkg/persistence"
)

var (
	// ErrStoryNotFound is returned when a story is not found.
	ErrStoryNotFound = persistence.ErrStoryNotFound
)

// DirectPublishNote is stamped on a pending story published in one step when
// the reviewer supplies no notes, so the audit trail is never empty on that path.
const DirectPublishNote = "Direct publish by chief author"

// Story runs the editorial workflow: role-gated creation and edits, review
// transitions with audit stamping, and lifecycle event publication.
type Story struct {
	persistence persistence.Persistence
	eventBus    eventbus.EventPublisher
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewStory creates a new story workflow service.
func NewStory(persistence persistence.Persistence, eventBus eventbus.EventPublisher, logger *slog.Logger) *Story {
	return &Story{
		persistence: persistence,
		eventBus:    eventBus,
		validator:   validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger.With("module", "story_service"),
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *Story) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// CreateStoryRequest contains the author-supplied fields of a new story.
type CreateStoryRequest struct {
	Title    string  `validate:"required"`
	Content  string  `validate:"required"`
	Category string  `validate:"required"`
	Excerpt  *string `validate:"omitempty,max=500"`
	ImageURL *string `validate:"omitempty,url"`
}

// Create submits a new story into the review pipeline in pending status.
func (s *Story) Create(ctx context.Context, principal models.Principal, req CreateStoryRequest) (*models.Story, error) {
	if !principal.Can(models.CapabilityCreateStory) {
		return nil, NewPermissionError("Create", "principal is not allowed to create stories")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, NewValidationError("Create", "INVALID_STORY", err.Error(), ErrInvalidRequest)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate story id: %w", err)
	}

	now := time.Now().UTC()
	slug := models.Slugify(req.Title)

	story := &models.Story{
		ID:        id.String(),
		Title:     req.Title,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Category:  req.Category,
		AuthorID:  principal.ID,
		Status:    models.StoryStatusPending,
		ImageURL:  req.ImageURL,
		Slug:      &slug,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.persistence.StoryRepository().Save(ctx, story)
	if err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}

	s.publishEvent(ctx, story.ID, &events.StorySubmitted{
		BaseEvent:  events.NewBaseEvent(events.StorySubmittedEvent, story.ID),
		Title:      story.Title,
		Category:   story.Category,
		AuthorID:   story.AuthorID,
		AuthorName: principal.Name,
	})

	return story, nil
}

// UpdateStoryRequest carries a partial edit of a pending story. Nil fields
// are left untouched.
type UpdateStoryRequest struct {
	Title    *string `validate:"omitempty,min=1"`
	Content  *string `validate:"omitempty,min=1"`
	Category *string `validate:"omitempty,min=1"`
	Excerpt  *string `validate:"omitempty,max=500"`
	ImageURL *string `validate:"omitempty,url"`
}

// Update edits content fields of a story. Edits are author-only and legal
// only while the story is still pending.
func (s *Story) Update(ctx context.Context, principal models.Principal, storyID string, req UpdateStoryRequest) (*models.Story, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, NewValidationError("Update", "INVALID_STORY", err.Error(), ErrInvalidRequest)
	}

	story, err := s.persistence.StoryRepository().GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}

	if principal.ID != story.AuthorID {
		return nil, NewPermissionError("Update", "only the story author may edit it")
	}

	if story.Status != models.StoryStatusPending {
		return nil, NewTransitionError("Update",
			fmt.Sprintf("story in status '%s' is no longer editable", story.Status))
	}

	if req.Title != nil {
		story.Title = *req.Title
		slug := models.Slugify(*req.Title)
		story.Slug = &slug
	}

	if req.Content != nil {
		story.Content = *req.Content
	}

	if req.Category != nil {
		story.Category = *req.Category
	}

	if req.Excerpt != nil {
		story.Excerpt = req.Excerpt
	}

	if req.ImageURL != nil {
		story.ImageURL = req.ImageURL
	}

	story.UpdatedAt = time.Now().UTC()

	err = s.persistence.StoryRepository().Save(ctx, story)
	if err != nil {
		return nil, fmt.Errorf("failed to update story: %w", err)
	}

	return story, nil
}

// Review applies an approve, reject or publish transition. The status change
// and the audit fields commit together as a single conditional write against
// the stored status, so two reviewers racing on the same story cannot both
// succeed from stale state.
func (s *Story) Review(ctx context.Context, principal models.Principal, storyID string, action models.ReviewAction, notes string) (*models.Story, error) {
	if !principal.Can(models.CapabilityReviewStory) {
		return nil, NewPermissionError("Review", "principal is not allowed to review stories")
	}

	story, err := s.persistence.StoryRepository().GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}

	target, err := s.transitionTarget(story.Status, action)
	if err != nil {
		return nil, err
	}

	if action == models.ReviewActionPublish && story.Status == models.StoryStatusPending && notes == "" {
		notes = DirectPublishNote
	}

	update := persistence.StatusUpdate{
		Status:      target,
		ReviewedBy:  principal.ID,
		ReviewedAt:  time.Now().UTC(),
		ReviewNotes: notes,
	}

	reviewed, err := s.persistence.StoryRepository().UpdateStatus(ctx, storyID, story.Status, update)
	if err != nil {
		if persistence.IsStatusConflict(err) {
			return nil, NewTransitionError("Review",
				fmt.Sprintf("story status changed concurrently, '%s' is no longer current", story.Status))
		}

		return nil, fmt.Errorf("failed to apply review transition: %w", err)
	}

	if target == models.StoryStatusPublished {
		s.promoteToArticle(ctx, reviewed)
	}

	s.publishEvent(ctx, reviewed.ID, s.reviewEvent(reviewed, principal, action, notes))

	return reviewed, nil
}

// transitionTarget maps (current status, action) to the resulting status, or
// fails when the edge is not part of the workflow.
func (s *Story) transitionTarget(current models.StoryStatus, action models.ReviewAction) (models.StoryStatus, error) {
	switch action {
	case models.ReviewActionApprove:
		// Re-approving an approved story re-stamps the reviewer, last
		// reviewer wins.
		if current == models.StoryStatusPending || current == models.StoryStatusApproved {
			return models.StoryStatusApproved, nil
		}
	case models.ReviewActionReject:
		if current == models.StoryStatusPending {
			return models.StoryStatusRejected, nil
		}
	case models.ReviewActionPublish:
		if current == models.StoryStatusPending || current == models.StoryStatusApproved {
			return models.StoryStatusPublished, nil
		}
	default:
		return "", NewValidationError("Review", "INVALID_REVIEW_ACTION",
			fmt.Sprintf("unknown review action '%s'", action), ErrInvalidReviewAction)
	}

	return "", NewTransitionError("Review",
		fmt.Sprintf("cannot %s a story in status '%s'", action, current))
}

// FetchByID retrieves a story. Authors see their own stories, reviewers see all.
func (s *Story) FetchByID(ctx context.Context, principal models.Principal, id string) (*models.Story, error) {
	story, err := s.persistence.StoryRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if story.AuthorID != principal.ID && !principal.Can(models.CapabilityListAllStories) {
		return nil, NewPermissionError("FetchByID", "principal may only read their own stories")
	}

	return story, nil
}

// ListStoriesRequest contains options for listing stories.
type ListStoriesRequest struct {
	// Pagination
	Limit  int
	Offset int

	// Filtering
	AuthorID string
	Status   *models.StoryStatus

	// Sorting
	SortBy    string
	SortOrder string
}

// ListStoriesResponse contains the result of listing stories.
type ListStoriesResponse struct {
	Stories     []*models.Story `json:"stories"`
	TotalCount  int64           `json:"total_count"`
	HasNextPage bool            `json:"has_next_page"`
}

// ListStories retrieves stories with filtering, sorting, and pagination.
// Non-reviewers are always scoped to their own stories.
func (s *Story) ListStories(ctx context.Context, principal models.Principal, req ListStoriesRequest) (*ListStoriesResponse, error) {
	if !principal.Can(models.CapabilityListAllStories) {
		if req.AuthorID != "" && req.AuthorID != principal.ID {
			return nil, NewPermissionError("ListStories", "principal may only list their own stories")
		}

		req.AuthorID = principal.ID
	}

	if err := s.validateListStoriesRequest(&req); err != nil {
		return nil, err
	}

	opts := persistence.ListStoriesOptions{
		AuthorID:  req.AuthorID,
		Status:    req.Status,
		Limit:     req.Limit,
		Offset:    req.Offset,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}

	result, err := s.persistence.StoryRepository().ListStories(ctx, opts)
	if err != nil {
		if persistence.IsInvalidSortField(err) {
			return nil, ErrInvalidSortField
		}

		return nil, fmt.Errorf("failed to list stories: %w", err)
	}

	return &ListStoriesResponse{
		Stories:     result.Stories,
		TotalCount:  result.TotalCount,
		HasNextPage: result.HasNextPage,
	}, nil
}

// validateListStoriesRequest validates and sets defaults for the request.
func (s *Story) validateListStoriesRequest(req *ListStoriesRequest) error {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	if req.Limit > 100 {
		req.Limit = 100
	}

	if req.Offset < 0 {
		req.Offset = 0
	}

	if req.SortBy == "" {
		req.SortBy = "created_at"
	}

	if req.SortOrder == "" {
		req.SortOrder = "desc"
	}

	allowedSorts := []string{"created_at", "updated_at", "title"}

	if !slices.Contains(allowedSorts, req.SortBy) {
		return NewValidationError(
			"validateListStoriesRequest",
			"INVALID_SORT_FIELD",
			fmt.Sprintf("invalid sort field '%s', allowed: %s", req.SortBy, strings.Join(allowedSorts, ", ")),
			ErrInvalidSortField,
		)
	}

	if req.SortOrder != "asc" && req.SortOrder != "desc" {
		return NewValidationError(
			"validateListStoriesRequest",
			"INVALID_SORT_ORDER",
			fmt.Sprintf("invalid sort order '%s', allowed: asc, desc", req.SortOrder),
			ErrInvalidSortOrder,
		)
	}

	if req.Status != nil && !models.ValidStoryStatus(*req.Status) {
		return NewValidationError(
			"validateListStoriesRequest",
			"INVALID_STATUS",
			fmt.Sprintf("invalid status '%s'", *req.Status),
			ErrInvalidStatus,
		)
	}

	return nil
}

// Delete removes a story record entirely. Admin only.
func (s *Story) Delete(ctx context.Context, principal models.Principal, storyID string) error {
	if !principal.Can(models.CapabilityDeleteStory) {
		return NewPermissionError("Delete", "only admins may delete stories")
	}

	err := s.persistence.StoryRepository().Delete(ctx, storyID)
	if err != nil {
		return err
	}

	return nil
}

// promoteToArticle materializes the reader-facing article for a freshly
// published story. Best effort: a failure here is logged, the publish
// transition itself has already committed.
func (s *Story) promoteToArticle(ctx context.Context, story *models.Story) {
	id, err := uuid.NewV7()
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate article id", "story_id", story.ID, "error", err)

		return
	}

	slug := ""
	if story.Slug != nil {
		slug = *story.Slug
	}

	if slug == "" {
		slug = models.Slugify(story.Title)
	}

	now := time.Now().UTC()

	article := &models.Article{
		ID:              id.String(),
		Title:           story.Title,
		Excerpt:         story.Excerpt,
		Content:         story.Content,
		ImageURL:        story.ImageURL,
		Category:        story.Category,
		AuthorID:        story.AuthorID,
		Published:       true,
		Slug:            slug,
		PublicationDate: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.persistence.ArticleRepository().Save(ctx, article)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save published article", "story_id", story.ID, "error", err)
	}
}

func (s *Story) reviewEvent(story *models.Story, principal models.Principal, action models.ReviewAction, notes string) eventbus.Event {
	base := events.StoryReviewed{
		Action:       string(action),
		Title:        story.Title,
		Category:     story.Category,
		ReviewerID:   principal.ID,
		ReviewerName: principal.Name,
		ReviewNotes:  notes,
	}

	switch story.Status {
	case models.StoryStatusRejected:
		base.BaseEvent = events.NewBaseEvent(events.StoryRejectedEvent, story.ID)

		return &events.StoryRejected{StoryReviewed: base}
	case models.StoryStatusPublished:
		base.BaseEvent = events.NewBaseEvent(events.StoryPublishedEvent, story.ID)

		slug := ""
		if story.Slug != nil {
			slug = *story.Slug
		}

		return &events.StoryPublished{StoryReviewed: base, Slug: slug}
	default:
		base.BaseEvent = events.NewBaseEvent(events.StoryApprovedEvent, story.ID)

		return &events.StoryApproved{StoryReviewed: base}
	}
}

// publishEvent emits a lifecycle event without blocking or failing the
// operation that triggered it. Delivery failures are logged only.
func (s *Story) publishEvent(ctx context.Context, storyID string, event eventbus.Event) {
	if s.eventBus == nil {
		return
	}

	err := s.eventBus.Publish(ctx, storyID, event)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish story event",
			"story_id", storyID, "event_type", event.GetType(), "error", err)
	}
}
