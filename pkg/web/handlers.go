// Package web provides HTTP handlers and REST API endpoints for the editorial workflow.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/newsdesk/newsdesk/pkg/models"
	"github.com/newsdesk/newsdesk/pkg/persistence"
	"github.com/newsdesk/newsdesk/pkg/services"
)

type APIHandlers struct {
	storyService   *services.Story
	articleService *services.Article
	validator      *validator.Validate
}

func NewAPIHandlers(
	storyService *services.Story,
	articleService *services.Article,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		storyService:   storyService,
		articleService: articleService,
		validator:      validator,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.storyService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Newsdesk API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Newsdesk API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) CreateStory(c fiber.Ctx) error {
	var req CreateStoryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.storyService.Create(c.Context(), principalFrom(c), services.CreateStoryRequest{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Excerpt:  req.Excerpt,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateStory(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Story ID is required")
	}

	var req UpdateStoryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.storyService.Update(c.Context(), principalFrom(c), id, services.UpdateStoryRequest{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Excerpt:  req.Excerpt,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) ReviewStory(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Story ID is required")
	}

	var req ReviewStoryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	reviewed, err := h.storyService.Review(
		c.Context(),
		principalFrom(c),
		id,
		models.ReviewAction(req.Action),
		req.Notes,
	)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(reviewed)
}

func (h *APIHandlers) GetStories(c fiber.Ctx) error {
	req, err := h.parseListStoriesRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	result, err := h.storyService.ListStories(c.Context(), principalFrom(c), *req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"stories":       result.Stories,
		"total_count":   result.TotalCount,
		"has_next_page": result.HasNextPage,
		"pagination": fiber.Map{
			"limit":  req.Limit,
			"offset": req.Offset,
		},
		"sorting": fiber.Map{
			"sort_by":    req.SortBy,
			"sort_order": req.SortOrder,
		},
	})
}

// parseListStoriesRequest parses and validates query parameters for listing stories.
func (h *APIHandlers) parseListStoriesRequest(c fiber.Ctx) (*services.ListStoriesRequest, error) {
	req := &services.ListStoriesRequest{}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, err
		}

		req.Limit = limit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, err
		}

		req.Offset = offset
	}

	req.AuthorID = c.Query("author_id")

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.StoryStatus(statusStr)
		req.Status = &status
	}

	req.SortBy = c.Query("sort_by")
	req.SortOrder = c.Query("sort_order")

	return req, nil
}

func (h *APIHandlers) GetStory(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Story ID is required")
	}

	story, err := h.storyService.FetchByID(c.Context(), principalFrom(c), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(story)
}

func (h *APIHandlers) DeleteStory(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Story ID is required")
	}

	err := h.storyService.Delete(c.Context(), principalFrom(c), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetArticles(c fiber.Ctx) error {
	req := services.ListArticlesRequest{
		Category: c.Query("category"),
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return badRequest(c, "Invalid limit parameter")
		}

		req.Limit = limit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return badRequest(c, "Invalid offset parameter")
		}

		req.Offset = offset
	}

	if featuredStr := c.Query("featured"); featuredStr != "" {
		featured, err := strconv.ParseBool(featuredStr)
		if err != nil {
			return badRequest(c, "Invalid featured parameter")
		}

		req.Featured = &featured
	}

	articles, err := h.articleService.ListArticles(c.Context(), req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"articles": articles,
		"pagination": fiber.Map{
			"limit":  req.Limit,
			"offset": req.Offset,
		},
	})
}

func (h *APIHandlers) GetArticle(c fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return badRequest(c, "Article slug is required")
	}

	article, err := h.articleService.FetchBySlug(c.Context(), slug)
	if err != nil {
		if persistence.IsArticleNotFound(err) {
			return notFound(c, "Article not found")
		}

		return internalError(c, err)
	}

	return c.JSON(article)
}
