// Package main provides the Newsdesk API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/newsdesk/newsdesk/pkg/eventbus"
	"github.com/newsdesk/newsdesk/pkg/persistence"
	"github.com/newsdesk/newsdesk/pkg/services"
	"github.com/newsdesk/newsdesk/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	storyService := services.NewStory(a.persistence, a.eventBus, a.logger)
	articleService := services.NewArticle(a.persistence)

	handlers := web.NewAPIHandlers(storyService, articleService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Newsdesk API")
	})

	stories := app.Group("/stories", web.RequirePrincipal())
	stories.Get("/", handlers.GetStories)
	stories.Post("/", handlers.CreateStory)
	stories.Get("/:id", handlers.GetStory)
	stories.Patch("/:id", handlers.UpdateStory)
	stories.Post("/:id/review", handlers.ReviewStory)
	stories.Delete("/:id", handlers.DeleteStory)

	// Reader-facing endpoints, no identity required.
	articles := app.Group("/articles")
	articles.Get("/", handlers.GetArticles)
	articles.Get("/:slug", handlers.GetArticle)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
