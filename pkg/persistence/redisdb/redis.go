// Package redisdb provides Redis-backed persistence for stories and articles.
// Records are stored as JSON values with secondary index sets per author and
// status, which keeps listings cheap without a relational engine.
package redisdb

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/newsdesk/newsdesk/pkg/persistence"
)

const keyPrefix = "newsdesk"

// Persistence implements the persistence layer on top of Redis.
type Persistence struct {
	client      *redis.Client
	storyRepo   *StoryRepository
	articleRepo *ArticleRepository
}

// NewPersistence creates a Redis persistence layer from a redis:// URL.
func NewPersistence(ctx context.Context, redisURL string) (*Persistence, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Persistence{
		client:      client,
		storyRepo:   NewStoryRepository(client),
		articleRepo: NewArticleRepository(client),
	}, nil
}

// Close closes the Redis connection.
func (p *Persistence) Close(_ context.Context) error {
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}

// HealthCheck verifies the Redis connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

// StoryRepository returns the story repository backed by Redis.
func (p *Persistence) StoryRepository() persistence.StoryRepository {
	return p.storyRepo
}

// ArticleRepository returns the article repository backed by Redis.
func (p *Persistence) ArticleRepository() persistence.ArticleRepository {
	return p.articleRepo
}
