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

// ArticleRepository handles article records in Redis.
type ArticleRepository struct {
	client *redis.Client
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(client *redis.Client) *ArticleRepository {
	return &ArticleRepository{client: client}
}

func articleKey(id string) string {
	return keyPrefix + ":articles:" + id
}

const (
	articleIndexKey = keyPrefix + ":articles:index"
	articleSlugsKey = keyPrefix + ":articles:slugs"
)

// Save writes an article record and maintains the id and slug indexes.
func (ar *ArticleRepository) Save(ctx context.Context, article *models.Article) error {
	now := time.Now().UTC()

	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}

	article.UpdatedAt = now

	payload, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("failed to marshal article %s: %w", article.ID, err)
	}

	pipe := ar.client.TxPipeline()
	pipe.Set(ctx, articleKey(article.ID), payload, 0)
	pipe.SAdd(ctx, articleIndexKey, article.ID)
	pipe.HSet(ctx, articleSlugsKey, article.Slug, article.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save article %s: %w", article.ID, err)
	}

	return nil
}

// GetByID returns an article by its ID.
func (ar *ArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	payload, err := ar.client.Get(ctx, articleKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("article %s: %w", id, persistence.ErrArticleNotFound)
		}

		return nil, fmt.Errorf("failed to fetch article %s: %w", id, err)
	}

	var article models.Article

	if err := json.Unmarshal(payload, &article); err != nil {
		return nil, fmt.Errorf("failed to unmarshal article %s: %w", id, err)
	}

	if article.DeletedAt != nil {
		return nil, fmt.Errorf("article %s: %w", id, persistence.ErrArticleNotFound)
	}

	return &article, nil
}

// GetBySlug returns an article by its URL slug via the slug index.
func (ar *ArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	id, err := ar.client.HGet(ctx, articleSlugsKey, slug).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("article slug %s: %w", slug, persistence.ErrArticleNotFound)
		}

		return nil, fmt.Errorf("failed to resolve article slug %s: %w", slug, err)
	}

	return ar.GetByID(ctx, id)
}

// ListArticles loads all indexed articles and filters in memory, newest
// publication first.
func (ar *ArticleRepository) ListArticles(ctx context.Context, opts persistence.ListArticlesOptions) ([]*models.Article, error) {
	ids, err := ar.client.SMembers(ctx, articleIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read article index: %w", err)
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	filtered := make([]*models.Article, 0, len(ids))

	for _, id := range ids {
		article, err := ar.GetByID(ctx, id)
		if err != nil {
			if persistence.IsArticleNotFound(err) {
				continue
			}

			return nil, err
		}

		if opts.PublishedOnly && !article.Visible(now) {
			continue
		}

		if opts.Category != "" && article.Category != opts.Category {
			continue
		}

		if opts.Featured != nil && article.Featured != *opts.Featured {
			continue
		}

		filtered = append(filtered, article)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].PublicationDate.After(filtered[j].PublicationDate)
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(filtered) {
			return []*models.Article{}, nil
		}

		filtered = filtered[opts.Offset:]
	}

	if opts.Limit > 0 && opts.Limit < len(filtered) {
		filtered = filtered[:opts.Limit]
	}

	return filtered, nil
}

// Delete removes an article record and its index entries.
func (ar *ArticleRepository) Delete(ctx context.Context, id string) error {
	article, err := ar.GetByID(ctx, id)
	if err != nil {
		return err
	}

	pipe := ar.client.TxPipeline()
	pipe.Del(ctx, articleKey(id))
	pipe.SRem(ctx, articleIndexKey, id)
	pipe.HDel(ctx, articleSlugsKey, article.Slug)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete article %s: %w", id, err)
	}

	return nil
}
