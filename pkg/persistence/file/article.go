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
	"time"

	"github.com/newsdesk/newsdesk/pkg/models"
	"github.com/newsdesk/newsdesk/pkg/persistence"
)

// ArticleRepository handles article-related file operations.
type ArticleRepository struct {
	root string
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(root string) *ArticleRepository {
	return &ArticleRepository{root: root}
}

// Save writes an article record, refreshing timestamps.
func (ar *ArticleRepository) Save(_ context.Context, article *models.Article) error {
	err := os.MkdirAll(ar.root+"/articles", 0750)
	if err != nil {
		return fmt.Errorf("failed to create articles directory: %w", err)
	}

	now := time.Now().UTC()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}

	article.UpdatedAt = now

	data, err := json.MarshalIndent(article, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal article %s: %w", article.ID, err)
	}

	filePath := path.Join(ar.root+"/articles", article.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}

// GetByID retrieves an article by its ID.
func (ar *ArticleRepository) GetByID(_ context.Context, articleID string) (*models.Article, error) {
	return ar.read(articleID)
}

func (ar *ArticleRepository) read(articleID string) (*models.Article, error) {
	filePath := filepath.Clean(path.Join(ar.root, "articles", articleID+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("article %s: %w", articleID, persistence.ErrArticleNotFound)
		}

		return nil, fmt.Errorf("failed to fetch article %s: %w", articleID, err)
	}

	var article models.Article

	err = json.Unmarshal(body, &article)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal article %s: %w", articleID, err)
	}

	return &article, nil
}

// GetBySlug retrieves an article by its URL slug.
func (ar *ArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	articles, err := ar.loadAll()
	if err != nil {
		return nil, err
	}

	for _, article := range articles {
		if article.Slug == slug && article.DeletedAt == nil {
			return article, nil
		}
	}

	return nil, fmt.Errorf("article slug %s: %w", slug, persistence.ErrArticleNotFound)
}

// ListArticles returns filtered articles, newest publication first.
func (ar *ArticleRepository) ListArticles(_ context.Context, opts persistence.ListArticlesOptions) ([]*models.Article, error) {
	articles, err := ar.loadAll()
	if err != nil {
		return nil, err
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	filtered := make([]*models.Article, 0, len(articles))

	for _, article := range articles {
		if article.DeletedAt != nil {
			continue
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

func (ar *ArticleRepository) loadAll() ([]*models.Article, error) {
	root := os.DirFS(ar.root + "/articles")

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list article files: %w", err)
	}

	articles := make([]*models.Article, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		articleID := file[:len(file)-5]

		article, err := ar.read(articleID)
		if err != nil {
			if persistence.IsArticleNotFound(err) {
				continue
			}

			return nil, err
		}

		articles = append(articles, article)
	}

	return articles, nil
}

// Delete removes an article by its ID.
func (ar *ArticleRepository) Delete(_ context.Context, id string) error {
	filePath := path.Join(ar.root+"/articles", id+".json")

	err := os.Remove(filePath)

	if err != nil && os.IsNotExist(err) {
		return fmt.Errorf("article %s: %w", id, persistence.ErrArticleNotFound)
	}

	if err != nil {
		return fmt.Errorf("failed to delete article %s: %w", id, err)
	}

	return nil
}
