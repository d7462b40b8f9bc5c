package ports

import (
	"context"

	"github.com/jsamuelsen11/fetchkit/internal/domain"
)

// BlogClient defines the outbound client port for the downstream blog API.
// Implemented by the blogapi ACL adapter; called both by the write-side
// application services and by the engine's data sources
// (internal/fetchsources), which batch GetArticlesByIDs/GetAuthorsByIDs
// calls rather than issuing one request per id.
type BlogClient interface {
	// ListArticles returns articles matching the given filter criteria.
	// Pass a zero-value PostFilter to list all articles.
	ListArticles(ctx context.Context, filter domain.PostFilter) ([]domain.Article, error)

	// GetArticlesByIDs resolves a batch of article ids at once. The
	// returned map contains an entry for every id found; ids with no
	// matching article are simply absent (the caller — a
	// fetch.DataSource — maps a missing entry to ErrMissingIdentity).
	GetArticlesByIDs(ctx context.Context, ids []int64) (map[int64]domain.Article, error)

	// CreateArticle creates a new article and returns the created entity.
	CreateArticle(ctx context.Context, article *domain.Article) (*domain.Article, error)

	// UpdateArticle updates an existing article and returns the updated
	// entity. Returns domain.ErrNotFound if the article does not exist.
	UpdateArticle(ctx context.Context, id int64, article *domain.Article) (*domain.Article, error)

	// GetAuthorsByIDs resolves a batch of author ids at once, same
	// contract as GetArticlesByIDs.
	GetAuthorsByIDs(ctx context.Context, ids []int64) (map[int64]domain.Author, error)

	// UpdateAuthor updates an existing author's profile and returns the
	// updated entity. Returns domain.ErrNotFound if the author does not
	// exist.
	UpdateAuthor(ctx context.Context, id int64, author *domain.Author) (*domain.Author, error)

	// GetArticleMetadata resolves lightweight per-article metadata (view
	// counts, reading time) for a batch of article ids, modeled as a
	// distinct downstream endpoint/data source from GetArticlesByIDs so
	// joining it with an article or author lookup exercises a genuine
	// multi-source Concurrent round rather than a same-source batch.
	GetArticleMetadata(ctx context.Context, ids []int64) (map[int64]domain.ArticleMetadata, error)
}
