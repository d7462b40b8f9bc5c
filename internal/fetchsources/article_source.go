package fetchsources

import (
	"context"
	"fmt"

	fetch "github.com/jsamuelsen11/fetchkit"
	"github.com/jsamuelsen11/fetchkit/internal/domain"
	"github.com/jsamuelsen11/fetchkit/internal/ports"
)

// sourceNameArticles is the label the executor uses to group blocked
// requests against this source, and the name every Round referencing it
// carries for diagnostics.
const sourceNameArticles = "articles"

// ArticleSource batches article-by-id lookups through a ports.BlogClient.
// It implements fetch.DataSource[int64, domain.Article].
type ArticleSource struct {
	client ports.BlogClient
}

// NewArticleSource wraps a BlogClient as a fetch.DataSource keyed by
// article id.
func NewArticleSource(client ports.BlogClient) *ArticleSource {
	return &ArticleSource{client: client}
}

func (s *ArticleSource) Name() string { return sourceNameArticles }

func (s *ArticleSource) Identity(id int64) fetch.Identity {
	return fetch.Identity{Source: sourceNameArticles, Key: id}
}

// Fetch resolves a batch of article ids in one call to
// BlogClient.GetArticlesByIDs. An id with no matching article is reported
// as fetch.ErrMissingIdentity by the executor, not by this method — Fetch
// only needs to return what it found.
func (s *ArticleSource) Fetch(ctx context.Context, ids []int64) (map[int64]domain.Article, error) {
	found, err := s.client.GetArticlesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sourceNameArticles, err)
	}
	return found, nil
}

// Article returns a Fetch that resolves a single article by id, batching
// and caching automatically with every other FetchOne against this source
// in the same round.
func Article(source *ArticleSource, id int64) fetch.Fetch[domain.Article] {
	return fetch.FetchOne[int64, domain.Article](source, id)
}
