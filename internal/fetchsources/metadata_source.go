package fetchsources

import (
	"context"
	"fmt"

	fetch "github.com/jsamuelsen11/fetchkit"
	"github.com/jsamuelsen11/fetchkit/internal/domain"
	"github.com/jsamuelsen11/fetchkit/internal/ports"
)

const sourceNameArticleMetadata = "article-metadata"

// MetadataSource batches article-metadata-by-id lookups through a
// ports.BlogClient. It is deliberately backed by a distinct downstream
// endpoint from ArticleSource (GetArticleMetadata vs. GetArticlesByIDs) so
// joining Article(id) with Metadata(id) exercises a genuine multi-source
// Concurrent round rather than a same-source batch.
type MetadataSource struct {
	client ports.BlogClient
}

// NewMetadataSource wraps a BlogClient as a fetch.DataSource keyed by
// article id.
func NewMetadataSource(client ports.BlogClient) *MetadataSource {
	return &MetadataSource{client: client}
}

func (s *MetadataSource) Name() string { return sourceNameArticleMetadata }

func (s *MetadataSource) Identity(id int64) fetch.Identity {
	return fetch.Identity{Source: sourceNameArticleMetadata, Key: id}
}

func (s *MetadataSource) Fetch(ctx context.Context, ids []int64) (map[int64]domain.ArticleMetadata, error) {
	found, err := s.client.GetArticleMetadata(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sourceNameArticleMetadata, err)
	}
	return found, nil
}

// Metadata returns a Fetch that resolves a single article's metadata by id.
func Metadata(source *MetadataSource, id int64) fetch.Fetch[domain.ArticleMetadata] {
	return fetch.FetchOne[int64, domain.ArticleMetadata](source, id)
}
