package fetchsources

import (
	"context"
	"fmt"

	fetch "github.com/jsamuelsen11/fetchkit"
	"github.com/jsamuelsen11/fetchkit/internal/domain"
	"github.com/jsamuelsen11/fetchkit/internal/ports"
)

const sourceNameAuthors = "authors"

// AuthorSource batches author-by-id lookups through a ports.BlogClient.
// It implements fetch.DataSource[int64, domain.Author].
type AuthorSource struct {
	client ports.BlogClient
}

// NewAuthorSource wraps a BlogClient as a fetch.DataSource keyed by author id.
func NewAuthorSource(client ports.BlogClient) *AuthorSource {
	return &AuthorSource{client: client}
}

func (s *AuthorSource) Name() string { return sourceNameAuthors }

func (s *AuthorSource) Identity(id int64) fetch.Identity {
	return fetch.Identity{Source: sourceNameAuthors, Key: id}
}

func (s *AuthorSource) Fetch(ctx context.Context, ids []int64) (map[int64]domain.Author, error) {
	found, err := s.client.GetAuthorsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sourceNameAuthors, err)
	}
	return found, nil
}

// Author returns a Fetch that resolves a single author by id.
func Author(source *AuthorSource, id int64) fetch.Fetch[domain.Author] {
	return fetch.FetchOne[int64, domain.Author](source, id)
}
