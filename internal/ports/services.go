package ports

import (
	"context"

	"github.com/jsamuelsen11/fetchkit/internal/domain"
)

// ArticleService defines the service port for the blog's write side.
// Implemented by the application layer (internal/app); called by inbound
// adapters (handlers). Reads are not part of this port — they flow through
// the fetch engine directly (internal/fetchsources), which is the whole
// point of this repository. ArticleService exists for the operations the
// engine deliberately does not model: writes.
type ArticleService interface {
	// PublishArticle stages a write that moves an article to
	// domain.StatusPublished and stamps PublishedAt, executing it through
	// the WriteStager so it can be rolled back if a later staged action
	// in the same request fails.
	//
	// Returns domain.ErrNotFound if the article does not exist, or
	// domain.ErrValidation if the resulting article fails validation.
	PublishArticle(ctx context.Context, stager domain.WriteStager, id int64) error

	// UpdateAuthorBio stages a write to an author's bio, same
	// stage-then-commit contract as PublishArticle.
	UpdateAuthorBio(ctx context.Context, stager domain.WriteStager, authorID int64, bio string) error

	// PublishArticles stages a publish for every id in ids, reading each
	// article's pre-publish snapshot with bounded concurrency rather than
	// one id at a time. Staging then happens in ids order: the first read
	// or validation error aborts staging of that id and every later one,
	// and whatever was staged before it remains subject to the stager's
	// own rollback once Commit runs.
	PublishArticles(ctx context.Context, stager domain.WriteStager, ids []int64) error
}
