// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen11/fetchkit/internal/app/fanout"
	"github.com/jsamuelsen11/fetchkit/internal/domain"
	"github.com/jsamuelsen11/fetchkit/internal/ports"
)

// publishReadWorkers bounds how many articles' pre-publish state
// PublishArticles reads concurrently. Unlike the engine's own batching,
// staging a publish issues one read per id (GetArticlesByIDs called with a
// single-element slice), so a bulk publish request fans those reads out
// instead of serializing them one at a time.
const publishReadWorkers = 4

// Compile-time check that ArticleService implements ports.ArticleService.
var _ ports.ArticleService = (*ArticleService)(nil)

// clock lets tests substitute a fixed time for PublishedAt; production code
// always uses time.Now.
type clock func() time.Time

// ArticleService implements ports.ArticleService by orchestrating calls to
// the downstream blog API through the BlogClient port. It reads the current
// entity before staging a write so the staged domain.Action can roll back
// to exactly the prior state if a later action in the same request fails.
type ArticleService struct {
	client ports.BlogClient
	logger *slog.Logger
	now    clock
}

// NewArticleService creates an ArticleService. The client port provides
// access to the downstream blog API. The logger is used for structured
// request/error logging.
func NewArticleService(client ports.BlogClient, logger *slog.Logger) *ArticleService {
	return &ArticleService{client: client, logger: logger, now: time.Now}
}

// PublishArticle stages a write moving the article to domain.StatusPublished
// with PublishedAt stamped to now. The staged action is not applied until
// the caller invokes stager's Commit; if a sibling action staged in the same
// request fails first, this one is rolled back to the pre-publish snapshot
// it read here.
func (s *ArticleService) PublishArticle(ctx context.Context, stager domain.WriteStager, id int64) error {
	s.logger.InfoContext(ctx, "staging article publish", slog.Int64("id", id))

	before, err := s.getArticle(ctx, id)
	if err != nil {
		return fmt.Errorf("reading article %d before publish: %w", id, err)
	}

	after := *before
	publishedAt := s.now()
	after.Status = domain.StatusPublished
	after.PublishedAt = &publishedAt

	if err := after.Validate(); err != nil {
		return err
	}

	action := &publishArticleAction{client: s.client, id: id, before: *before, after: after}
	key := fmt.Sprintf("article:%d", id)
	if err := stager.Stage(key, after, action); err != nil {
		return fmt.Errorf("staging publish for article %d: %w", id, err)
	}
	return nil
}

// PublishArticles stages a publish for every article in ids. The pre-publish
// snapshot for each id is read with at most publishReadWorkers concurrent
// downstream calls via fanout.Run; staging itself still happens in ids
// order so Commit's rollback ordering stays predictable. The first read or
// validation error aborts staging further ids and is returned; articles
// already staged before that point are left staged for the caller's stager
// to roll back along with everything else if Commit fails.
func (s *ArticleService) PublishArticles(ctx context.Context, stager domain.WriteStager, ids []int64) error {
	s.logger.InfoContext(ctx, "staging bulk article publish", slog.Int("count", len(ids)))

	publishedAt := s.now()
	reads := fanout.Run(ctx, publishReadWorkers, ids, func(ctx context.Context, id int64) (*domain.Article, error) {
		return s.getArticle(ctx, id)
	})

	for i, id := range ids {
		if err := reads[i].Err; err != nil {
			return fmt.Errorf("reading article %d before publish: %w", id, err)
		}

		before := reads[i].Value
		after := *before
		after.Status = domain.StatusPublished
		after.PublishedAt = &publishedAt

		if err := after.Validate(); err != nil {
			return err
		}

		action := &publishArticleAction{client: s.client, id: id, before: *before, after: after}
		key := fmt.Sprintf("article:%d", id)
		if err := stager.Stage(key, after, action); err != nil {
			return fmt.Errorf("staging publish for article %d: %w", id, err)
		}
	}
	return nil
}

// UpdateAuthorBio stages a write replacing an author's bio, same
// stage-then-commit contract as PublishArticle.
func (s *ArticleService) UpdateAuthorBio(ctx context.Context, stager domain.WriteStager, authorID int64, bio string) error {
	s.logger.InfoContext(ctx, "staging author bio update", slog.Int64("author_id", authorID))

	before, err := s.getAuthor(ctx, authorID)
	if err != nil {
		return fmt.Errorf("reading author %d before bio update: %w", authorID, err)
	}

	after := *before
	after.Bio = bio

	if err := after.Validate(); err != nil {
		return err
	}

	action := &updateAuthorBioAction{client: s.client, id: authorID, before: *before, after: after}
	key := fmt.Sprintf("author:%d", authorID)
	if err := stager.Stage(key, after, action); err != nil {
		return fmt.Errorf("staging bio update for author %d: %w", authorID, err)
	}
	return nil
}

func (s *ArticleService) getArticle(ctx context.Context, id int64) (*domain.Article, error) {
	found, err := s.client.GetArticlesByIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	a, ok := found[id]
	if !ok {
		return nil, fmt.Errorf("article %d: %w", id, domain.ErrNotFound)
	}
	return &a, nil
}

func (s *ArticleService) getAuthor(ctx context.Context, id int64) (*domain.Author, error) {
	found, err := s.client.GetAuthorsByIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	a, ok := found[id]
	if !ok {
		return nil, fmt.Errorf("author %d: %w", id, domain.ErrNotFound)
	}
	return &a, nil
}
