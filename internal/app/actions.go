package app

import (
	"context"
	"fmt"

	"github.com/jsamuelsen11/fetchkit/internal/domain"
	"github.com/jsamuelsen11/fetchkit/internal/ports"
)

// publishArticleAction moves an article to domain.StatusPublished, stamping
// PublishedAt. Rollback restores the article's prior status/timestamp via a
// second downstream UpdateArticle call.
type publishArticleAction struct {
	client ports.BlogClient
	id     int64
	before domain.Article
	after  domain.Article
}

func (a *publishArticleAction) Execute(ctx context.Context) error {
	_, err := a.client.UpdateArticle(ctx, a.id, &a.after)
	if err != nil {
		return fmt.Errorf("publishing article %d: %w", a.id, err)
	}
	return nil
}

func (a *publishArticleAction) Rollback(ctx context.Context) error {
	_, err := a.client.UpdateArticle(ctx, a.id, &a.before)
	if err != nil {
		return fmt.Errorf("rolling back publish of article %d: %w", a.id, err)
	}
	return nil
}

func (a *publishArticleAction) Description() string {
	return fmt.Sprintf("publish article %d", a.id)
}

// updateAuthorBioAction replaces an author's bio. Rollback restores the
// previous bio.
type updateAuthorBioAction struct {
	client ports.BlogClient
	id     int64
	before domain.Author
	after  domain.Author
}

func (a *updateAuthorBioAction) Execute(ctx context.Context) error {
	_, err := a.client.UpdateAuthor(ctx, a.id, &a.after)
	if err != nil {
		return fmt.Errorf("updating author %d bio: %w", a.id, err)
	}
	return nil
}

func (a *updateAuthorBioAction) Rollback(ctx context.Context) error {
	_, err := a.client.UpdateAuthor(ctx, a.id, &a.before)
	if err != nil {
		return fmt.Errorf("rolling back author %d bio: %w", a.id, err)
	}
	return nil
}

func (a *updateAuthorBioAction) Description() string {
	return fmt.Sprintf("update author %d bio", a.id)
}
