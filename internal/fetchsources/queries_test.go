package fetchsources_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fetch "github.com/jsamuelsen11/fetchkit"
	"github.com/jsamuelsen11/fetchkit/internal/domain"
	"github.com/jsamuelsen11/fetchkit/internal/fetchsources"
)

// fakeBlogClient is a minimal ports.BlogClient double for exercising the
// data sources without a network call.
type fakeBlogClient struct {
	articleCalls  [][]int64
	metadataCalls [][]int64
	authorCalls   [][]int64
}

func (f *fakeBlogClient) ListArticles(context.Context, domain.PostFilter) ([]domain.Article, error) {
	return nil, nil
}

func (f *fakeBlogClient) GetArticlesByIDs(_ context.Context, ids []int64) (map[int64]domain.Article, error) {
	f.articleCalls = append(f.articleCalls, ids)
	out := make(map[int64]domain.Article, len(ids))
	for _, id := range ids {
		out[id] = domain.Article{ID: id, Title: "post", Summary: "s", Status: domain.StatusPublished, AuthorID: id + 10}
	}
	return out, nil
}

func (f *fakeBlogClient) CreateArticle(context.Context, *domain.Article) (*domain.Article, error) {
	return nil, nil
}

func (f *fakeBlogClient) UpdateArticle(context.Context, int64, *domain.Article) (*domain.Article, error) {
	return nil, nil
}

func (f *fakeBlogClient) GetAuthorsByIDs(_ context.Context, ids []int64) (map[int64]domain.Author, error) {
	f.authorCalls = append(f.authorCalls, ids)
	out := make(map[int64]domain.Author, len(ids))
	for _, id := range ids {
		out[id] = domain.Author{ID: id, Handle: "author"}
	}
	return out, nil
}

func (f *fakeBlogClient) UpdateAuthor(context.Context, int64, *domain.Author) (*domain.Author, error) {
	return nil, nil
}

func (f *fakeBlogClient) GetArticleMetadata(_ context.Context, ids []int64) (map[int64]domain.ArticleMetadata, error) {
	f.metadataCalls = append(f.metadataCalls, ids)
	out := make(map[int64]domain.ArticleMetadata, len(ids))
	for _, id := range ids {
		out[id] = domain.ArticleMetadata{ArticleID: id, Views: id * 100}
	}
	return out, nil
}

func TestFeedWithDetails_TwoRounds(t *testing.T) {
	client := &fakeBlogClient{}
	s := fetchsources.Sources{
		Articles: fetchsources.NewArticleSource(client),
		Authors:  fetchsources.NewAuthorSource(client),
		Metadata: fetchsources.NewMetadataSource(client),
	}

	posts, env, err := fetch.RunWithEnv(context.Background(), fetchsources.FeedWithDetails(s, []int64{1, 2, 3, 4, 5}))
	require.NoError(t, err)
	require.Len(t, posts, 5)
	assert.Equal(t, domain.ArticleMetadata{ArticleID: 1, Views: 100}, posts[0].Metadata)
	assert.Equal(t, "author", posts[0].Author.Handle)

	rounds := env.Rounds()
	require.Len(t, rounds, 2)
	assert.Equal(t, fetch.KindMany, rounds[0].Description.Kind)
	assert.Equal(t, fetch.KindConcurrent, rounds[1].Description.Kind)

	assert.Len(t, client.articleCalls, 1)
	assert.Len(t, client.metadataCalls, 1)
	assert.Len(t, client.authorCalls, 1)
}

func TestArticle_SingleFetch(t *testing.T) {
	client := &fakeBlogClient{}
	source := fetchsources.NewArticleSource(client)

	a, err := fetch.Run(context.Background(), fetchsources.Article(source, 7))
	require.NoError(t, err)
	assert.Equal(t, int64(7), a.ID)
}
