package fetchsources

import (
	fetch "github.com/jsamuelsen11/fetchkit"
	"github.com/jsamuelsen11/fetchkit/internal/domain"
)

// PostDetail pairs an article with its metadata and author, the latter two
// fetched concurrently from two distinct downstream endpoints.
type PostDetail struct {
	Article  domain.Article
	Metadata domain.ArticleMetadata
	Author   domain.Author
}

// Sources bundles the three data sources the blog demo needs. Handlers take
// one of these rather than three separate *XSource parameters.
type Sources struct {
	Articles *ArticleSource
	Authors  *AuthorSource
	Metadata *MetadataSource
}

// PostWithDetail resolves one article's detail: its metadata and its
// author, joined from two independent sources. Used as the per-item step in
// FeedWithDetails; joining metadata with author here (rather than fetching
// them sequentially) is what lets multiple articles' metadata/author
// lookups fuse into a single Concurrent round across the whole feed.
func PostWithDetail(s Sources, article domain.Article) fetch.Fetch[PostDetail] {
	return fetch.Map(
		fetch.Join(Metadata(s.Metadata, article.ID), Author(s.Authors, article.AuthorID)),
		func(p fetch.Pair[domain.ArticleMetadata, domain.Author]) PostDetail {
			return PostDetail{Article: article, Metadata: p.First, Author: p.Second}
		},
	)
}

// FeedWithDetails implements the blog demo's signature query: resolve a
// batch of articles by id, then — once every article is known — resolve
// every article's metadata and author together. Because Traverse fans the
// per-article Join calls out within the same round, this produces exactly
// two non-cache-served rounds regardless of feed size: one ArticleSource
// batch, then one Concurrent round spanning MetadataSource and AuthorSource.
func FeedWithDetails(s Sources, ids []int64) fetch.Fetch[[]PostDetail] {
	articles := fetch.Traverse(ids, func(id int64) fetch.Fetch[domain.Article] {
		return Article(s.Articles, id)
	})
	return fetch.FlatMap(articles, func(as []domain.Article) fetch.Fetch[[]PostDetail] {
		return fetch.Traverse(as, func(a domain.Article) fetch.Fetch[PostDetail] {
			return PostWithDetail(s, a)
		})
	})
}
