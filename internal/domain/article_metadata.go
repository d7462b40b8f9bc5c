package domain

// ArticleMetadata is lightweight, frequently-changing data about an
// article — view counts and reading time — served from a separate
// downstream endpoint from the article body itself. Keeping it a distinct
// domain.ArticleMetadata type (rather than fields on Article) is what gives
// the blog demo a second, genuinely independent fetch.DataSource to join
// against AuthorSource in the Concurrent-round scenario.
type ArticleMetadata struct {
	ArticleID     int64
	Views         int64
	ReadingTimeMS int64
}
