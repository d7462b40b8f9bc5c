// Package blogapi implements the Anti-Corruption Layer that translates
// between the downstream blog API's wire representations and this
// repository's domain types (internal/domain): dto/translator/client/health,
// plus a shared error translator and a thin request helper, all in one
// package since the blog domain only has two entity kinds.
package blogapi

// articleDTO matches the downstream blog API's article schema.
type articleDTO struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
	AuthorID    int64    `json:"author_id"`
	PublishedAt *string  `json:"published_at,omitempty"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// articlesByIDsResponseDTO matches the downstream batch-lookup response for
// GET /api/v1/articles?ids=....
type articlesByIDsResponseDTO struct {
	Articles []articleDTO `json:"articles"`
}

// articleListResponseDTO matches the downstream listing response.
type articleListResponseDTO struct {
	Articles []articleDTO `json:"articles"`
	Count    int64        `json:"count"`
}

// createArticleRequestDTO matches the downstream create-article schema.
type createArticleRequestDTO struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Status   string   `json:"status,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	AuthorID int64    `json:"author_id"`
}

// updateArticleRequestDTO matches the downstream update-article schema. All
// fields are optional; nil means "do not change this field."
type updateArticleRequestDTO struct {
	Title       *string  `json:"title,omitempty"`
	Summary     *string  `json:"summary,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	PublishedAt *string  `json:"published_at,omitempty"`
}

// authorDTO matches the downstream blog API's author schema.
type authorDTO struct {
	ID        int64  `json:"id"`
	Handle    string `json:"handle"`
	Bio       string `json:"bio"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// authorsByIDsResponseDTO matches the downstream batch-lookup response for
// GET /api/v1/authors?ids=....
type authorsByIDsResponseDTO struct {
	Authors []authorDTO `json:"authors"`
}

// updateAuthorRequestDTO matches the downstream update-author schema.
type updateAuthorRequestDTO struct {
	Bio *string `json:"bio,omitempty"`
}

// articleMetadataDTO matches the downstream metadata endpoint's schema —
// the deliberately separate backend (GET /api/v1/articles/metadata?ids=...)
// that gives the demo a second data source to batch concurrently with
// articles/authors.
type articleMetadataDTO struct {
	ArticleID     int64 `json:"article_id"`
	Views         int64 `json:"views"`
	ReadingTimeMS int64 `json:"reading_time_ms"`
}

// articleMetadataResponseDTO matches the downstream batch metadata response.
type articleMetadataResponseDTO struct {
	Metadata []articleMetadataDTO `json:"metadata"`
}
