// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/jsamuelsen11/fetchkit/internal/domain"
	"github.com/jsamuelsen11/fetchkit/internal/fetchsources"
)

// ArticleResponse represents a single article in HTTP responses.
type ArticleResponse struct {
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

// ArticleListResponse represents a list of articles in HTTP responses.
type ArticleListResponse struct {
	Articles []ArticleResponse `json:"articles"`
	Count    int               `json:"count"`
}

// ToArticleResponse converts a domain Article entity to an HTTP response DTO.
func ToArticleResponse(a *domain.Article) ArticleResponse {
	tags := make([]string, len(a.Tags))
	for i, t := range a.Tags {
		tags[i] = t.String()
	}

	var publishedAt *string
	if a.PublishedAt != nil {
		s := a.PublishedAt.Format(time.RFC3339)
		publishedAt = &s
	}

	return ArticleResponse{
		ID:          a.ID,
		Title:       a.Title,
		Summary:     a.Summary,
		Status:      a.Status.String(),
		Tags:        tags,
		AuthorID:    a.AuthorID,
		PublishedAt: publishedAt,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
}

// ToArticleListResponse converts a slice of domain Article entities to an
// HTTP list response DTO.
func ToArticleListResponse(articles []domain.Article) ArticleListResponse {
	items := make([]ArticleResponse, len(articles))
	for i := range articles {
		items[i] = ToArticleResponse(&articles[i])
	}
	return ArticleListResponse{
		Articles: items,
		Count:    len(items),
	}
}

// AuthorResponse represents an author in HTTP responses.
type AuthorResponse struct {
	ID        int64  `json:"id"`
	Handle    string `json:"handle"`
	Bio       string `json:"bio"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ToAuthorResponse converts a domain Author entity to an HTTP response DTO.
func ToAuthorResponse(a *domain.Author) AuthorResponse {
	return AuthorResponse{
		ID:        a.ID,
		Handle:    a.Handle,
		Bio:       a.Bio,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
}

// PostDetailResponse represents one article enriched with its metadata and
// author, the shape GET /api/v1/posts returns — the demo endpoint that
// exercises the fetch engine's batching across a feed.
type PostDetailResponse struct {
	Article       ArticleResponse `json:"article"`
	Author        AuthorResponse  `json:"author"`
	Views         int64           `json:"views"`
	ReadingTimeMS int64           `json:"reading_time_ms"`
}

// PostFeedResponse represents the feed response, plus the round diagnostics
// (fetch.Round values rendered for human inspection) that make the
// batching behavior observable over HTTP.
type PostFeedResponse struct {
	Posts  []PostDetailResponse `json:"posts"`
	Rounds []RoundResponse      `json:"rounds"`
}

// RoundResponse renders a fetch.Round for diagnostics: what was resolved,
// against which source(s), whether it was cache-served, and how long it
// took.
type RoundResponse struct {
	Source          string `json:"source"`
	Kind            string `json:"kind"`
	ServedFromCache bool   `json:"served_from_cache"`
	DurationMS      int64  `json:"duration_ms"`
	Error           string `json:"error,omitempty"`
}

// ToPostFeedResponse assembles the feed response from the fetched post
// details and the environment's round log.
func ToPostFeedResponse(details []fetchsources.PostDetail, rounds []RoundResponse) PostFeedResponse {
	posts := make([]PostDetailResponse, len(details))
	for i := range details {
		posts[i] = PostDetailResponse{
			Article:       ToArticleResponse(&details[i].Article),
			Author:        ToAuthorResponse(&details[i].Author),
			Views:         details[i].Metadata.Views,
			ReadingTimeMS: details[i].Metadata.ReadingTimeMS,
		}
	}
	return PostFeedResponse{Posts: posts, Rounds: rounds}
}
