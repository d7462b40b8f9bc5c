package dto

import (
	"fmt"
	"strings"

	"github.com/jsamuelsen11/fetchkit/internal/domain"
)

// CreateArticleRequest represents the JSON body for creating a new article.
type CreateArticleRequest struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Tags     []string `json:"tags,omitempty"`
	AuthorID int64    `json:"author_id"`
}

// Validate checks that required fields are present and optional fields have
// valid values. Returns a *domain.ValidationError if any checks fail.
func (r *CreateArticleRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.Title) == "" {
		fields["title"] = "is required"
	}
	if strings.TrimSpace(r.Summary) == "" {
		fields["summary"] = "is required"
	}
	if r.AuthorID <= 0 {
		fields["author_id"] = fmt.Sprintf("must be positive, got %d", r.AuthorID)
	}
	for _, t := range r.Tags {
		if strings.TrimSpace(t) == "" {
			fields["tags"] = "must not contain blank tags"
			break
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// PublishArticlesRequest represents the JSON body for bulk-publishing
// articles in one request.
type PublishArticlesRequest struct {
	IDs []int64 `json:"ids"`
}

// Validate checks that at least one id was given and every id is positive.
func (r *PublishArticlesRequest) Validate() error {
	if len(r.IDs) == 0 {
		return &domain.ValidationError{Fields: map[string]string{"ids": "is required"}}
	}
	for _, id := range r.IDs {
		if id <= 0 {
			return &domain.ValidationError{Fields: map[string]string{"ids": fmt.Sprintf("must all be positive, got %d", id)}}
		}
	}
	return nil
}

// UpdateAuthorBioRequest represents the JSON body for updating an author's bio.
type UpdateAuthorBioRequest struct {
	Bio string `json:"bio"`
}

// Validate checks that the bio is non-blank.
func (r *UpdateAuthorBioRequest) Validate() error {
	if strings.TrimSpace(r.Bio) == "" {
		return &domain.ValidationError{Fields: map[string]string{"bio": "is required"}}
	}
	return nil
}
