package domain

import (
	"fmt"
	"strings"
	"time"
)

const msgRequired = "is required"

// Article is a single blog post. It is the Req/Resp payload the engine's
// data sources resolve against (see internal/fetchsources).
type Article struct {
	ID          int64
	Title       string
	Summary     string
	Status      PublishStatus
	Tags        []Tag
	AuthorID    int64
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks business rules for the Article entity. Returns a
// *ValidationError (wrapping ErrValidation) with per-field details, or nil
// if all rules pass.
func (a *Article) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(a.Title) == "" {
		fields["title"] = msgRequired
	}
	if strings.TrimSpace(a.Summary) == "" {
		fields["summary"] = msgRequired
	}
	if !a.Status.IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", a.Status)
	}
	if a.AuthorID <= 0 {
		fields["author_id"] = fmt.Sprintf("must be positive, got %d", a.AuthorID)
	}
	for _, tag := range a.Tags {
		if !tag.IsValid() {
			fields["tags"] = "must not contain blank tags"
			break
		}
	}
	if a.Status == StatusPublished && a.PublishedAt == nil {
		fields["published_at"] = "is required when status is published"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
