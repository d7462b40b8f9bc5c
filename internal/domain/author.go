package domain

import (
	"strings"
	"time"
)

// Author is a blog contributor. It maps to the downstream "user" concept;
// the blogapi ACL translates between the two.
type Author struct {
	ID        int64
	Handle    string
	Bio       string
	Articles  []Article
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks business rules for the Author entity.
func (a *Author) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(a.Handle) == "" {
		fields["handle"] = msgRequired
	}
	if strings.TrimSpace(a.Bio) == "" {
		fields["bio"] = msgRequired
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
