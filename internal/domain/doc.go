// Package domain holds the blog's ubiquitous-language types (Article,
// Author), sentinel errors, validation types, and the domain-level
// interfaces (Action, WriteStager) shared across the application layer.
package domain
