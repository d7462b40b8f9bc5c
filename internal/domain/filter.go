package domain

// PostFilter holds optional filter criteria for listing articles. Zero-value
// fields mean "no filter" for that dimension.
type PostFilter struct {
	Status   PublishStatus
	Tag      Tag
	AuthorID *int64
}
