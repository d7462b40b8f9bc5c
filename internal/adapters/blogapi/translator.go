package blogapi

import (
	"time"

	"github.com/jsamuelsen11/fetchkit/internal/domain"
)

// toDomainArticle converts a downstream articleDTO to a domain Article.
func toDomainArticle(dto *articleDTO) domain.Article {
	createdAt, _ := time.Parse(time.RFC3339, dto.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, dto.UpdatedAt)

	tags := make([]domain.Tag, len(dto.Tags))
	for i, t := range dto.Tags {
		tags[i] = domain.Tag(t)
	}

	var publishedAt *time.Time
	if dto.PublishedAt != nil {
		if t, err := time.Parse(time.RFC3339, *dto.PublishedAt); err == nil {
			publishedAt = &t
		}
	}

	return domain.Article{
		ID:          dto.ID,
		Title:       dto.Title,
		Summary:     dto.Summary,
		Status:      domain.PublishStatus(dto.Status),
		Tags:        tags,
		AuthorID:    dto.AuthorID,
		PublishedAt: publishedAt,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// toDomainArticlesByID converts a downstream batch-lookup response to a map
// keyed by article id, the shape [ports.BlogClient.GetArticlesByIDs] returns.
func toDomainArticlesByID(dto articlesByIDsResponseDTO) map[int64]domain.Article {
	out := make(map[int64]domain.Article, len(dto.Articles))
	for i := range dto.Articles {
		a := toDomainArticle(&dto.Articles[i])
		out[a.ID] = a
	}
	return out
}

// toDomainArticleList converts a downstream list response to a domain slice.
func toDomainArticleList(dto articleListResponseDTO) []domain.Article {
	articles := make([]domain.Article, len(dto.Articles))
	for i := range dto.Articles {
		articles[i] = toDomainArticle(&dto.Articles[i])
	}
	return articles
}

// toCreateArticleRequest converts a domain Article to a downstream create request.
func toCreateArticleRequest(a *domain.Article) createArticleRequestDTO {
	tags := make([]string, len(a.Tags))
	for i, t := range a.Tags {
		tags[i] = string(t)
	}
	return createArticleRequestDTO{
		Title:    a.Title,
		Summary:  a.Summary,
		Status:   a.Status.String(),
		Tags:     tags,
		AuthorID: a.AuthorID,
	}
}

// toUpdateArticleRequest converts a domain Article to a downstream update
// request. All fields are set (full replacement semantics), matching the
// teacher's toUpdateTodoRequest convention.
func toUpdateArticleRequest(a *domain.Article) updateArticleRequestDTO {
	status := a.Status.String()
	tags := make([]string, len(a.Tags))
	for i, t := range a.Tags {
		tags[i] = string(t)
	}

	var publishedAt *string
	if a.PublishedAt != nil {
		s := a.PublishedAt.Format(time.RFC3339)
		publishedAt = &s
	}

	return updateArticleRequestDTO{
		Title:       &a.Title,
		Summary:     &a.Summary,
		Status:      &status,
		Tags:        tags,
		PublishedAt: publishedAt,
	}
}

// toDomainAuthor converts a downstream authorDTO to a domain Author.
func toDomainAuthor(dto *authorDTO) domain.Author {
	createdAt, _ := time.Parse(time.RFC3339, dto.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, dto.UpdatedAt)

	return domain.Author{
		ID:        dto.ID,
		Handle:    dto.Handle,
		Bio:       dto.Bio,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// toDomainAuthorsByID converts a downstream batch-lookup response to a map
// keyed by author id.
func toDomainAuthorsByID(dto authorsByIDsResponseDTO) map[int64]domain.Author {
	out := make(map[int64]domain.Author, len(dto.Authors))
	for i := range dto.Authors {
		a := toDomainAuthor(&dto.Authors[i])
		out[a.ID] = a
	}
	return out
}

// toUpdateAuthorRequest converts a bio string to a downstream update request.
func toUpdateAuthorRequest(bio string) updateAuthorRequestDTO {
	return updateAuthorRequestDTO{Bio: &bio}
}

// toDomainArticleMetadata converts a downstream batch metadata response to a
// map keyed by article id.
func toDomainArticleMetadata(dto articleMetadataResponseDTO) map[int64]domain.ArticleMetadata {
	out := make(map[int64]domain.ArticleMetadata, len(dto.Metadata))
	for _, m := range dto.Metadata {
		out[m.ArticleID] = domain.ArticleMetadata{
			ArticleID:     m.ArticleID,
			Views:         m.Views,
			ReadingTimeMS: m.ReadingTimeMS,
		}
	}
	return out
}
