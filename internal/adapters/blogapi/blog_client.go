package blogapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jsamuelsen11/fetchkit/internal/domain"
	"github.com/jsamuelsen11/fetchkit/internal/platform/httpclient"
	"github.com/jsamuelsen11/fetchkit/internal/ports"
)

// Compile-time interface check.
var _ ports.BlogClient = (*BlogClient)(nil)

// BlogClient is the outbound adapter for the downstream blog API. It
// implements [ports.BlogClient].
//
// All methods translate between our domain types and the downstream API's
// representations via the translators in translator.go. HTTP errors are
// mapped to domain errors (ErrNotFound, ErrValidation, etc.) by
// [TranslateHTTPError].
//
// The underlying [httpclient.Client] provides circuit breaking, retry with
// exponential backoff, OpenTelemetry tracing, and health checking
// ([ports.HealthChecker]) for every outbound call.
type BlogClient struct {
	req    *Requester
	logger *slog.Logger
}

// NewBlogClient creates a BlogClient that sends requests through the given
// [httpclient.Client]. The client's BaseURL should point to the downstream
// blog API root (e.g. "https://posts.example.com"). The logger is used for
// error-level diagnostics on failed or unexpected responses.
func NewBlogClient(client *httpclient.Client, logger *slog.Logger) *BlogClient {
	return &BlogClient{
		req:    NewRequester(client, logger),
		logger: logger,
	}
}

// ListArticles fetches articles from GET /api/v1/articles, optionally
// filtered by status, tag, and author. A zero-value [domain.PostFilter]
// returns all articles.
func (c *BlogClient) ListArticles(ctx context.Context, filter domain.PostFilter) ([]domain.Article, error) {
	path := "/api/v1/articles" + filterQuery(filter)

	var dto articleListResponseDTO
	if err := c.req.Do(ctx, http.MethodGet, path, nil, &dto); err != nil {
		return nil, err
	}
	return toDomainArticleList(dto), nil
}

// GetArticlesByIDs fetches a batch of articles from
// GET /api/v1/articles?ids=1,2,3. This is the call the fetch engine's
// ArticleSource uses to resolve an entire blocked batch in one round trip.
func (c *BlogClient) GetArticlesByIDs(ctx context.Context, ids []int64) (map[int64]domain.Article, error) {
	path := "/api/v1/articles?" + idsQuery(ids)

	var dto articlesByIDsResponseDTO
	if err := c.req.Do(ctx, http.MethodGet, path, nil, &dto); err != nil {
		return nil, err
	}
	return toDomainArticlesByID(dto), nil
}

// CreateArticle sends a POST /api/v1/articles with the translated request
// body and returns the created article. Returns [domain.ErrValidation] if
// the downstream rejects the payload.
func (c *BlogClient) CreateArticle(ctx context.Context, a *domain.Article) (*domain.Article, error) {
	reqDTO := toCreateArticleRequest(a)

	var respDTO articleDTO
	if err := c.req.Do(ctx, http.MethodPost, "/api/v1/articles", reqDTO, &respDTO); err != nil {
		return nil, err
	}
	result := toDomainArticle(&respDTO)
	return &result, nil
}

// UpdateArticle sends a PUT /api/v1/articles/{id} with the translated
// request body and returns the updated article. Returns
// [domain.ErrNotFound] if the article does not exist.
func (c *BlogClient) UpdateArticle(ctx context.Context, id int64, a *domain.Article) (*domain.Article, error) {
	path := fmt.Sprintf("/api/v1/articles/%d", id)
	reqDTO := toUpdateArticleRequest(a)

	var respDTO articleDTO
	if err := c.req.Do(ctx, http.MethodPut, path, reqDTO, &respDTO); err != nil {
		return nil, err
	}
	result := toDomainArticle(&respDTO)
	return &result, nil
}

// GetAuthorsByIDs fetches a batch of authors from
// GET /api/v1/authors?ids=1,2,3, the batch entry point used by the fetch
// engine's AuthorSource.
func (c *BlogClient) GetAuthorsByIDs(ctx context.Context, ids []int64) (map[int64]domain.Author, error) {
	path := "/api/v1/authors?" + idsQuery(ids)

	var dto authorsByIDsResponseDTO
	if err := c.req.Do(ctx, http.MethodGet, path, nil, &dto); err != nil {
		return nil, err
	}
	return toDomainAuthorsByID(dto), nil
}

// UpdateAuthor sends a PATCH /api/v1/authors/{id} updating the author's bio
// and returns the updated author. Returns [domain.ErrNotFound] if the
// author does not exist.
func (c *BlogClient) UpdateAuthor(ctx context.Context, id int64, a *domain.Author) (*domain.Author, error) {
	path := fmt.Sprintf("/api/v1/authors/%d", id)
	reqDTO := toUpdateAuthorRequest(a.Bio)

	var respDTO authorDTO
	if err := c.req.Do(ctx, http.MethodPatch, path, reqDTO, &respDTO); err != nil {
		return nil, err
	}
	result := toDomainAuthor(&respDTO)
	return &result, nil
}

// GetArticleMetadata fetches view counts and reading time for a batch of
// article ids from GET /api/v1/articles/metadata?ids=1,2,3 — a distinct
// downstream endpoint from GetArticlesByIDs, giving the demo a second data
// source to batch concurrently.
func (c *BlogClient) GetArticleMetadata(ctx context.Context, ids []int64) (map[int64]domain.ArticleMetadata, error) {
	path := "/api/v1/articles/metadata?" + idsQuery(ids)

	var dto articleMetadataResponseDTO
	if err := c.req.Do(ctx, http.MethodGet, path, nil, &dto); err != nil {
		return nil, err
	}
	return toDomainArticleMetadata(dto), nil
}

// idsQuery renders a batch of int64 ids as an "ids=1,2,3" query string
// (without the leading "?").
func idsQuery(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	v := url.Values{}
	v.Set("ids", strings.Join(parts, ","))
	return v.Encode()
}

// filterQuery converts a [domain.PostFilter] to a URL query string
// (including the leading "?"). Returns an empty string if no filters are set.
func filterQuery(f domain.PostFilter) string {
	v := url.Values{}
	if f.Status != "" {
		v.Set("status", f.Status.String())
	}
	if f.Tag != "" {
		v.Set("tag", f.Tag.String())
	}
	if f.AuthorID != nil {
		v.Set("author_id", strconv.FormatInt(*f.AuthorID, 10))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}
