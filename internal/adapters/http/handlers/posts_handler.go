package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen11/fetchkit/internal/adapters/http/dto"
	"github.com/jsamuelsen11/fetchkit/internal/domain"
	fetch "github.com/jsamuelsen11/fetchkit"
	"github.com/jsamuelsen11/fetchkit/internal/fetchsources"
	"github.com/jsamuelsen11/fetchkit/internal/platform/telemetry"
	"github.com/jsamuelsen11/fetchkit/internal/ports"
)

// PostsHandler handles the read-side feed endpoints, which run entirely
// through the fetch engine, and the write-side article/author endpoints,
// which stage through ports.ArticleService.
type PostsHandler struct {
	client      ports.BlogClient
	sources     fetchsources.Sources
	svc         ports.ArticleService
	maxParallel int
	metrics     *telemetry.Metrics
}

// NewPostsHandler creates a PostsHandler. client is used for direct
// (non-batched) write calls such as CreateArticle; sources and svc drive
// the fetch-engine reads and staged writes respectively. maxParallel bounds
// how many data sources a single Concurrent round invokes at once (see
// config.FetchConfig.MaxParallel); callers typically pass cfg.Fetch.MaxParallel.
// metrics may be nil, in which case round instrumentation is skipped.
func NewPostsHandler(client ports.BlogClient, sources fetchsources.Sources, svc ports.ArticleService, maxParallel int, metrics *telemetry.Metrics) *PostsHandler {
	return &PostsHandler{client: client, sources: sources, svc: svc, maxParallel: maxParallel, metrics: metrics}
}

// roundCountHeader reports how many rounds an engine run resolved, letting
// an integration test verify batching happened without parsing the body.
const roundCountHeader = "X-Fetch-Round-Count"

// ListPosts handles GET /api/v1/posts?ids=1,2,3. It runs
// fetchsources.FeedWithDetails through the engine and returns both the
// enriched posts and the round log that shows how batching resolved them.
func (h *PostsHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDList(r.URL.Query().Get("ids"))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	f := fetchsources.FeedWithDetails(h.sources, ids)
	details, env, err := fetch.RunWithEnv(r.Context(), f, fetch.WithMaxParallel(h.maxParallel))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	h.recordRounds(r.Context(), env.Rounds())

	w.Header().Set(roundCountHeader, strconv.Itoa(len(env.Rounds())))
	writeJSON(w, http.StatusOK, dto.ToPostFeedResponse(details, toRoundResponses(env.Rounds())))
}

// GetPost handles GET /api/v1/posts/{id}: a single article enriched with
// its author and metadata, joined in one round.
func (h *PostsHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	f := fetch.FlatMap(fetchsources.Article(h.sources.Articles, id), func(a domain.Article) fetch.Fetch[fetchsources.PostDetail] {
		return fetchsources.PostWithDetail(h.sources, a)
	})

	detail, env, err := fetch.RunWithEnv(r.Context(), f, fetch.WithMaxParallel(h.maxParallel))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	h.recordRounds(r.Context(), env.Rounds())

	resp := dto.ToPostFeedResponse([]fetchsources.PostDetail{detail}, toRoundResponses(env.Rounds()))
	w.Header().Set(roundCountHeader, strconv.Itoa(len(env.Rounds())))
	writeJSON(w, http.StatusOK, resp.Posts[0])
}

// CreateArticle handles POST /api/v1/articles. Creation bypasses the fetch
// engine entirely — it is a single downstream write, not a batched read.
func (h *PostsHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	article := decodeArticleCreate(w, r)
	if article == nil {
		return
	}

	if err := article.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	created, err := h.client.CreateArticle(r.Context(), article)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToArticleResponse(created))
}

// PublishArticle handles PATCH /api/v1/articles/{id}/publish. It stages the
// publish through the request's RequestContext and commits immediately,
// so a single staged action still gets the rollback machinery's benefit if
// Commit's downstream call fails partway.
func (h *PostsHandler) PublishArticle(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	rc := requestContext(r)
	if err := h.svc.PublishArticle(r.Context(), rc, id); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	if err := rc.Commit(r.Context()); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PublishArticles handles PATCH /api/v1/articles/publish, staging a publish
// for every id in the request body in a single commit.
func (h *PostsHandler) PublishArticles(w http.ResponseWriter, r *http.Request) {
	var req dto.PublishArticlesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rc := requestContext(r)
	if err := h.svc.PublishArticles(r.Context(), rc, req.IDs); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	if err := rc.Commit(r.Context()); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateAuthorBio handles PATCH /api/v1/authors/{id}/bio.
func (h *PostsHandler) UpdateAuthorBio(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.UpdateAuthorBioRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rc := requestContext(r)
	if err := h.svc.UpdateAuthorBio(r.Context(), rc, id, req.Bio); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	if err := rc.Commit(r.Context()); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseIDList parses a comma-separated "ids" query parameter into a slice
// of int64s. Returns a *domain.ValidationError if the parameter is empty or
// any entry is not a valid integer.
func parseIDList(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &domain.ValidationError{Fields: map[string]string{"ids": "is required"}}
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, &domain.ValidationError{Fields: map[string]string{"ids": "must be a comma-separated list of integers"}}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// recordRounds emits the fetch-engine metrics for one resolved Environment's
// round log. A nil metrics (e.g. in tests that construct the handler
// directly) is a no-op rather than a panic.
func (h *PostsHandler) recordRounds(ctx context.Context, rounds []fetch.Round) {
	if h.metrics == nil {
		return
	}
	for _, rd := range rounds {
		attrs := metric.WithAttributes(
			telemetry.AttrFetchSource.String(rd.SourceLabel),
			telemetry.AttrFetchKind.String(rd.Description.Kind.String()),
		)
		h.metrics.FetchRoundTotal.Add(ctx, 1, attrs)
		h.metrics.FetchRoundDuration.Record(ctx, rd.Duration().Seconds(), attrs)

		if rd.ServedFromCache {
			h.metrics.FetchCacheHitTotal.Add(ctx, 1, attrs)
			continue
		}

		switch rd.Description.Kind {
		case fetch.KindMany:
			h.metrics.FetchBatchSize.Record(ctx, int64(len(rd.Description.Reqs)), attrs)
		case fetch.KindConcurrent:
			for source, reqs := range rd.Description.Groups {
				h.metrics.FetchBatchSize.Record(ctx, int64(len(reqs)), metric.WithAttributes(
					telemetry.AttrFetchSource.String(source),
					telemetry.AttrFetchKind.String(rd.Description.Kind.String()),
				))
			}
		}
	}
}

// toRoundResponses renders an Environment's round log for the HTTP
// diagnostics surface.
func toRoundResponses(rounds []fetch.Round) []dto.RoundResponse {
	out := make([]dto.RoundResponse, len(rounds))
	for i, rd := range rounds {
		source := rd.SourceLabel
		errMsg := ""
		if rd.Err != nil {
			errMsg = rd.Err.Error()
		}
		out[i] = dto.RoundResponse{
			Source:          source,
			Kind:            rd.Description.Kind.String(),
			ServedFromCache: rd.ServedFromCache,
			DurationMS:      rd.Duration().Milliseconds(),
			Error:           errMsg,
		}
	}
	return out
}
