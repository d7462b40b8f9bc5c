package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/fetchkit/internal/adapters/http/dto"
	appctx "github.com/jsamuelsen11/fetchkit/internal/app/context"
	"github.com/jsamuelsen11/fetchkit/internal/domain"
)

// requestContext retrieves the per-request write-staging context installed
// by middleware.AppContext. Handlers that stage writes through
// ports.ArticleService call this to get the domain.WriteStager to pass in.
func requestContext(r *http.Request) *appctx.RequestContext {
	return appctx.FromContext(r.Context())
}

// parseID extracts an int64 path parameter from the chi URL params.
func parseID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &domain.ValidationError{
			Fields: map[string]string{param: "must be a valid integer"},
		}
	}
	return id, nil
}

// mapCreateArticleRequest converts a CreateArticleRequest DTO to a domain
// Article entity in its initial draft state.
func mapCreateArticleRequest(req *dto.CreateArticleRequest) *domain.Article {
	tags := make([]domain.Tag, len(req.Tags))
	for i, t := range req.Tags {
		tags[i] = domain.Tag(t)
	}
	return &domain.Article{
		Title:    req.Title,
		Summary:  req.Summary,
		Status:   domain.StatusDraft,
		Tags:     tags,
		AuthorID: req.AuthorID,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

// maxJSONBodyBytes is the maximum allowed size for a JSON request body (1 MB).
const maxJSONBodyBytes = 1 << 20

// decodeJSONBody decodes the request body as JSON into dst. The body is
// limited to maxJSONBodyBytes to prevent resource exhaustion. On failure,
// it writes a 400 error response and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		dto.WriteErrorResponse(w, r, &domain.ValidationError{
			Fields: map[string]string{"body": "invalid JSON"},
		})
		return false
	}
	return true
}

// validatable is implemented by request DTOs that support validation.
type validatable interface {
	Validate() error
}

// decodeAndValidate decodes the JSON request body into dst and validates it.
// On decode or validation failure it writes an error response and returns false.
func decodeAndValidate[T validatable](w http.ResponseWriter, r *http.Request, dst T) bool {
	if !decodeJSONBody(w, r, dst) {
		return false
	}
	if err := dst.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return false
	}
	return true
}

// decodeArticleCreate decodes and validates a CreateArticleRequest, returning
// the mapped domain Article. Returns nil and writes an error response on
// failure.
func decodeArticleCreate(w http.ResponseWriter, r *http.Request) *domain.Article {
	var req dto.CreateArticleRequest
	if !decodeAndValidate(w, r, &req) {
		return nil
	}
	return mapCreateArticleRequest(&req)
}
