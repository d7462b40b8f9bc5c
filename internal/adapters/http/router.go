// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/fetchkit/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given.
func NewRouter(
	postsHandler *handlers.PostsHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Health endpoints (outside /api/v1 prefix).
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// API v1 routes.
	r.Route("/api/v1", func(r chi.Router) {
		// Feed reads: run entirely through the fetch engine.
		r.Get("/posts", postsHandler.ListPosts)
		r.Get("/posts/{id}", postsHandler.GetPost)

		// Article/author writes: staged through the RequestContext.
		r.Post("/articles", postsHandler.CreateArticle)
		r.Patch("/articles/publish", postsHandler.PublishArticles)
		r.Patch("/articles/{id}/publish", postsHandler.PublishArticle)
		r.Patch("/authors/{id}/bio", postsHandler.UpdateAuthorBio)
	})

	return r
}
