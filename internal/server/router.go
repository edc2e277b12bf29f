// Package server assembles the sync service's HTTP router.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freefly-ai/inkflow/internal/api"
	"github.com/freefly-ai/inkflow/internal/api/handlers"
	"github.com/freefly-ai/inkflow/internal/api/middleware"
	"github.com/freefly-ai/inkflow/internal/storage"
)

// NewRouter mounts the record CRUD for every kind under /api. The sync
// contract carries no auth or pagination; works can embed base64 cover
// images, hence the generous body limit.
func NewRouter(store storage.Store) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 20 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		for _, kind := range storage.Kinds {
			h := handlers.NewRecordHandler(store, kind)
			r.Route("/"+string(kind), func(r chi.Router) {
				r.Get("/", h.List)
				r.Get("/{id}", h.Get)
				r.Put("/{id}", h.Put)
				r.Delete("/{id}", h.Delete)
			})
		}
	})

	return r
}
