// Package api exposes catalog search, cost resolution and session budgets
// over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Options configures the router.
type Options struct {
	AllowedOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts Options) *chi.Mux {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	}))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", h.Search)

		r.Route("/items/{code}", func(r chi.Router) {
			r.Get("/", h.GetItem)
			r.Get("/children", h.GetChildren)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Post("/", h.CreateBudget)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetBudget)
				r.Delete("/", h.DeleteBudget)
				r.Post("/lines", h.AddLine)
				r.Delete("/lines", h.ClearLines)
				r.Patch("/lines/{seq}", h.UpdateLine)
				r.Delete("/lines/{seq}", h.RemoveLine)
				r.Get("/export.xlsx", h.ExportXLSX)
				r.Get("/export.pdf", h.ExportPDF)
			})
		})
	})

	return r
}

// requestLogger logs one line per request on the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			zap.L().Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
