package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router wires every route of the site.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthcheck", h.HandleHealthcheck)
	r.Get("/", h.HandleHome)

	r.Get("/gallery", h.HandleGallery)
	r.Post("/gallery/events", h.HandleGalleryEvent)

	r.HandleFunc("/api/images", h.HandleImages)
	r.HandleFunc("/api/images/{id}", h.HandleImageDetail)
	r.HandleFunc("/api/queries", h.HandleQueries)

	r.Handle("/static/*", h.HandleStatic())
	r.Get("/*", h.HandleAsset)

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			slog.Debug("Request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		}()
		next.ServeHTTP(ww, r)
	})
}
