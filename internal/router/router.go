// Package router sets up all HTTP routes and middleware chains for the
// portal API: the versioned JSON read API, health and metrics endpoints,
// and locally stored media.
package router

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"portalcms/internal/handlers"
	"portalcms/internal/metrics"
	"portalcms/internal/middleware"
)

// Options holds the optional parts of the route table.
type Options struct {
	// RateLimiter throttles the /api routes when set.
	RateLimiter *middleware.RateLimiter

	// MediaDir and MediaPrefix serve local media files when MediaDir is set.
	MediaDir    string
	MediaPrefix string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(chimw.StripSlashes)

	r.Get("/health", healthHandler)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v2", func(r chi.Router) {
		r.Use(middleware.CORS)
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware)
		}

		r.Get("/notifications", api.Notifications)
		r.Get("/gallery/categories", api.GalleryCategories)
		r.Get("/gallery/images", api.GalleryImages)

		r.Route("/news", func(r chi.Router) {
			r.Get("/", api.NewsList)
			r.Get("/categories", api.NewsCategories)
			r.Get("/{slug}", api.NewsDetail)
		})
	})

	if opts.MediaDir != "" {
		prefix := "/" + strings.Trim(opts.MediaPrefix, "/")
		if prefix == "/" {
			prefix = "/media"
		}
		files := http.StripPrefix(prefix+"/", http.FileServer(noDirFS{http.Dir(opts.MediaDir)}))
		r.Get(prefix+"/*", files.ServeHTTP)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"error":"Not found"}`)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, `{"error":"Method not allowed"}`)
	})

	return r
}

// noDirFS hides directory listings from the media file server.
type noDirFS struct{ fs http.FileSystem }

func (n noDirFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	if st, err := f.Stat(); err == nil && st.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, `{"status":"ok"}`)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
