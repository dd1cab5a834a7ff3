// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON read API of the portal.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"portalcms/internal/cache"
	"portalcms/internal/content"
	"portalcms/internal/metrics"
)

// ResponseCache stores serialized listing responses.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
}

// URLResolver maps a media storage key to a URL. Host-relative URLs are
// made absolute against the request.
type URLResolver interface {
	URL(key string) string
}

// API groups the read endpoints. Listings go through the response cache
// when one is configured; detail views never do, since each one counts a
// view.
type API struct {
	svc   *content.Service
	media URLResolver
	cache ResponseCache
}

// NewAPI creates the API handler group. rc may be nil to disable caching.
func NewAPI(svc *content.Service, media URLResolver, rc ResponseCache) *API {
	return &API{svc: svc, media: media, cache: rc}
}

// Notifications lists active ticker notifications.
func (a *API) Notifications(w http.ResponseWriter, r *http.Request) {
	a.serveCached(w, r, nil, func(ctx context.Context) (any, error) {
		items, err := a.svc.ListNotifications(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"notifications": toNotifications(items)}, nil
	})
}

// GalleryCategories lists gallery categories as {id: slug, label: name}.
func (a *API) GalleryCategories(w http.ResponseWriter, r *http.Request) {
	a.serveCached(w, r, nil, func(ctx context.Context) (any, error) {
		items, err := a.svc.ListGalleryCategories(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"categories": toGalleryCategories(items)}, nil
	})
}

// GalleryImages lists gallery images with absolute image URLs.
func (a *API) GalleryImages(w http.ResponseWriter, r *http.Request) {
	a.serveCached(w, r, nil, func(ctx context.Context) (any, error) {
		items, err := a.svc.ListGalleryImages(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"gallery": toGalleryImages(items, a.mediaURL(r))}, nil
	})
}

// NewsCategories lists news categories.
func (a *API) NewsCategories(w http.ResponseWriter, r *http.Request) {
	a.serveCached(w, r, nil, func(ctx context.Context) (any, error) {
		items, err := a.svc.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"categories": toCategories(items)}, nil
	})
}

// NewsList lists published press releases filtered by the category,
// featured, search and limit query parameters. Items carry no view count;
// only the detail response reports views.
func (a *API) NewsList(w http.ResponseWriter, r *http.Request) {
	lq := listQuery(r.URL.Query())
	a.serveCached(w, r, cacheQuery(lq), func(ctx context.Context) (any, error) {
		res, err := a.svc.ListPressReleases(ctx, lq.Filter())
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"news":  toListedNewsItems(res.Items, a.mediaURL(r)),
			"total": res.Total,
		}, nil
	})
}

// NewsDetail returns one published press release with related articles,
// counting a view.
func (a *API) NewsDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	d, err := a.svc.PressReleaseDetail(r.Context(), slug)
	if errors.Is(err, content.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Press release not found")
		return
	}
	if err != nil {
		slog.Error("press release detail failed", "error", err, "slug", slug)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, toNewsDetail(d, a.mediaURL(r)))
}

// serveCached answers from the response cache when possible, otherwise
// builds the payload, caches the encoded body and writes it. Keys include
// the host because media URLs in the body are absolute.
func (a *API) serveCached(w http.ResponseWriter, r *http.Request, query url.Values, build func(context.Context) (any, error)) {
	ctx := r.Context()
	key := cache.Key(r.Host+strings.TrimSuffix(r.URL.Path, "/"), query)

	if a.cache != nil {
		if body, ok := a.cache.Get(ctx, key); ok {
			metrics.RecordCacheLookup(true)
			w.Header().Set("X-Cache", "HIT")
			writeRaw(w, http.StatusOK, body)
			return
		}
		metrics.RecordCacheLookup(false)
	}

	payload, err := build(ctx)
	if err != nil {
		slog.Error("api request failed", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("encode response failed", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if a.cache != nil {
		a.cache.Set(ctx, key, body)
		w.Header().Set("X-Cache", "MISS")
	}
	writeRaw(w, http.StatusOK, body)
}

// mediaURL returns a resolver producing absolute URLs for r.
func (a *API) mediaURL(r *http.Request) urlFunc {
	return func(key string) string {
		if a.media == nil {
			return ""
		}
		return absoluteURL(r, a.media.URL(key))
	}
}

// absoluteURL resolves a host-relative URL against the request, honouring
// X-Forwarded-Proto from a TLS-terminating proxy.
func absoluteURL(r *http.Request, u string) string {
	if u == "" || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return scheme + "://" + r.Host + u
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("encode response failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeRaw(w, status, body)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
