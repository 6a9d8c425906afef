// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Vibrato server. It organizes routes into the public site, the static
// theme assets and the token-guarded builder API.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vibrato/internal/handlers"
	"vibrato/internal/middleware"
	"vibrato/web"
)

// Config carries the handler groups and API settings the router wires up.
type Config struct {
	Public  *handlers.Public
	Builder *handlers.Builder
	Media   *handlers.Media

	APIToken     string
	APIRateLimit int // write requests per client per minute
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. The returned limiter must be stopped on
// shutdown.
func New(cfg Config) (chi.Router, *middleware.RateLimiter) {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	r.Handle("/public/*", staticHandler())

	limiter := middleware.NewRateLimiter(cfg.APIRateLimit, time.Minute)

	// Builder API, guarded by the bearer token.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireAPIToken(cfg.APIToken))
		r.Use(limiter.Middleware)

		r.Get("/schema", cfg.Builder.Schema)

		r.Route("/pages", func(r chi.Router) {
			r.Post("/", cfg.Builder.CreatePage)
			r.Delete("/{id}", cfg.Builder.DeletePage)
			r.Get("/{id}/builder", cfg.Builder.GetTree)
			r.Put("/{id}/builder", cfg.Builder.SaveTree)
			r.Delete("/{id}/builder", cfg.Builder.ClearTree)
			r.Post("/{id}/builder/validate", cfg.Builder.ValidateTree)
		})

		r.Route("/media", func(r chi.Router) {
			r.Get("/", cfg.Media.List)
			r.Post("/", cfg.Media.Upload)
			r.Delete("/{id}", cfg.Media.Delete)
		})
	})

	// Public routes, rendered through the theme views.
	r.Get("/", cfg.Public.Homepage)
	r.Get("/search", cfg.Public.Search)
	r.Get("/type/{postType}", cfg.Public.Archive)
	r.Get("/{slug}", cfg.Public.Page)
	r.NotFound(cfg.Public.NotFound)

	return r, limiter
}

// staticHandler serves the embedded theme assets under /public/.
func staticHandler() http.Handler {
	sub, err := fs.Sub(web.PublicFS, "public")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	files := http.StripPrefix("/public/", http.FileServerFS(sub))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		files.ServeHTTP(w, r)
	})
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
