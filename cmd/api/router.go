package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bookcatalog/internal/book"
	"bookcatalog/internal/booksync"
	"bookcatalog/internal/config"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/review"
)

const readyTimeout = 500 * time.Millisecond

type routes struct {
	books   *book.HTTPHandler
	reviews *review.HTTPHandler
	sync    *booksync.HTTPHandler
	ready   func(ctx context.Context) error
	metrics http.Handler
}

func newRouter(ctx context.Context, cfg *config.Config, log *slog.Logger, rt routes) http.Handler {
	reviewLimiter := httpx.NewRateLimitMiddleware(ctx, cfg.HTTP.ReviewRPS, cfg.HTTP.ReviewBurst)

	r := chi.NewRouter()
	r.Use(
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(log),
		httpx.RecoveryMiddleware(log),
		httpx.SecurityHeadersMiddleware(cfg.HTTP.EnableHSTS),
		httpx.CORSMiddleware(cfg.HTTP.CORSAllowedOrigins),
		httpx.RequestSizeLimitMiddleware(cfg.HTTP.MaxBodyBytes),
	)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := rt.ready(ctx); err != nil {
			log.WarnContext(r.Context(), "not ready", slog.String("error", err.Error()))
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Method(http.MethodGet, "/metrics", rt.metrics)

	r.Route("/books", func(r chi.Router) {
		r.Get("/", rt.books.List)
		r.Get("/{isbn}", rt.books.GetByISBN)
		r.Get("/{isbn}/reviews", rt.reviews.List)
		r.With(reviewLimiter.Middleware).Post("/{isbn}/reviews", rt.reviews.Create)
	})

	if cfg.InternalSecret == "" {
		log.Warn("INTERNAL_SECRET is empty, /internal/sync is not served")
	} else {
		r.With(httpx.InternalSecretMiddleware(cfg.InternalSecret)).Post("/internal/sync", rt.sync.Sync)
	}

	return r
}
