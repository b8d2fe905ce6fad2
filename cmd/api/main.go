package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bookcatalog/internal/app"
	"bookcatalog/internal/book"
	"bookcatalog/internal/booksync"
	"bookcatalog/internal/config"
	"bookcatalog/internal/platform/logger"
	"bookcatalog/internal/platform/metrics"
	"bookcatalog/internal/platform/postgres"
	"bookcatalog/internal/review"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("api stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	pool, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("database connection OK", slog.String("dsn", config.RedactDSN(cfg.DatabaseDSN)))

	m := metrics.New(prometheus.DefaultRegisterer)

	metadata := app.NewMetadata(ctx, cfg, log, m)
	defer metadata.Close()

	bookRepo := book.NewPostgresRepo(pool, cfg.DBTimeout)
	reviewService := review.NewService(
		bookRepo,
		review.NewPostgresRepo(pool, cfg.DBTimeout),
		review.NewVerifier(review.DefaultOptions()),
		log,
		m,
	)
	listener := booksync.NewListener(bookRepo, metadata.Client,
		booksync.WithLogger(log),
		booksync.WithMetrics(m),
	)

	ready := func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
		return metadata.Ready(ctx)
	}

	router := newRouter(ctx, cfg, log, routes{
		books:   book.NewHTTPHandler(book.NewService(bookRepo)),
		reviews: review.NewHTTPHandler(reviewService),
		sync:    booksync.NewHTTPHandler(listener),
		ready:   ready,
		metrics: promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", slog.String("addr", cfg.AppAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
