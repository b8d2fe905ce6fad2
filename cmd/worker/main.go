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
	"bookcatalog/internal/platform/kafka"
	"bookcatalog/internal/platform/logger"
	"bookcatalog/internal/platform/metrics"
	"bookcatalog/internal/platform/postgres"
)

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

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("worker stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("worker stopped")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	pool, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	m := metrics.New(prometheus.DefaultRegisterer)

	metadata := app.NewMetadata(ctx, cfg, log, m)
	defer metadata.Close()

	listener := booksync.NewListener(book.NewPostgresRepo(pool, cfg.DBTimeout), metadata.Client,
		booksync.WithLogger(log),
		booksync.WithMetrics(m),
	)

	opts := []kafka.Option{
		kafka.WithLogger(log),
		kafka.WithRetry(cfg.Kafka.MaxAttempts, cfg.Kafka.RetryBackoff),
	}
	if cfg.Kafka.DeadLetterTopic != "" {
		dlq, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.DeadLetterTopic)
		if err != nil {
			return err
		}
		defer dlq.Close()
		opts = append(opts, kafka.WithDeadLetter(dlq))
	}

	consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, cfg.Kafka.SyncTopic,
		booksync.NewRecordHandler(listener, log), opts...)
	if err != nil {
		return err
	}
	defer consumer.Close()

	srv := newOpsServer(cfg.WorkerAddr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("ops server failed", slog.String("error", err.Error()))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("consuming book synchronization events",
		slog.String("topic", cfg.Kafka.SyncTopic),
		slog.String("group", cfg.Kafka.ConsumerGroup),
		slog.String("dead_letter_topic", cfg.Kafka.DeadLetterTopic),
	)
	return consumer.Run(ctx)
}

func newOpsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
