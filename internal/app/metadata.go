// Package app holds wiring shared by the catalog binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"bookcatalog/internal/booksync"
	"bookcatalog/internal/config"
	"bookcatalog/internal/platform/metrics"
	"bookcatalog/internal/platform/openlibrary"
	"bookcatalog/internal/platform/redis"
)

// Metadata is the book metadata client together with its optional cache.
type Metadata struct {
	Client booksync.MetadataClient
	cache  *redis.Client
}

// NewMetadata returns the Open Library client, behind the Redis cache when
// REDIS_URL is set. An unreachable Redis is logged and skipped.
func NewMetadata(ctx context.Context, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *Metadata {
	client := openlibrary.NewClient(cfg.OpenLibrary.BaseURL, cfg.OpenLibrary.UserAgent, cfg.OpenLibrary.RPS, cfg.OpenLibrary.MaxRetries)

	cache, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("metadata cache disabled", slog.String("error", err.Error()))
		return &Metadata{Client: client}
	}
	if cache == nil {
		return &Metadata{Client: client}
	}

	logger.Info("metadata cache enabled", slog.Duration("ttl", cfg.Redis.MetadataTTL))
	return &Metadata{
		Client: openlibrary.NewCachedClient(client, cache, cfg.Redis.MetadataTTL, logger, m),
		cache:  cache,
	}
}

// Ready pings the cache. Without a cache it always succeeds.
func (md *Metadata) Ready(ctx context.Context) error {
	if md.cache == nil {
		return nil
	}
	if err := md.cache.Health(ctx); err != nil {
		return fmt.Errorf("metadata cache: %w", err)
	}
	return nil
}

func (md *Metadata) Close() {
	if md.cache != nil {
		_ = md.cache.Close()
	}
}
