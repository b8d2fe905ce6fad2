package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"bookcatalog/internal/book"
	"bookcatalog/internal/platform/metrics"
)

const cacheKeyPrefix = "openlibrary:isbn:"

// DetailsFetcher is the subset of Client the cache decorates.
type DetailsFetcher interface {
	GetBookDetails(ctx context.Context, isbn string) (BookDetails, error)
}

// CachedClient is a read-through Redis cache in front of Open Library.
// Redis failures degrade to a direct fetch; only upstream errors surface.
type CachedClient struct {
	upstream DetailsFetcher
	cache    redis.Cmdable
	ttl      time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewCachedClient(upstream DetailsFetcher, cache redis.Cmdable, ttl time.Duration, logger *slog.Logger, m *metrics.Metrics) *CachedClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedClient{
		upstream: upstream,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
		metrics:  m,
	}
}

func (c *CachedClient) GetBookDetails(ctx context.Context, isbn string) (BookDetails, error) {
	key := cacheKeyPrefix + isbn

	raw, err := c.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var details BookDetails
		if jsonErr := json.Unmarshal(raw, &details); jsonErr == nil {
			c.metrics.IncMetadataCache("hit")
			return details, nil
		}
		c.logger.Warn("discarding corrupt metadata cache entry", "isbn", isbn)
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("metadata cache read failed", "isbn", isbn, "error", err)
	}
	c.metrics.IncMetadataCache("miss")

	details, err := c.upstream.GetBookDetails(ctx, isbn)
	if err != nil {
		return BookDetails{}, err
	}

	if raw, err := json.Marshal(details); err == nil {
		if err := c.cache.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Warn("metadata cache write failed", "isbn", isbn, "error", err)
		}
	}
	return details, nil
}

func (c *CachedClient) FetchMetadataForBook(ctx context.Context, isbn string) (*book.Book, error) {
	details, err := c.GetBookDetails(ctx, isbn)
	if err != nil {
		return nil, err
	}
	return ToBook(isbn, details), nil
}
