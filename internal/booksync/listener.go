// Package booksync imports books announced on the synchronization topic.
package booksync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bookcatalog/internal/book"
	"bookcatalog/internal/platform/metrics"
)

const tracerName = "bookcatalog/internal/booksync"

// BookSynchronization announces that a book should exist in the catalog.
type BookSynchronization struct {
	ISBN string `json:"isbn"`
}

type BookRepository interface {
	FindByISBN(ctx context.Context, isbn string) (book.Book, error)
	Save(ctx context.Context, b *book.Book) error
}

type MetadataClient interface {
	FetchMetadataForBook(ctx context.Context, isbn string) (*book.Book, error)
}

// Outcome is the metrics label of one processed event.
type Outcome string

const (
	OutcomeInvalidISBN   Outcome = metrics.OutcomeInvalidISBN
	OutcomeAlreadyExists Outcome = metrics.OutcomeAlreadyExists
	OutcomeFetchFailed   Outcome = metrics.OutcomeFetchFailed
	OutcomeSaveFailed    Outcome = metrics.OutcomeSaveFailed
	OutcomeStored        Outcome = metrics.OutcomeStored
	OutcomeLookupFailed  Outcome = metrics.OutcomeLookupFailed
)

type Listener struct {
	repo    BookRepository
	client  MetadataClient
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(l *Listener)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Listener) {
		l.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Listener) {
		l.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(l *Listener) {
		l.tracer = tracer
	}
}

func NewListener(repo BookRepository, client MetadataClient, opts ...Option) *Listener {
	l := &Listener{
		repo:   repo,
		client: client,
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ConsumeBookUpdates makes sure the announced book is stored. Malformed and
// already known ISBNs are ignored. A metadata fetch error is returned as is
// and nothing is written.
func (l *Listener) ConsumeBookUpdates(ctx context.Context, event BookSynchronization) error {
	_, err := l.Sync(ctx, event)
	return err
}

// Sync is ConsumeBookUpdates reporting which outcome the event had.
func (l *Listener) Sync(ctx context.Context, event BookSynchronization) (outcome Outcome, err error) {
	ctx, span := l.tracer.Start(ctx, "booksync.consume", trace.WithAttributes(
		attribute.String("book.isbn", event.ISBN),
	))
	defer func() {
		span.SetAttributes(attribute.String("booksync.outcome", string(outcome)))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		l.metrics.IncBookSync(string(outcome))
	}()

	isbn := event.ISBN
	log := l.logger.With(slog.String("isbn", isbn))

	if !book.IsValidISBN(isbn) {
		log.WarnContext(ctx, "ignoring book sync with malformed isbn")
		return OutcomeInvalidISBN, nil
	}

	if _, err := l.repo.FindByISBN(ctx, isbn); err == nil {
		log.DebugContext(ctx, "book already in catalog")
		return OutcomeAlreadyExists, nil
	} else if !errors.Is(err, book.ErrNotFound) {
		return OutcomeLookupFailed, fmt.Errorf("look up book %s: %w", isbn, err)
	}

	fetched, err := l.client.FetchMetadataForBook(ctx, isbn)
	if err != nil {
		log.WarnContext(ctx, "fetching book metadata failed", slog.String("error", err.Error()))
		return OutcomeFetchFailed, err
	}
	if fetched == nil {
		return OutcomeFetchFailed, fmt.Errorf("no metadata returned for %s", isbn)
	}
	fetched.ISBN = isbn

	if err := l.repo.Save(ctx, fetched); err != nil {
		if errors.Is(err, book.ErrDuplicate) {
			log.DebugContext(ctx, "book stored concurrently")
			return OutcomeAlreadyExists, nil
		}
		return OutcomeSaveFailed, fmt.Errorf("save book %s: %w", isbn, err)
	}

	log.InfoContext(ctx, "book stored", slog.Int64("book_id", fetched.ID), slog.String("title", fetched.Title))
	return OutcomeStored, nil
}
