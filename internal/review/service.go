package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bookcatalog/internal/book"
	"bookcatalog/internal/platform/metrics"
)

type Service struct {
	books    BookFinder
	repo     Repository
	verifier *Verifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewService wires the review service. logger defaults to slog.Default and
// m may be nil.
func NewService(books BookFinder, repo Repository, verifier *Verifier, logger *slog.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{books: books, repo: repo, verifier: verifier, logger: logger, metrics: m}
}

// Create stores a review for the book with isbn. A title with profane or
// placeholder wording, or content that fails the verifier, is rejected with a
// *QualityError and nothing is written.
func (s *Service) Create(ctx context.Context, isbn string, in CreateInput) (Review, error) {
	b, err := s.findBook(ctx, isbn)
	if err != nil {
		return Review{}, err
	}

	field, verdict := "title", s.verifier.CheckTitle(in.Title)
	if verdict.Passed() {
		field, verdict = "content", s.verifier.Check(in.Content)
	}
	s.metrics.IncReviewVerified(string(verdict.Reason))
	if !verdict.Passed() {
		s.logger.InfoContext(ctx, "review rejected",
			slog.String("isbn", isbn),
			slog.String("field", field),
			slog.String("reason", string(verdict.Reason)),
		)
		return Review{}, &QualityError{Field: field, Verdict: verdict}
	}

	r := Review{
		BookID:  b.ID,
		ISBN:    b.ISBN,
		Title:   in.Title,
		Content: in.Content,
		Rating:  in.Rating,
	}
	if err := s.repo.Create(ctx, &r); err != nil {
		return Review{}, fmt.Errorf("create review: %w", err)
	}
	return r, nil
}

// ListByISBN returns up to limit reviews of a book, newest first, starting
// below afterID.
func (s *Service) ListByISBN(ctx context.Context, isbn string, afterID int64, limit int) ([]Review, error) {
	b, err := s.findBook(ctx, isbn)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByBookID(ctx, b.ID, afterID, limit)
}

func (s *Service) findBook(ctx context.Context, isbn string) (book.Book, error) {
	b, err := s.books.FindByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, book.ErrNotFound) {
			return book.Book{}, ErrBookNotFound
		}
		return book.Book{}, fmt.Errorf("find book: %w", err)
	}
	return b, nil
}
