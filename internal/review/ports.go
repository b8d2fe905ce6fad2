package review

import (
	"context"

	"bookcatalog/internal/book"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=review

// BookFinder resolves the book a review is written for.
type BookFinder interface {
	FindByISBN(ctx context.Context, isbn string) (book.Book, error)
}

type Repository interface {
	Create(ctx context.Context, r *Review) error
	// ListByBookID returns up to limit reviews newest first. A zero afterID
	// starts from the newest review.
	ListByBookID(ctx context.Context, bookID, afterID int64, limit int) ([]Review, error)
}
