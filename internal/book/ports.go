package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository stores books keyed by ISBN. Save never overwrites: a second
// book with the same ISBN fails with ErrDuplicate.
type Repository interface {
	FindByISBN(ctx context.Context, isbn string) (Book, error)
	Save(ctx context.Context, book *Book) error
	List(ctx context.Context, q Query) ([]Book, int, error)
}
