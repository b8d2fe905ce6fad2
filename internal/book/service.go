package book

import (
	"context"
	"fmt"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Service is the read side of the catalogue. Books are written by the sync
// listener and the seed command through the repository directly.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List trims the filters and clamps paging before querying.
func (s *Service) List(ctx context.Context, q Query) ([]Book, int, error) {
	q.Q = strings.TrimSpace(q.Q)
	q.Genre = strings.TrimSpace(q.Genre)
	if q.Limit <= 0 || q.Limit > MaxPageSize {
		q.Limit = DefaultPageSize
	}
	q.Offset = max(q.Offset, 0)

	books, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	return books, total, nil
}

// GetByISBN returns ErrNotFound for unknown and malformed ISBNs alike; a
// malformed one never reaches the store.
func (s *Service) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	if !IsValidISBN(isbn) {
		return Book{}, ErrNotFound
	}
	return s.repo.FindByISBN(ctx, isbn)
}
