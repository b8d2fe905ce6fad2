package booksync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bookcatalog/internal/book"
)

var ErrInvalidISBN = errors.New("isbn must be 13 digits")

// EventSink is the transport a Publisher writes to, usually a kafka.Producer.
type EventSink interface {
	Publish(ctx context.Context, key, value []byte) error
}

type Publisher struct {
	sink EventSink
}

func NewPublisher(sink EventSink) *Publisher {
	return &Publisher{sink: sink}
}

// Publish announces isbn keyed by itself, so events for one book stay ordered
// on one partition.
func (p *Publisher) Publish(ctx context.Context, isbn string) error {
	if !book.IsValidISBN(isbn) {
		return fmt.Errorf("%q: %w", isbn, ErrInvalidISBN)
	}

	value, err := json.Marshal(BookSynchronization{ISBN: isbn})
	if err != nil {
		return fmt.Errorf("encode book sync: %w", err)
	}
	if err := p.sink.Publish(ctx, []byte(isbn), value); err != nil {
		return fmt.Errorf("publish book sync %s: %w", isbn, err)
	}
	return nil
}
