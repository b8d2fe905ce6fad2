package book

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicate is returned when a book with the same ISBN already exists.
	ErrDuplicate = errors.New("book already exists")
)

// Book represents a book entity. ID is assigned by the store on Save.
type Book struct {
	ID           int64     `json:"id"`
	ISBN         string    `json:"isbn"`
	Title        string    `json:"title"`
	Author       string    `json:"author,omitempty"`
	Publisher    string    `json:"publisher,omitempty"`
	Genre        string    `json:"genre,omitempty"`
	Description  string    `json:"description,omitempty"`
	Pages        int       `json:"pages,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Query defines filters and pagination for listing books.
type Query struct {
	Q      string
	Genre  string
	Limit  int
	Offset int
}
