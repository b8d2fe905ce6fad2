package review

import (
	"errors"
	"fmt"
	"time"
)

var ErrBookNotFound = errors.New("book not found")

type Review struct {
	ID        int64     `json:"id"`
	BookID    int64     `json:"book_id"`
	ISBN      string    `json:"isbn"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateInput struct {
	Title   string `json:"title" validate:"required,min=1,max=100"`
	Content string `json:"content" validate:"required,min=1,max=5000"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
}

// QualityError is returned when the review title or content fails the
// verifier. Field is the JSON name of the rejected input.
type QualityError struct {
	Field   string
	Verdict Verdict
}

func (e *QualityError) Error() string {
	if e.Verdict.Detail != "" {
		return fmt.Sprintf("review %s rejected: %s (%s)", e.Field, e.Verdict.Reason, e.Verdict.Detail)
	}
	return fmt.Sprintf("review %s rejected: %s", e.Field, e.Verdict.Reason)
}
