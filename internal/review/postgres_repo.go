package review

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// Create inserts rev and fills in its ID and CreatedAt.
func (r *PostgresRepo) Create(ctx context.Context, rev *Review) error {
	const sql = `
		INSERT INTO reviews (book_id, title, content, rating, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRow(timeoutCtx, sql, rev.BookID, rev.Title, rev.Content, rev.Rating).
		Scan(&rev.ID, &rev.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert review for book %d: %w", rev.BookID, err)
	}
	return nil
}

func (r *PostgresRepo) ListByBookID(ctx context.Context, bookID, afterID int64, limit int) ([]Review, error) {
	const sql = `
		SELECT r.id, r.book_id, b.isbn, r.title, r.content, r.rating, r.created_at
		FROM reviews r
		JOIN books b ON b.id = r.book_id
		WHERE r.book_id = $1 AND ($2::bigint = 0 OR r.id < $2)
		ORDER BY r.id DESC
		LIMIT $3`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, sql, bookID, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews for book %d: %w", bookID, err)
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		var rev Review
		if err := rows.Scan(&rev.ID, &rev.BookID, &rev.ISBN, &rev.Title, &rev.Content, &rev.Rating, &rev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}
