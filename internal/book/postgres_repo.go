package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

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

const selectColumns = `id, isbn, title, author, publisher, genre, description, pages, thumbnail_url, created_at`

func scanBook(row pgx.Row, b *Book) error {
	return row.Scan(
		&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Publisher, &b.Genre,
		&b.Description, &b.Pages, &b.ThumbnailURL, &b.CreatedAt,
	)
}

func (r *PostgresRepo) FindByISBN(ctx context.Context, isbn string) (Book, error) {
	query := `SELECT ` + selectColumns + ` FROM books WHERE isbn = $1 LIMIT 1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var b Book
	if err := scanBook(r.db.QueryRow(timeoutCtx, query, isbn), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, fmt.Errorf("find book %s: %w", isbn, err)
	}
	return b, nil
}

// Save inserts book and fills in its ID and CreatedAt. A second insert for
// the same ISBN fails with ErrDuplicate; existing rows are never updated.
func (r *PostgresRepo) Save(ctx context.Context, book *Book) error {
	const sql = `
		INSERT INTO books (isbn, title, author, publisher, genre, description, pages, thumbnail_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRow(timeoutCtx, sql,
		book.ISBN, book.Title, book.Author, book.Publisher, book.Genre,
		book.Description, book.Pages, book.ThumbnailURL,
	).Scan(&book.ID, &book.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("save book %s: %w", book.ISBN, err)
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Book, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Genre != "" {
		clauses = append(clauses, fmt.Sprintf("genre = $%d", argn))
		args = append(args, q.Genre)
		argn++
	}

	if q.Q != "" {
		clauses = append(clauses, fmt.Sprintf("(isbn ILIKE $%d OR title ILIKE $%d OR author ILIKE $%d)", argn, argn, argn))
		args = append(args, "%"+q.Q+"%")
		argn++
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM books %s", where)
	if err := r.db.QueryRow(timeoutCtx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`
		SELECT %s
		FROM books
		%s
		ORDER BY title ASC, id ASC
		LIMIT $%d OFFSET $%d`,
		selectColumns, where, argn, argn+1)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, q.Limit, q.Offset)
	rows, err := r.db.Query(timeoutCtx, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		var b Book
		if err := scanBook(rows, &b); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

// BulkInsert copies books in one round trip. Duplicate ISBNs abort the whole
// copy.
func (r *PostgresRepo) BulkInsert(ctx context.Context, books []Book) (int64, error) {
	columns := []string{"isbn", "title", "author", "publisher", "genre", "description", "pages", "thumbnail_url"}

	n, err := r.db.CopyFrom(ctx, pgx.Identifier{"books"}, columns,
		pgx.CopyFromSlice(len(books), func(i int) ([]any, error) {
			b := books[i]
			return []any{b.ISBN, b.Title, b.Author, b.Publisher, b.Genre, b.Description, b.Pages, b.ThumbnailURL}, nil
		}),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("copy books: %w", err)
	}
	return n, nil
}
