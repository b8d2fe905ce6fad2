//go:build integration

package book

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog/internal/testutil"
)

func TestPostgresRepo_Integration(t *testing.T) {
	pool := testutil.NewPostgres(t)
	repo := NewPostgresRepo(pool, 5*time.Second)
	ctx := context.Background()

	t.Run("find missing book", func(t *testing.T) {
		_, err := repo.FindByISBN(ctx, "9999999999999")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("save assigns identity", func(t *testing.T) {
		b := &Book{ISBN: "9780134685991", Title: "Effective Java", Author: "Joshua Bloch", Pages: 412}
		require.NoError(t, repo.Save(ctx, b))
		assert.NotZero(t, b.ID)
		assert.False(t, b.CreatedAt.IsZero())

		found, err := repo.FindByISBN(ctx, "9780134685991")
		require.NoError(t, err)
		assert.Equal(t, b.ID, found.ID)
		assert.Equal(t, "Effective Java", found.Title)
		assert.Equal(t, 412, found.Pages)
	})

	t.Run("second save of same isbn is rejected", func(t *testing.T) {
		err := repo.Save(ctx, &Book{ISBN: "9780134685991", Title: "Other"})
		assert.ErrorIs(t, err, ErrDuplicate)

		found, err := repo.FindByISBN(ctx, "9780134685991")
		require.NoError(t, err)
		assert.Equal(t, "Effective Java", found.Title)
	})

	t.Run("list filters and paginates", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, &Book{ISBN: "9781617294945", Title: "Java Testing", Genre: "Programming"}))
		require.NoError(t, repo.Save(ctx, &Book{ISBN: "9780201633610", Title: "Design Patterns", Genre: "Programming"}))

		books, total, err := repo.List(ctx, Query{Q: "java", Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, books, 1)
		assert.Equal(t, "Effective Java", books[0].Title)

		books, total, err = repo.List(ctx, Query{Genre: "Programming", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, books, 2)
	})

	t.Run("bulk insert", func(t *testing.T) {
		n, err := repo.BulkInsert(ctx, []Book{
			{ISBN: "9780000000001", Title: "Seeded One", Pages: 100},
			{ISBN: "9780000000002", Title: "Seeded Two", Pages: 200},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		found, err := repo.FindByISBN(ctx, "9780000000002")
		require.NoError(t, err)
		assert.Equal(t, "Seeded Two", found.Title)

		_, err = repo.BulkInsert(ctx, []Book{{ISBN: "9780000000001", Title: "Again"}})
		assert.ErrorIs(t, err, ErrDuplicate)
	})
}
