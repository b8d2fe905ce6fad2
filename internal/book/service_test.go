package book

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	svc := NewService(repo)

	t.Run("trims filters and clamps paging", func(t *testing.T) {
		repo.EXPECT().
			List(gomock.Any(), Query{Q: "go", Genre: "Programming", Limit: DefaultPageSize, Offset: 0}).
			Return([]Book{{ISBN: "9780134190440"}}, 1, nil)

		books, total, err := svc.List(context.Background(), Query{Q: "  go ", Genre: " Programming", Limit: 500, Offset: -3})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, books, 1)
	})

	t.Run("wraps store errors", func(t *testing.T) {
		repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, 0, context.DeadlineExceeded)

		_, _, err := svc.List(context.Background(), Query{Limit: 10})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestService_GetByISBN(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	svc := NewService(repo)

	t.Run("malformed isbn skips the store", func(t *testing.T) {
		for _, isbn := range []string{"", "978013468599", "978-0134685991", "97801346859x1"} {
			_, err := svc.GetByISBN(context.Background(), isbn)
			assert.ErrorIs(t, err, ErrNotFound, isbn)
		}
	})

	t.Run("passes store result through", func(t *testing.T) {
		boom := errors.New("connection reset")
		repo.EXPECT().FindByISBN(gomock.Any(), "9780134685991").Return(Book{}, boom)

		_, err := svc.GetByISBN(context.Background(), "9780134685991")
		assert.ErrorIs(t, err, boom)
	})
}
