package review

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"bookcatalog/internal/book"
	"bookcatalog/internal/platform/metrics"
)

var testBook = book.Book{ID: 7, ISBN: "9780134685991", Title: "Effective Java"}

func newTestService(t *testing.T) (*Service, *MockBookFinder, *MockRepository, *metrics.Metrics) {
	t.Helper()
	ctrl := gomock.NewController(t)
	books := NewMockBookFinder(ctrl)
	repo := NewMockRepository(ctrl)
	m := metrics.New(prometheus.NewRegistry())
	return NewService(books, repo, newTestVerifier(), nil, m), books, repo, m
}

func TestService_Create(t *testing.T) {
	in := CreateInput{Title: "Worth it", Content: goodReview, Rating: 5}

	t.Run("stores a review that passes", func(t *testing.T) {
		svc, books, repo, m := newTestService(t)
		books.EXPECT().FindByISBN(gomock.Any(), testBook.ISBN).Return(testBook, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r *Review) error {
			assert.Equal(t, testBook.ID, r.BookID)
			r.ID = 99
			return nil
		})

		got, err := svc.Create(context.Background(), testBook.ISBN, in)
		require.NoError(t, err)
		assert.Equal(t, int64(99), got.ID)
		assert.Equal(t, testBook.ISBN, got.ISBN)
		assert.Equal(t, 5, got.Rating)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ReviewsVerified.WithLabelValues(string(ReasonOK))))
	})

	t.Run("rejects profanity without writing", func(t *testing.T) {
		svc, books, _, m := newTestService(t)
		books.EXPECT().FindByISBN(gomock.Any(), testBook.ISBN).Return(testBook, nil)

		_, err := svc.Create(context.Background(), testBook.ISBN, CreateInput{Title: "Bad", Content: "This book is shit", Rating: 1})

		var qualityErr *QualityError
		require.ErrorAs(t, err, &qualityErr)
		assert.Equal(t, "content", qualityErr.Field)
		assert.Equal(t, ReasonProfanity, qualityErr.Verdict.Reason)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ReviewsVerified.WithLabelValues(string(ReasonProfanity))))
	})

	t.Run("rejects title wording before content", func(t *testing.T) {
		for title, reason := range map[string]Reason{
			"Total bullshit":     ReasonProfanity,
			"Lorem ipsum dolor":  ReasonBoilerplate,
			"What a crappy read": ReasonProfanity,
		} {
			svc, books, _, m := newTestService(t)
			books.EXPECT().FindByISBN(gomock.Any(), testBook.ISBN).Return(testBook, nil)

			_, err := svc.Create(context.Background(), testBook.ISBN, CreateInput{Title: title, Content: goodReview, Rating: 2})

			var qualityErr *QualityError
			require.ErrorAs(t, err, &qualityErr, title)
			assert.Equal(t, "title", qualityErr.Field)
			assert.Equal(t, reason, qualityErr.Verdict.Reason)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.ReviewsVerified.WithLabelValues(string(reason))))
		}
	})

	t.Run("short titles are fine", func(t *testing.T) {
		svc, books, repo, _ := newTestService(t)
		books.EXPECT().FindByISBN(gomock.Any(), testBook.ISBN).Return(testBook, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.Create(context.Background(), testBook.ISBN, CreateInput{Title: "Wow", Content: goodReview, Rating: 5})
		require.NoError(t, err)
	})

	t.Run("unknown book", func(t *testing.T) {
		svc, books, _, _ := newTestService(t)
		books.EXPECT().FindByISBN(gomock.Any(), testBook.ISBN).Return(book.Book{}, book.ErrNotFound)

		_, err := svc.Create(context.Background(), testBook.ISBN, in)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("lookup failure is wrapped", func(t *testing.T) {
		svc, books, _, _ := newTestService(t)
		dbErr := errors.New("connection reset")
		books.EXPECT().FindByISBN(gomock.Any(), testBook.ISBN).Return(book.Book{}, dbErr)

		_, err := svc.Create(context.Background(), testBook.ISBN, in)
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		svc, books, repo, _ := newTestService(t)
		dbErr := errors.New("disk full")
		books.EXPECT().FindByISBN(gomock.Any(), testBook.ISBN).Return(testBook, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dbErr)

		_, err := svc.Create(context.Background(), testBook.ISBN, in)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestService_ListByISBN(t *testing.T) {
	t.Run("lists by book id", func(t *testing.T) {
		svc, books, repo, _ := newTestService(t)
		books.EXPECT().FindByISBN(gomock.Any(), testBook.ISBN).Return(testBook, nil)
		repo.EXPECT().ListByBookID(gomock.Any(), testBook.ID, int64(10), 5).Return([]Review{{ID: 9}, {ID: 8}}, nil)

		got, err := svc.ListByISBN(context.Background(), testBook.ISBN, 10, 5)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("unknown book", func(t *testing.T) {
		svc, books, _, _ := newTestService(t)
		books.EXPECT().FindByISBN(gomock.Any(), testBook.ISBN).Return(book.Book{}, book.ErrNotFound)

		_, err := svc.ListByISBN(context.Background(), testBook.ISBN, 0, 5)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}
