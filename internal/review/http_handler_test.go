package review

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"bookcatalog/internal/book"
	"bookcatalog/internal/platform/metrics"
	"bookcatalog/internal/testutil"
)

func newTestHandler(t *testing.T) (*HTTPHandler, *MockBookFinder, *MockRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	books := NewMockBookFinder(ctrl)
	repo := NewMockRepository(ctrl)
	svc := NewService(books, repo, newTestVerifier(), nil, metrics.New(prometheus.NewRegistry()))
	return NewHTTPHandler(svc), books, repo
}

func reviewRequest(method, isbn string, body any) *http.Request {
	r := testutil.NewRequest(method, "/books/"+isbn+"/reviews", body)
	r.SetPathValue("isbn", isbn)
	return r
}

func TestHTTPHandler_Create(t *testing.T) {
	validBody := map[string]any{"title": "Worth it", "content": goodReview, "rating": 4}

	t.Run("created", func(t *testing.T) {
		handler, books, repo := newTestHandler(t)
		books.EXPECT().FindByISBN(gomock.Any(), testBook.ISBN).Return(testBook, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		handler.Create(w, reviewRequest(http.MethodPost, testBook.ISBN, validBody))

		res := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusCreated, res.Code)
		data, ok := res.Body["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Worth it", data["title"])
		assert.Equal(t, float64(4), data["rating"])
	})

	t.Run("quality rejection", func(t *testing.T) {
		handler, books, _ := newTestHandler(t)
		books.EXPECT().FindByISBN(gomock.Any(), testBook.ISBN).Return(testBook, nil)

		w := httptest.NewRecorder()
		handler.Create(w, reviewRequest(http.MethodPost, testBook.ISBN, map[string]any{
			"title": "Nope", "content": "Lorem Ipsum generated text...", "rating": 1,
		}))

		res := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
		assert.Equal(t, "REVIEW_QUALITY", res.ErrorCode())
		assert.Contains(t, w.Body.String(), string(ReasonBoilerplate))
		assert.Contains(t, w.Body.String(), `"field":"content"`)
	})

	t.Run("title rejected", func(t *testing.T) {
		handler, books, _ := newTestHandler(t)
		books.EXPECT().FindByISBN(gomock.Any(), testBook.ISBN).Return(testBook, nil)

		w := httptest.NewRecorder()
		handler.Create(w, reviewRequest(http.MethodPost, testBook.ISBN, map[string]any{
			"title": "Pure crap", "content": goodReview, "rating": 1,
		}))

		res := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
		assert.Contains(t, w.Body.String(), `"field":"title"`)
		assert.Contains(t, w.Body.String(), string(ReasonProfanity))
	})

	t.Run("validation error", func(t *testing.T) {
		handler, _, _ := newTestHandler(t)

		w := httptest.NewRecorder()
		handler.Create(w, reviewRequest(http.MethodPost, testBook.ISBN, map[string]any{
			"title": "", "content": goodReview, "rating": 9,
		}))

		res := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusBadRequest, res.Code)
		assert.Equal(t, "VALIDATION_ERROR", res.ErrorCode())
		assert.Contains(t, w.Body.String(), `"field":"title"`)
		assert.Contains(t, w.Body.String(), `"field":"rating"`)
	})

	t.Run("malformed body", func(t *testing.T) {
		handler, _, _ := newTestHandler(t)

		w := httptest.NewRecorder()
		handler.Create(w, reviewRequest(http.MethodPost, testBook.ISBN, "{not json"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed isbn", func(t *testing.T) {
		handler, _, _ := newTestHandler(t)

		w := httptest.NewRecorder()
		handler.Create(w, reviewRequest(http.MethodPost, "978-0134685991", validBody))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown book", func(t *testing.T) {
		handler, books, _ := newTestHandler(t)
		books.EXPECT().FindByISBN(gomock.Any(), testutil.ValidISBN).Return(book.Book{}, book.ErrNotFound)

		w := httptest.NewRecorder()
		handler.Create(w, reviewRequest(http.MethodPost, testutil.ValidISBN, validBody))

		res := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusNotFound, res.Code)
		assert.Equal(t, "NOT_FOUND", res.ErrorCode())
	})
}

func TestHTTPHandler_List(t *testing.T) {
	t.Run("first page with next cursor", func(t *testing.T) {
		handler, books, repo := newTestHandler(t)
		books.EXPECT().FindByISBN(gomock.Any(), testBook.ISBN).Return(testBook, nil)
		repo.EXPECT().ListByBookID(gomock.Any(), testBook.ID, int64(0), 3).
			Return([]Review{{ID: 30}, {ID: 20}, {ID: 10}}, nil)

		r := reviewRequest(http.MethodGet, testBook.ISBN, nil)
		r.URL.RawQuery = "limit=2"
		w := httptest.NewRecorder()
		handler.List(w, r)

		res := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Len(t, res.Body["data"], 2)

		meta := res.Body["meta"].(map[string]any)
		assert.Equal(t, EncodeCursor(Cursor{AfterID: 20}), meta["next_cursor"])
	})

	t.Run("last page follows cursor", func(t *testing.T) {
		handler, books, repo := newTestHandler(t)
		books.EXPECT().FindByISBN(gomock.Any(), testBook.ISBN).Return(testBook, nil)
		repo.EXPECT().ListByBookID(gomock.Any(), testBook.ID, int64(20), 3).
			Return([]Review{{ID: 10}}, nil)

		r := reviewRequest(http.MethodGet, testBook.ISBN, nil)
		r.URL.RawQuery = "limit=2&cursor=" + EncodeCursor(Cursor{AfterID: 20})
		w := httptest.NewRecorder()
		handler.List(w, r)

		res := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusOK, res.Code)
		meta := res.Body["meta"].(map[string]any)
		assert.Equal(t, "", meta["next_cursor"])
	})

	t.Run("bad cursor", func(t *testing.T) {
		handler, _, _ := newTestHandler(t)

		r := reviewRequest(http.MethodGet, testBook.ISBN, nil)
		r.URL.RawQuery = "cursor=%21%21"
		w := httptest.NewRecorder()
		handler.List(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown book", func(t *testing.T) {
		handler, books, _ := newTestHandler(t)
		books.EXPECT().FindByISBN(gomock.Any(), testBook.ISBN).Return(book.Book{}, book.ErrNotFound)

		w := httptest.NewRecorder()
		handler.List(w, reviewRequest(http.MethodGet, testBook.ISBN, nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
