package review

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bookcatalog/internal/book"
	"bookcatalog/internal/httpx"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Create handles POST /books/{isbn}/reviews
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")
	if !book.IsValidISBN(isbn) {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid ISBN", nil)
		return
	}

	var req CreateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	created, err := h.service.Create(r.Context(), isbn, req)
	if err != nil {
		var qualityErr *QualityError
		switch {
		case errors.Is(err, ErrBookNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		case errors.As(err, &qualityErr):
			httpx.JSONError(w, r, http.StatusUnprocessableEntity, "REVIEW_QUALITY",
				"Review does not meet quality standards", []httpx.ErrorDetail{{
					Field:   qualityErr.Field,
					Message: string(qualityErr.Verdict.Reason),
				}})
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}

	httpx.JSONSuccessCreated(w, r, created)
}

// List handles GET /books/{isbn}/reviews
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")
	if !book.IsValidISBN(isbn) {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid ISBN", nil)
		return
	}

	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}

	cursor, err := DecodeCursor(query.Get("cursor"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid cursor", nil)
		return
	}

	// One extra row tells whether a next page exists.
	reviews, err := h.service.ListByISBN(r.Context(), isbn, cursor.AfterID, limit+1)
	if err != nil {
		if errors.Is(err, ErrBookNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	next := ""
	if len(reviews) > limit {
		reviews = reviews[:limit]
		next = EncodeCursor(Cursor{AfterID: reviews[limit-1].ID})
	}

	httpx.JSONSuccess(w, r, reviews, map[string]any{
		"limit":       limit,
		"next_cursor": next,
	})
}
