package book

import (
	"errors"
	"net/http"
	"strconv"

	"bookcatalog/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := Query{
		Q:     query.Get("q"),
		Genre: query.Get("genre"),
	}

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	params.Limit = pageSize
	params.Offset = (page - 1) * pageSize

	books, total, err := h.service.List(r.Context(), params)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, books, map[string]any{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	})
}

// GetByISBN handles GET /books/{isbn}
func (h *HTTPHandler) GetByISBN(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")
	if !IsValidISBN(isbn) {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid ISBN", nil)
		return
	}

	book, err := h.service.GetByISBN(r.Context(), isbn)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "ISBN not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, book, nil)
}
