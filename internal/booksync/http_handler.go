package booksync

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookcatalog/internal/httpx"
	"bookcatalog/internal/platform/openlibrary"
)

type HTTPHandler struct {
	listener *Listener
}

func NewHTTPHandler(listener *Listener) *HTTPHandler {
	return &HTTPHandler{listener: listener}
}

type syncRequest struct {
	ISBN string `json:"isbn" validate:"required,isbn13"`
}

type syncResponse struct {
	ISBN    string  `json:"isbn"`
	Outcome Outcome `json:"outcome"`
}

// Sync handles POST /internal/sync
func (h *HTTPHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	outcome, err := h.listener.Sync(r.Context(), BookSynchronization{ISBN: req.ISBN})
	if err != nil {
		if errors.Is(err, openlibrary.ErrBookNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "ISBN not found upstream", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusBadGateway, "SYNC_FAILED", "Book synchronization failed", nil)
		return
	}

	httpx.JSONSuccess(w, r, syncResponse{ISBN: req.ISBN, Outcome: outcome}, nil)
}
