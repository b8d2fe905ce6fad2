package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
)

// ValidISBN is a well-formed ISBN used across listener and handler tests.
const ValidISBN = "1234567891234"

// NewRequest creates a new HTTP request for testing. A non-nil body is
// JSON encoded; a string body is sent as is.
func NewRequest(method, path string, body any) *http.Request {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	r := httptest.NewRequest(method, path, reader)
	if reader != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	return r
}

// RecordResponse is the decoded form of a recorded JSON response.
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

// RecordHTTPResponse decodes the recorder's JSON envelope into a map.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]any
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}

// ErrorCode returns error.code from a decoded error envelope.
func (r RecordResponse) ErrorCode() string {
	errBody, ok := r.Body["error"].(map[string]any)
	if !ok {
		return ""
	}
	code, _ := errBody["code"].(string)
	return code
}

// MigrationsDir returns the absolute path of db/migrations.
func MigrationsDir() string {
	_, thisFile, _, _ := runtime.Caller(0)
	// this file lives in internal/testutil/, so repo root is ../..
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", "db", "migrations"))
}
