package httpx

import (
	"crypto/subtle"
	"net/http"
)

const internalSecretHeader = "X-Internal-Secret"

// InternalSecretMiddleware rejects requests whose X-Internal-Secret header
// does not match secret. An empty secret rejects every request.
func InternalSecretMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(internalSecretHeader)
			if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid internal secret", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
