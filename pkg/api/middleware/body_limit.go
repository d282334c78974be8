package middleware

import (
	"net/http"
)

// BodySizeLimit rejects bodies larger than maxBytes. A declared
// Content-Length over the limit is refused before the handler runs; other
// bodies are capped with http.MaxBytesReader and fail on read.
func BodySizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
