package middleware

import (
	"log"
	"net/http"

	"notes-server/pkg/response"
)

// RecoveryMiddleware is the outermost boundary: a panic escaping a handler
// becomes a generic 500 instead of killing the connection.
func RecoveryMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
					response.InternalError(w, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
