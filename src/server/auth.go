package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// BearerAuth rejects requests whose Authorization header does not carry
// the configured token. An empty configured token locks the routes out
// entirely rather than leaving them open.
func BearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if token == "" || !strings.HasPrefix(header, bearerPrefix) {
				writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
					"success": false,
					"message": "unauthorized",
				})
				return
			}

			presented := strings.TrimPrefix(header, bearerPrefix)
			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
					"success": false,
					"message": "unauthorized",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
