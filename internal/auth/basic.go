package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"
)

// BasicAuth protects the back-office with HTTP Basic credentials.
// Both fields go through constant-time comparison; the two results are
// combined before branching so a wrong username costs the same as a
// wrong password.
func BasicAuth(username, password string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			userOK := subtle.ConstantTimeCompare([]byte(user), []byte(username))
			passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(password))
			if !ok || userOK&passOK != 1 {
				w.Header().Set("WWW-Authenticate", `Basic realm="fixdesk admin"`)
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
