package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"
)

// CSRFHeader carries the token on htmx requests.
const CSRFHeader = "X-CSRF-Token"

// CSRF protects unsafe methods with a double-submit token. When secure is
// false the cookie is sent over plain HTTP and requests are treated as
// plaintext so the referer check does not demand TLS.
func CSRF(key []byte, secure bool) func(http.Handler) http.Handler {
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.RequestHeader(CSRFHeader),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Request rejected: the page's security token is missing or stale. Reload the page.", http.StatusForbidden)
		})),
	)
	return func(next http.Handler) http.Handler {
		h := protect(next)
		if secure {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
