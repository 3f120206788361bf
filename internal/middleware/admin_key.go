package middleware

import (
	"crypto/subtle"
	"net/http"

	pkghttp "github.com/mwhitfield/storefront/pkg/http"
)

// AdminKeyHeader is the header operational tooling authenticates with.
const AdminKeyHeader = "x-admin-key"

// RequireAdminKey gates a route on a static operator key, independent of
// the cookie/session path. An empty configured key disables the routes
// entirely rather than leaving them open.
func RequireAdminKey(adminKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey == "" {
				pkghttp.WriteNotFound(w, "Not found.")
				return
			}

			provided := r.Header.Get(AdminKeyHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(adminKey)) != 1 {
				pkghttp.WriteForbidden(w, "Invalid admin key.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
