package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serveWithAdminKey(configured, provided string) *httptest.ResponseRecorder {
	handler := RequireAdminKey(configured)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest("GET", "/admin/ops/sessions", nil)
	if provided != "" {
		req.Header.Set(AdminKeyHeader, provided)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestRequireAdminKey(t *testing.T) {
	assert.Equal(t, http.StatusOK, serveWithAdminKey("ops-secret", "ops-secret").Code)
	assert.Equal(t, http.StatusForbidden, serveWithAdminKey("ops-secret", "wrong").Code)
	assert.Equal(t, http.StatusForbidden, serveWithAdminKey("ops-secret", "").Code)
}

func TestRequireAdminKey_UnconfiguredLooksAbsent(t *testing.T) {
	// With no key configured the route must not reveal it exists.
	assert.Equal(t, http.StatusNotFound, serveWithAdminKey("", "anything").Code)
}
