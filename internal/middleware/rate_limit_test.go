package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitByIP_BlocksOverBudget(t *testing.T) {
	limiter := RateLimitByIP(RateLimitConfig{RequestLimit: 3, Window: time.Minute})
	handler := limiter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, send().Code, "request %d should pass", i+1)
	}

	w := send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "Too many requests"))
}

func TestRateLimitByIP_TracksIPsSeparately(t *testing.T) {
	limiter := RateLimitByIP(RateLimitConfig{RequestLimit: 1, Window: time.Minute})
	handler := limiter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) int {
		req := httptest.NewRequest("POST", "/auth/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1234"))
}

func TestRateLimitPresets(t *testing.T) {
	otp := OTPRateLimit()
	assert.Equal(t, 5, otp.RequestLimit)
	assert.Equal(t, 10*time.Minute, otp.Window)

	login := LoginRateLimit()
	assert.Equal(t, 10, login.RequestLimit)
	assert.Equal(t, 15*time.Minute, login.Window)
}
