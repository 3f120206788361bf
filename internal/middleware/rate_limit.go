package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimitConfig holds a per-IP request budget over a window.
type RateLimitConfig struct {
	RequestLimit int
	Window       time.Duration
}

// OTPRateLimit bounds the OTP-sensitive endpoints (signup, verify, resend,
// forgot and reset) to 5 requests per 10 minutes per IP.
func OTPRateLimit() RateLimitConfig {
	return RateLimitConfig{RequestLimit: 5, Window: 10 * time.Minute}
}

// LoginRateLimit bounds the login endpoint to 10 requests per 15 minutes
// per IP, matching the lockout window.
func LoginRateLimit() RateLimitConfig {
	return RateLimitConfig{RequestLimit: 10, Window: 15 * time.Minute}
}

// RateLimitByIP creates a middleware that rate limits requests by client IP
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestLimit,
		config.Window,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"message":"Too many requests. Please try again later."}`))
		}),
	)
}
