package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/mwhitfield/storefront/internal/auth"
	"github.com/mwhitfield/storefront/internal/handlers"
	"github.com/mwhitfield/storefront/internal/middleware"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	sessionHandler *handlers.SessionHandler,
	adminHandler *handlers.AdminHandler,
	guard *auth.Guard,
	adminKey string,
) {
	otpLimiter := middleware.RateLimitByIP(middleware.OTPRateLimit())
	loginLimiter := middleware.RateLimitByIP(middleware.LoginRateLimit())

	// Public routes
	router.With(otpLimiter).Post("/auth/signup", authHandler.Signup)
	router.With(otpLimiter).Post("/auth/verify-otp", authHandler.VerifyOTP)
	router.With(otpLimiter).Post("/auth/resend-otp", authHandler.ResendOTP)
	router.With(otpLimiter).Post("/auth/forgot-password", authHandler.ForgotPassword)
	router.With(otpLimiter).Post("/auth/reset-password", authHandler.ResetPassword)
	router.With(loginLimiter).Post("/auth/login", authHandler.Login)
	router.Post("/auth/refresh-token", authHandler.RefreshToken)
	router.Get("/auth/check", authHandler.Check)
	router.Post("/auth/logout", authHandler.Logout)

	// Protected routes - valid cookie, session and account required
	router.Group(func(r chi.Router) {
		r.Use(guard.Require())

		r.Get("/auth/me", authHandler.Me)
		r.Put("/auth/profile", authHandler.UpdateProfile)
		r.Post("/auth/change-password", authHandler.ChangePassword)
		r.Get("/auth/sessions/me", sessionHandler.MySessions)
		r.Post("/auth/sessions/revoke/{accountID}", sessionHandler.Revoke)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Get("/auth/sessions/active", sessionHandler.ActiveSessions)
			r.Get("/admin/accounts", adminHandler.ListAccounts)
			r.Get("/admin/accounts/{accountID}", adminHandler.GetAccount)
			r.Put("/admin/accounts/{accountID}/status", adminHandler.UpdateStatus)
		})
	})

	// Operator tooling authenticates with a static key, not a session
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminKey(adminKey))
		r.Get("/admin/ops/sessions", sessionHandler.ActiveSessions)
	})
}
