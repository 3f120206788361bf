package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mwhitfield/storefront/internal/auth"
	"github.com/mwhitfield/storefront/internal/models"
	"github.com/mwhitfield/storefront/internal/services"
	"github.com/mwhitfield/storefront/internal/session"
	pkgauth "github.com/mwhitfield/storefront/pkg/auth"
	pkghttp "github.com/mwhitfield/storefront/pkg/http"
)

// AuthGateway defines the auth operations the HTTP layer depends on.
type AuthGateway interface {
	Signup(ctx context.Context, name, email, password string) (*services.SignupResult, error)
	VerifyOTP(ctx context.Context, email, code string) error
	ResendOTP(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string, meta session.ClientMeta) (*services.LoginResult, error)
	Logout(ctx context.Context, tokenString string)
	ResetPassword(ctx context.Context, email, code, newPassword string, meta session.ClientMeta) (*services.LoginResult, error)
	ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error
	RefreshToken(ctx context.Context, tokenString string, meta session.ClientMeta) (*services.RefreshResult, error)
	UpdateProfile(ctx context.Context, accountID, name, email string) (*services.ProfileUpdateResult, error)
	CheckAuth(ctx context.Context, tokenString string) (*services.AccountSummary, bool)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service  AuthGateway
	cookies  auth.CookieConfig
	ipConfig *pkghttp.IPConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthGateway, cookies auth.CookieConfig, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		cookies:  cookies,
		ipConfig: ipConfig,
	}
}

// Request DTOs

// SignupRequest represents the request body for signup
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyOTPRequest represents the request body for OTP verification
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// EmailRequest represents request bodies that carry only an email
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents the request body for password reset
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// ChangePasswordRequest represents the request body for password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// UpdateProfileRequest represents the request body for profile updates
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"omitempty,min=1,max=100"`
	Email string `json:"email" validate:"omitempty,email"`
}

func (h *AuthHandler) clientMeta(r *http.Request) session.ClientMeta {
	return session.ClientMeta{
		UserAgent: r.Header.Get("User-Agent"),
		IPAddress: pkghttp.ExtractClientIP(r, h.ipConfig),
	}
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return false
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return false
	}
	return true
}

// Signup registers a new account and triggers OTP delivery.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		var verr *pkgauth.PasswordValidationError
		switch {
		case errors.As(err, &verr):
			pkghttp.WriteBadRequest(w, verr.Error())
		case errors.Is(err, models.ErrAlreadyExists):
			pkghttp.WriteConflict(w, "Email already registered.")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	if result.Created {
		pkghttp.WriteSuccess(w, http.StatusCreated, "Signup successful. OTP sent to email.", pkghttp.Envelope{
			"otpRequired": true,
		})
		return
	}
	pkghttp.WriteOK(w, "OTP resent to email.", pkghttp.Envelope{
		"otpRequired": true,
	})
}

// VerifyOTP confirms the emailed code.
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.service.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		var mismatch *services.OTPMismatchError
		switch {
		case errors.As(err, &mismatch):
			pkghttp.WriteErrorExtra(w, http.StatusBadRequest, "Invalid OTP.", pkghttp.Envelope{
				"attemptsLeft": mismatch.AttemptsLeft,
			})
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "OTP not found or already used.")
		case errors.Is(err, models.ErrAlreadyVerified):
			pkghttp.WriteConflict(w, "Email already verified.")
		case errors.Is(err, models.ErrOTPExpired):
			pkghttp.WriteBadRequest(w, "OTP expired. Please request a new one.")
		case errors.Is(err, models.ErrTooManyAttempts):
			pkghttp.WriteTooManyRequests(w, "Too many incorrect attempts. Please request a new OTP.")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteOK(w, "Email verified successfully.", nil)
}

// ResendOTP reissues the pending challenge.
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.service.ResendOTP(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Account not found.")
		case errors.Is(err, models.ErrNoActiveRequest):
			pkghttp.WriteBadRequest(w, "No active OTP request for this account.")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteOK(w, "OTP resent to email.", nil)
}

// ForgotPassword starts the OTP-backed reset flow.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.service.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Account not found.")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteOK(w, "OTP sent to email.", nil)
}

// Login authenticates and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password, h.clientMeta(r))
	if err != nil {
		var cred *services.CredentialsError
		var locked *services.LockedError
		var verification *services.VerificationRequiredError
		switch {
		case errors.As(err, &cred):
			pkghttp.WriteErrorExtra(w, http.StatusUnauthorized, "Invalid email or password.", pkghttp.Envelope{
				"attemptsLeft": cred.AttemptsLeft,
			})
		case errors.As(err, &locked):
			pkghttp.WriteErrorExtra(w, http.StatusLocked, "Account temporarily locked due to repeated failed logins. Try again later.", pkghttp.Envelope{
				"lockedUntil": locked.Until,
			})
		case errors.As(err, &verification):
			pkghttp.WriteErrorExtra(w, http.StatusForbidden, "Please verify your email address before logging in.", pkghttp.Envelope{
				"requiresVerification": true,
				"email":                verification.Email,
			})
		case errors.Is(err, models.ErrInvalidCredentials):
			pkghttp.WriteUnauthorized(w, "Invalid email or password.")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	auth.SetTokenCookie(w, result.Token, result.ExpiresAt, h.cookies)
	pkghttp.WriteOK(w, "Login successful.", pkghttp.Envelope{
		"user": result.Account,
	})
}

// Logout removes the session. Always succeeds and always clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenString, _ := auth.GetTokenCookie(r)
	h.service.Logout(r.Context(), tokenString)

	auth.ClearTokenCookie(w, h.cookies)
	pkghttp.WriteOK(w, "Logged out successfully.", nil)
}

// ResetPassword completes the reset flow and auto-logs the account in.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := pkgauth.ValidatePassword(req.NewPassword); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	result, err := h.service.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword, h.clientMeta(r))
	if err != nil {
		var mismatch *services.OTPMismatchError
		switch {
		case errors.As(err, &mismatch):
			pkghttp.WriteErrorExtra(w, http.StatusBadRequest, "Invalid OTP.", pkghttp.Envelope{
				"attemptsLeft": mismatch.AttemptsLeft,
			})
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "OTP not found or already used.")
		case errors.Is(err, models.ErrVerificationRequired):
			pkghttp.WriteForbidden(w, "Please verify your email address first.")
		case errors.Is(err, models.ErrOTPExpired):
			pkghttp.WriteBadRequest(w, "OTP expired. Please request a new one.")
		case errors.Is(err, models.ErrTooManyAttempts):
			pkghttp.WriteTooManyRequests(w, "Too many incorrect attempts. Please request a new OTP.")
		case errors.Is(err, models.ErrSamePassword):
			pkghttp.WriteBadRequest(w, "New password must be different from the current password.")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	auth.SetTokenCookie(w, result.Token, result.ExpiresAt, h.cookies)
	pkghttp.WriteOK(w, "Password reset successful.", pkghttp.Envelope{
		"autoLogin": true,
		"user":      result.Account,
	})
}

// ChangePassword rotates the password for the authenticated account. All
// sessions die, so the cookie is cleared and the client must log in again.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity := auth.GetIdentity(r)
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Not authenticated. Please login.")
		return
	}

	var req ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := pkgauth.ValidatePassword(req.NewPassword); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	err := h.service.ChangePassword(r.Context(), identity.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCredentials):
			pkghttp.WriteUnauthorized(w, "Current password is incorrect.")
		case errors.Is(err, models.ErrSamePassword):
			pkghttp.WriteBadRequest(w, "New password must be different from the current password.")
		case errors.Is(err, models.ErrPasswordReused):
			pkghttp.WriteBadRequest(w, "New password must not match any of your recent passwords.")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	auth.ClearTokenCookie(w, h.cookies)
	pkghttp.WriteOK(w, "Password changed successfully. Please login again.", nil)
}

// RefreshToken exchanges the cookie token for a longer-lived one.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	tokenString, err := auth.GetTokenCookie(r)
	if err != nil || tokenString == "" {
		pkghttp.WriteUnauthorized(w, "Not authenticated. Please login.")
		return
	}

	result, err := h.service.RefreshToken(r.Context(), tokenString, h.clientMeta(r))
	if err != nil {
		auth.ClearTokenCookie(w, h.cookies)
		switch {
		case errors.Is(err, models.ErrInvalidSession):
			pkghttp.WriteUnauthorized(w, "Session expired or invalid. Please login again.")
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "Invalid authentication token.")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	auth.SetTokenCookie(w, result.Token, result.ExpiresAt, h.cookies)
	pkghttp.WriteOK(w, "Token refreshed.", pkghttp.Envelope{
		"expiresAt": result.ExpiresAt,
	})
}

// Check reports authentication state without ever failing.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	tokenString, _ := auth.GetTokenCookie(r)

	summary, ok := h.service.CheckAuth(r.Context(), tokenString)
	if !ok {
		pkghttp.WriteJSON(w, http.StatusOK, pkghttp.Envelope{
			"success":       true,
			"authenticated": false,
		})
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, pkghttp.Envelope{
		"success":       true,
		"authenticated": true,
		"user":          summary,
	})
}

// Me returns the authenticated identity view.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := auth.GetIdentity(r)
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Not authenticated. Please login.")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, pkghttp.Envelope{
		"success": true,
		"user":    identity,
	})
}

// UpdateProfile changes name and/or email. An email change kills the
// current session, so the cookie is cleared alongside.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity := auth.GetIdentity(r)
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Not authenticated. Please login.")
		return
	}

	var req UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if req.Name == "" && req.Email == "" {
		pkghttp.WriteBadRequest(w, "Nothing to update.")
		return
	}

	result, err := h.service.UpdateProfile(r.Context(), identity.ID, req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmailInUse):
			pkghttp.WriteConflict(w, "Email already registered.")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "User account not found.")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	if result.RequiresVerification {
		auth.ClearTokenCookie(w, h.cookies)
		pkghttp.WriteOK(w, "Profile updated. Please verify your new email address.", pkghttp.Envelope{
			"user":                 result.Account,
			"requiresVerification": true,
		})
		return
	}

	pkghttp.WriteOK(w, "Profile updated.", pkghttp.Envelope{
		"user": result.Account,
	})
}
