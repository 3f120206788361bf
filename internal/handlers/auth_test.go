package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitfield/storefront/internal/auth"
	"github.com/mwhitfield/storefront/internal/models"
	"github.com/mwhitfield/storefront/internal/services"
	"github.com/mwhitfield/storefront/internal/session"
)

// MockAuthGateway implements AuthGateway for testing
type MockAuthGateway struct {
	SignupFunc         func(ctx context.Context, name, email, password string) (*services.SignupResult, error)
	VerifyOTPFunc      func(ctx context.Context, email, code string) error
	ResendOTPFunc      func(ctx context.Context, email string) error
	ForgotPasswordFunc func(ctx context.Context, email string) error
	LoginFunc          func(ctx context.Context, email, password string, meta session.ClientMeta) (*services.LoginResult, error)
	LogoutFunc         func(ctx context.Context, tokenString string)
	ResetPasswordFunc  func(ctx context.Context, email, code, newPassword string, meta session.ClientMeta) (*services.LoginResult, error)
	ChangePasswordFunc func(ctx context.Context, accountID, currentPassword, newPassword string) error
	RefreshTokenFunc   func(ctx context.Context, tokenString string, meta session.ClientMeta) (*services.RefreshResult, error)
	UpdateProfileFunc  func(ctx context.Context, accountID, name, email string) (*services.ProfileUpdateResult, error)
	CheckAuthFunc      func(ctx context.Context, tokenString string) (*services.AccountSummary, bool)
}

func (m *MockAuthGateway) Signup(ctx context.Context, name, email, password string) (*services.SignupResult, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, name, email, password)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthGateway) VerifyOTP(ctx context.Context, email, code string) error {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, email, code)
	}
	return nil
}

func (m *MockAuthGateway) ResendOTP(ctx context.Context, email string) error {
	if m.ResendOTPFunc != nil {
		return m.ResendOTPFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthGateway) ForgotPassword(ctx context.Context, email string) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthGateway) Login(ctx context.Context, email, password string, meta session.ClientMeta) (*services.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password, meta)
	}
	return nil, models.ErrInvalidCredentials
}

func (m *MockAuthGateway) Logout(ctx context.Context, tokenString string) {
	if m.LogoutFunc != nil {
		m.LogoutFunc(ctx, tokenString)
	}
}

func (m *MockAuthGateway) ResetPassword(ctx context.Context, email, code, newPassword string, meta session.ClientMeta) (*services.LoginResult, error) {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, email, code, newPassword, meta)
	}
	return nil, models.ErrNotFound
}

func (m *MockAuthGateway) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, accountID, currentPassword, newPassword)
	}
	return nil
}

func (m *MockAuthGateway) RefreshToken(ctx context.Context, tokenString string, meta session.ClientMeta) (*services.RefreshResult, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, tokenString, meta)
	}
	return nil, models.ErrUnauthorized
}

func (m *MockAuthGateway) UpdateProfile(ctx context.Context, accountID, name, email string) (*services.ProfileUpdateResult, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, accountID, name, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockAuthGateway) CheckAuth(ctx context.Context, tokenString string) (*services.AccountSummary, bool) {
	if m.CheckAuthFunc != nil {
		return m.CheckAuthFunc(ctx, tokenString)
	}
	return nil, false
}

func newTestAuthHandler(gateway AuthGateway) *AuthHandler {
	return NewAuthHandler(gateway, auth.CookieConfig{SameSite: "lax"}, nil)
}

func postJSON(handler http.HandlerFunc, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func body(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.TokenCookieName {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Signup_Created(t *testing.T) {
	gateway := &MockAuthGateway{
		SignupFunc: func(ctx context.Context, name, email, password string) (*services.SignupResult, error) {
			return &services.SignupResult{Created: true, OTPRequired: true}, nil
		},
	}
	h := newTestAuthHandler(gateway)

	rec := postJSON(h.Signup, "/auth/signup", `{"name":"Jane","email":"jane@example.com","password":"Password1!"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := body(t, rec)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, true, resp["otpRequired"])
}

func TestAuthHandler_Signup_Conflict(t *testing.T) {
	gateway := &MockAuthGateway{
		SignupFunc: func(ctx context.Context, name, email, password string) (*services.SignupResult, error) {
			return nil, models.ErrAlreadyExists
		},
	}
	h := newTestAuthHandler(gateway)

	rec := postJSON(h.Signup, "/auth/signup", `{"name":"Jane","email":"jane@example.com","password":"Password1!"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, false, body(t, rec)["success"])
}

func TestAuthHandler_Signup_InvalidBody(t *testing.T) {
	h := newTestAuthHandler(&MockAuthGateway{})

	rec := postJSON(h.Signup, "/auth/signup", `{"name":"Jane","email":"not-an-email","password":"Password1!"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(h.Signup, "/auth/signup", `not-json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Login_SetsCookie(t *testing.T) {
	expiresAt := time.Now().Add(24 * time.Hour)
	gateway := &MockAuthGateway{
		LoginFunc: func(ctx context.Context, email, password string, meta session.ClientMeta) (*services.LoginResult, error) {
			return &services.LoginResult{
				Token:     "signed-token",
				ExpiresAt: expiresAt,
				Account:   services.AccountSummary{ID: "acct_1", Email: email, Role: models.RoleUser},
			}, nil
		},
	}
	h := newTestAuthHandler(gateway)

	rec := postJSON(h.Login, "/auth/login", `{"email":"jane@example.com","password":"Password1!"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "signed-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestAuthHandler_Login_AttemptsLeft(t *testing.T) {
	gateway := &MockAuthGateway{
		LoginFunc: func(ctx context.Context, email, password string, meta session.ClientMeta) (*services.LoginResult, error) {
			return nil, &services.CredentialsError{AttemptsLeft: 3}
		},
	}
	h := newTestAuthHandler(gateway)

	rec := postJSON(h.Login, "/auth/login", `{"email":"jane@example.com","password":"wrong-one"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, float64(3), body(t, rec)["attemptsLeft"])
}

func TestAuthHandler_Login_Locked(t *testing.T) {
	until := time.Now().Add(15 * time.Minute)
	gateway := &MockAuthGateway{
		LoginFunc: func(ctx context.Context, email, password string, meta session.ClientMeta) (*services.LoginResult, error) {
			return nil, &services.LockedError{Until: until}
		},
	}
	h := newTestAuthHandler(gateway)

	rec := postJSON(h.Login, "/auth/login", `{"email":"jane@example.com","password":"Password1!"}`)

	assert.Equal(t, http.StatusLocked, rec.Code)
	assert.Contains(t, body(t, rec), "lockedUntil")
}

func TestAuthHandler_Login_VerificationRequired(t *testing.T) {
	gateway := &MockAuthGateway{
		LoginFunc: func(ctx context.Context, email, password string, meta session.ClientMeta) (*services.LoginResult, error) {
			return nil, &services.VerificationRequiredError{Email: "jane@example.com"}
		},
	}
	h := newTestAuthHandler(gateway)

	rec := postJSON(h.Login, "/auth/login", `{"email":"jane@example.com","password":"Password1!"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := body(t, rec)
	assert.Equal(t, true, resp["requiresVerification"])
	assert.Equal(t, "jane@example.com", resp["email"])
}

func TestAuthHandler_VerifyOTP_AttemptsLeft(t *testing.T) {
	gateway := &MockAuthGateway{
		VerifyOTPFunc: func(ctx context.Context, email, code string) error {
			return &services.OTPMismatchError{AttemptsLeft: 2}
		},
	}
	h := newTestAuthHandler(gateway)

	rec := postJSON(h.VerifyOTP, "/auth/verify-otp", `{"email":"jane@example.com","otp":"123456"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, float64(2), body(t, rec)["attemptsLeft"])
}

func TestAuthHandler_VerifyOTP_RejectsMalformedCode(t *testing.T) {
	h := newTestAuthHandler(&MockAuthGateway{})

	rec := postJSON(h.VerifyOTP, "/auth/verify-otp", `{"email":"jane@example.com","otp":"12345"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(h.VerifyOTP, "/auth/verify-otp", `{"email":"jane@example.com","otp":"12345a"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Logout_AlwaysSucceeds(t *testing.T) {
	var receivedToken string
	gateway := &MockAuthGateway{
		LogoutFunc: func(ctx context.Context, tokenString string) {
			receivedToken = tokenString
		},
	}
	h := newTestAuthHandler(gateway)

	// With a cookie
	rec := postJSON(h.Logout, "/auth/logout", ``, &http.Cookie{Name: auth.TokenCookieName, Value: "tok"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok", receivedToken)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Less(t, cookie.MaxAge, 0)

	// Without one
	rec = postJSON(h.Logout, "/auth/logout", ``)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandler_ResetPassword_AutoLogin(t *testing.T) {
	gateway := &MockAuthGateway{
		ResetPasswordFunc: func(ctx context.Context, email, code, newPassword string, meta session.ClientMeta) (*services.LoginResult, error) {
			return &services.LoginResult{
				Token:     "fresh-token",
				ExpiresAt: time.Now().Add(24 * time.Hour),
				Account:   services.AccountSummary{ID: "acct_1"},
			}, nil
		},
	}
	h := newTestAuthHandler(gateway)

	rec := postJSON(h.ResetPassword, "/auth/reset-password",
		`{"email":"jane@example.com","otp":"123456","newPassword":"Password2!"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body(t, rec)["autoLogin"])
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "fresh-token", cookie.Value)
}

func TestAuthHandler_ResetPassword_WeakPasswordRejectedBeforeService(t *testing.T) {
	called := false
	gateway := &MockAuthGateway{
		ResetPasswordFunc: func(ctx context.Context, email, code, newPassword string, meta session.ClientMeta) (*services.LoginResult, error) {
			called = true
			return nil, nil
		},
	}
	h := newTestAuthHandler(gateway)

	rec := postJSON(h.ResetPassword, "/auth/reset-password",
		`{"email":"jane@example.com","otp":"123456","newPassword":"weak"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
}

func TestAuthHandler_RefreshToken_SetsNewCookie(t *testing.T) {
	gateway := &MockAuthGateway{
		RefreshTokenFunc: func(ctx context.Context, tokenString string, meta session.ClientMeta) (*services.RefreshResult, error) {
			assert.Equal(t, "old-token", tokenString)
			return &services.RefreshResult{Token: "new-token", ExpiresAt: time.Now().Add(7 * 24 * time.Hour)}, nil
		},
	}
	h := newTestAuthHandler(gateway)

	rec := postJSON(h.RefreshToken, "/auth/refresh-token", ``, &http.Cookie{Name: auth.TokenCookieName, Value: "old-token"})

	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "new-token", cookie.Value)
}

func TestAuthHandler_RefreshToken_DeadSessionClearsCookie(t *testing.T) {
	gateway := &MockAuthGateway{
		RefreshTokenFunc: func(ctx context.Context, tokenString string, meta session.ClientMeta) (*services.RefreshResult, error) {
			return nil, models.ErrInvalidSession
		},
	}
	h := newTestAuthHandler(gateway)

	rec := postJSON(h.RefreshToken, "/auth/refresh-token", ``, &http.Cookie{Name: auth.TokenCookieName, Value: "old-token"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestAuthHandler_Check_Anonymous(t *testing.T) {
	h := newTestAuthHandler(&MockAuthGateway{})

	req := httptest.NewRequest(http.MethodGet, "/auth/check", nil)
	rec := httptest.NewRecorder()
	h.Check(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := body(t, rec)
	assert.Equal(t, false, resp["authenticated"])
}

func TestAuthHandler_Check_Authenticated(t *testing.T) {
	gateway := &MockAuthGateway{
		CheckAuthFunc: func(ctx context.Context, tokenString string) (*services.AccountSummary, bool) {
			return &services.AccountSummary{ID: "acct_1", Email: "jane@example.com"}, true
		},
	}
	h := newTestAuthHandler(gateway)

	req := httptest.NewRequest(http.MethodGet, "/auth/check", nil)
	req.AddCookie(&http.Cookie{Name: auth.TokenCookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	h.Check(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := body(t, rec)
	assert.Equal(t, true, resp["authenticated"])
	assert.NotNil(t, resp["user"])
}
