package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mwhitfield/storefront/internal/auth"
	"github.com/mwhitfield/storefront/internal/models"
	"github.com/mwhitfield/storefront/internal/otp"
	"github.com/mwhitfield/storefront/internal/session"
	pkgauth "github.com/mwhitfield/storefront/pkg/auth"
	pkglogger "github.com/mwhitfield/storefront/pkg/logger"
)

const (
	// MaxLoginAttempts failed logins trigger a temporary lockout.
	MaxLoginAttempts = 5
	// MaxOTPAttempts wrong codes exhaust the current challenge.
	MaxOTPAttempts = 5
)

// AccountRepository defines the persistence operations the auth core needs.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	Save(ctx context.Context, account *models.Account) (*models.Account, error)
}

// CredentialsError is an invalid-credentials failure carrying the
// attempts-remaining hint disclosed to legitimate users.
type CredentialsError struct {
	AttemptsLeft int
}

func (e *CredentialsError) Error() string { return models.ErrInvalidCredentials.Error() }
func (e *CredentialsError) Unwrap() error { return models.ErrInvalidCredentials }

// OTPMismatchError is a wrong-code failure with the remaining attempts.
type OTPMismatchError struct {
	AttemptsLeft int
}

func (e *OTPMismatchError) Error() string { return models.ErrInvalidOTP.Error() }
func (e *OTPMismatchError) Unwrap() error { return models.ErrInvalidOTP }

// LockedError reports an active lockout window.
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string { return models.ErrAccountLocked.Error() }
func (e *LockedError) Unwrap() error { return models.ErrAccountLocked }

// VerificationRequiredError gates an unverified account, echoing the
// address the pending OTP was sent to.
type VerificationRequiredError struct {
	Email string
}

func (e *VerificationRequiredError) Error() string { return models.ErrVerificationRequired.Error() }
func (e *VerificationRequiredError) Unwrap() error { return models.ErrVerificationRequired }

// AccountSummary is the account view returned by auth operations.
type AccountSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// SignupResult reports whether a fresh account was created or an abandoned
// unverified signup was recycled.
type SignupResult struct {
	Created     bool
	OTPRequired bool
}

// LoginResult carries the issued token and its expiry for the cookie.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   AccountSummary
}

// ProfileUpdateResult reports whether the change demoted the account back
// to pending verification.
type ProfileUpdateResult struct {
	Account              AccountSummary
	RequiresVerification bool
}

// AuthService orchestrates signup, login, OTP verification, password
// lifecycle and token refresh against the account store and the session
// registry.
type AuthService struct {
	repo            AccountRepository
	registry        session.Registry
	tm              *auth.TokenManager
	email           EmailSender
	logger          *slog.Logger
	auditLogger     *pkglogger.AuditLogger
	lockoutDuration time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(
	repo AccountRepository,
	registry session.Registry,
	tm *auth.TokenManager,
	email EmailSender,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
	lockoutDuration time.Duration,
) *AuthService {
	return &AuthService{
		repo:            repo,
		registry:        registry,
		tm:              tm,
		email:           email,
		logger:          logger,
		auditLogger:     auditLogger,
		lockoutDuration: lockoutDuration,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// setPassword hashes the new password and records the fresh hash at the
// history front, truncated to the retained depth. Hashing happens exactly
// once, right here, before persistence.
func setPassword(account *models.Account, newPassword string) error {
	hash, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	account.PasswordHash = hash
	account.PushPasswordHistory(time.Now())
	return nil
}

// wasPasswordUsed checks the candidate against the retained history hashes.
func wasPasswordUsed(account *models.Account, candidate string) bool {
	for _, entry := range account.PasswordHistory {
		if pkgauth.ComparePassword(entry.Hash, candidate) == nil {
			return true
		}
	}
	return false
}

// sendOTP delivers the code. Delivery failures do not roll back the
// already-persisted challenge; they are logged and swallowed.
func (s *AuthService) sendOTP(ctx context.Context, email string, challenge *otp.Challenge) {
	if err := s.email.SendOTP(ctx, email, challenge.Code, challenge.ExpiresAt); err != nil {
		s.logger.Error("failed to deliver otp email",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Any("error", err))
	}
}

// Signup registers a new unverified account and sends its OTP. Signing up
// again with the email of an abandoned unverified account updates it in
// place and resends a fresh code, so users can recover without support.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*SignupResult, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)

	if err := pkgauth.ValidatePassword(password); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check existing account", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if existing != nil && existing.IsVerified {
		return nil, models.ErrAlreadyExists
	}

	challenge, err := otp.Issue()
	if err != nil {
		s.logger.Error("failed to issue otp", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if existing != nil {
		// Re-signup over an unverified account
		existing.Name = name
		if err := setPassword(existing, password); err != nil {
			s.logger.Error("failed to hash password", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		existing.OTPHash = challenge.Hash
		existing.OTPExpires = &challenge.ExpiresAt
		existing.OTPAttempts = 0

		if _, err := s.repo.Save(ctx, existing); err != nil {
			s.logger.Error("failed to update unverified account", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}

		s.sendOTP(ctx, email, challenge)
		s.auditLogger.LogAccountAction("signup_otp_resent", existing.ID, "", nil)
		return &SignupResult{Created: false, OTPRequired: true}, nil
	}

	account := &models.Account{
		Name:       name,
		Email:      email,
		Role:       models.RoleUser,
		IsVerified: false,
		OTPHash:    challenge.Hash,
		OTPExpires: &challenge.ExpiresAt,
	}
	if err := setPassword(account, password); err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			return nil, models.ErrAlreadyExists
		}
		s.logger.Error("failed to create account", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.sendOTP(ctx, email, challenge)
	s.auditLogger.LogAccountAction("account_registered", created.ID, "", nil)
	return &SignupResult{Created: true, OTPRequired: true}, nil
}

// VerifyOTP confirms control of the email address and flips the account to
// verified. The challenge is single use: it is cleared on success.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) error {
	account, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to load account for otp verification", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if !account.HasOTP() {
		return models.ErrNotFound
	}

	if account.IsVerified {
		return models.ErrAlreadyVerified
	}

	if time.Now().After(*account.OTPExpires) {
		return models.ErrOTPExpired
	}

	if account.OTPAttempts >= MaxOTPAttempts {
		return models.ErrTooManyAttempts
	}

	if !otp.Verify(code, account.OTPHash) {
		account.OTPAttempts++
		if _, err := s.repo.Save(ctx, account); err != nil {
			s.logger.Error("failed to record otp attempt", slog.Any("error", err))
			return models.ErrInternalServer
		}
		return &OTPMismatchError{AttemptsLeft: MaxOTPAttempts - account.OTPAttempts}
	}

	account.IsVerified = true
	account.ClearOTP()

	if _, err := s.repo.Save(ctx, account); err != nil {
		s.logger.Error("failed to persist verification", slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.auditLogger.LogAccountAction("email_verified", account.ID, "", nil)
	return nil
}

// ResendOTP issues a fresh challenge for a pending verification, or for a
// verified account's in-flight reset request. A verified account with no
// stored challenge has nothing to resend.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to load account for otp resend", slog.Any("error", err))
		return models.ErrInternalServer
	}

	// Verified accounts only receive a resend inside a live reset flow;
	// a lapsed code means starting over via forgot-password.
	if account.IsVerified && (!account.HasOTP() || time.Now().After(*account.OTPExpires)) {
		return models.ErrNoActiveRequest
	}

	challenge, err := otp.Issue()
	if err != nil {
		s.logger.Error("failed to issue otp", slog.Any("error", err))
		return models.ErrInternalServer
	}

	account.OTPHash = challenge.Hash
	account.OTPExpires = &challenge.ExpiresAt
	account.OTPAttempts = 0

	if _, err := s.repo.Save(ctx, account); err != nil {
		s.logger.Error("failed to persist otp resend", slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.sendOTP(ctx, email, challenge)
	return nil
}

// ForgotPassword starts the reset flow by storing and mailing a fresh OTP.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to load account for password reset", slog.Any("error", err))
		return models.ErrInternalServer
	}

	challenge, err := otp.Issue()
	if err != nil {
		s.logger.Error("failed to issue otp", slog.Any("error", err))
		return models.ErrInternalServer
	}

	account.OTPHash = challenge.Hash
	account.OTPExpires = &challenge.ExpiresAt
	account.OTPAttempts = 0

	if _, err := s.repo.Save(ctx, account); err != nil {
		s.logger.Error("failed to persist reset otp", slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.sendOTP(ctx, email, challenge)
	return nil
}

// Login authenticates credentials, enforces the lockout policy and
// registers the single active session for the account.
func (s *AuthService) Login(ctx context.Context, email, password string, meta session.ClientMeta) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, models.ErrInvalidCredentials
	}

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Generic failure: do not distinguish unknown email from bad password
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login_failed",
				IPAddress:     meta.IPAddress,
				FailureReason: "invalid_credentials",
				Success:       false,
			})
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("failed to load account for login", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if !account.IsVerified {
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			AccountID:     account.ID,
			IPAddress:     meta.IPAddress,
			FailureReason: "verification_required",
			Success:       false,
		})
		return nil, &VerificationRequiredError{Email: account.Email}
	}

	now := time.Now()
	if account.FailedLoginAttempts >= MaxLoginAttempts {
		if account.IsLocked(now) {
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login_failed",
				AccountID:     account.ID,
				IPAddress:     meta.IPAddress,
				FailureReason: "account_locked",
				Success:       false,
			})
			return nil, &LockedError{Until: *account.AccountLockedUntil}
		}

		// Lock window elapsed: reset lazily and proceed
		account.FailedLoginAttempts = 0
		account.AccountLockedUntil = nil
		if _, err := s.repo.Save(ctx, account); err != nil {
			s.logger.Error("failed to clear expired lockout", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
	}

	if err := pkgauth.ComparePassword(account.PasswordHash, password); err != nil {
		account.FailedLoginAttempts++
		if account.FailedLoginAttempts >= MaxLoginAttempts {
			lockedUntil := now.Add(s.lockoutDuration)
			account.AccountLockedUntil = &lockedUntil
		}
		if _, err := s.repo.Save(ctx, account); err != nil {
			s.logger.Error("failed to record login failure", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}

		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			AccountID:     account.ID,
			IPAddress:     meta.IPAddress,
			UserAgent:     meta.UserAgent,
			FailureReason: "invalid_credentials",
			Success:       false,
		})

		attemptsLeft := MaxLoginAttempts - account.FailedLoginAttempts
		if attemptsLeft < 0 {
			attemptsLeft = 0
		}
		return nil, &CredentialsError{AttemptsLeft: attemptsLeft}
	}

	account.FailedLoginAttempts = 0
	account.AccountLockedUntil = nil
	account.LastLogin = &now

	if _, err := s.repo.Save(ctx, account); err != nil {
		s.logger.Error("failed to persist login", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	token, expiresAt, err := s.tm.GenerateLoginToken(account.ID, account.Role)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("account_id", account.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	// Single active session: a second login overwrites the first
	if err := s.registry.Put(ctx, account.ID, token, expiresAt, meta); err != nil {
		s.logger.Error("failed to register session", slog.String("account_id", account.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		AccountID: account.ID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Success:   true,
	})

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Account: AccountSummary{
			ID:    account.ID,
			Name:  account.Name,
			Email: account.Email,
			Role:  account.Role,
		},
	}, nil
}

// Logout removes the session named by the token, if it decodes at all.
// Best effort by contract: it never fails, the caller clears the cookie
// regardless.
func (s *AuthService) Logout(ctx context.Context, tokenString string) {
	if tokenString == "" {
		return
	}

	claims, err := s.tm.ValidateToken(tokenString)
	if err != nil {
		// Already invalid or expired; nothing to remove
		return
	}

	if s.registry.Remove(ctx, claims.AccountID) {
		s.auditLogger.LogAccountAction("logout", claims.AccountID, "", nil)
	}
}

// ResetPassword completes the OTP-backed reset: verifies the code, rejects
// a no-op password, rotates the credential, kills every session and logs
// the account straight back in.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string, meta session.ClientMeta) (*LoginResult, error) {
	account, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to load account for reset", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if !account.HasOTP() {
		return nil, models.ErrNotFound
	}

	if !account.IsVerified {
		return nil, models.ErrVerificationRequired
	}

	if time.Now().After(*account.OTPExpires) {
		return nil, models.ErrOTPExpired
	}

	if account.OTPAttempts >= MaxOTPAttempts {
		return nil, models.ErrTooManyAttempts
	}

	if !otp.Verify(code, account.OTPHash) {
		account.OTPAttempts++
		if _, err := s.repo.Save(ctx, account); err != nil {
			s.logger.Error("failed to record otp attempt", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		return nil, &OTPMismatchError{AttemptsLeft: MaxOTPAttempts - account.OTPAttempts}
	}

	// Reject before mutating anything: existing sessions must survive a
	// rejected reset.
	if pkgauth.ComparePassword(account.PasswordHash, newPassword) == nil {
		return nil, models.ErrSamePassword
	}

	account.ClearOTP()
	if err := setPassword(account, newPassword); err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.registry.InvalidateAll(ctx, account.ID)

	if _, err := s.repo.Save(ctx, account); err != nil {
		s.logger.Error("failed to persist password reset", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogPasswordChange(account.ID, meta.IPAddress, true)

	// Auto-login with a fresh token and session
	token, expiresAt, err := s.tm.GenerateLoginToken(account.ID, account.Role)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("account_id", account.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := s.registry.Put(ctx, account.ID, token, expiresAt, meta); err != nil {
		s.logger.Error("failed to register session", slog.String("account_id", account.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Account: AccountSummary{
			ID:    account.ID,
			Name:  account.Name,
			Email: account.Email,
			Role:  account.Role,
		},
	}, nil
}

// ChangePassword rotates the credential for a logged-in account. Unlike
// reset there is no auto-login: every session is invalidated and the
// caller must log in again.
func (s *AuthService) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to load account for password change", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(account.PasswordHash, currentPassword); err != nil {
		s.auditLogger.LogPasswordChange(account.ID, "", false)
		return models.ErrInvalidCredentials
	}

	if pkgauth.ComparePassword(account.PasswordHash, newPassword) == nil {
		return models.ErrSamePassword
	}

	if wasPasswordUsed(account, newPassword) {
		return models.ErrPasswordReused
	}

	if err := setPassword(account, newPassword); err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.registry.InvalidateAll(ctx, account.ID)

	if _, err := s.repo.Save(ctx, account); err != nil {
		s.logger.Error("failed to persist password change", slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.auditLogger.LogPasswordChange(account.ID, "", true)
	return nil
}

// RefreshResult carries the replacement token issued by RefreshToken.
type RefreshResult struct {
	Token     string
	ExpiresAt time.Time
}

// RefreshToken swaps a valid token backed by a live session for a
// longer-lived one, updating the session in place.
func (s *AuthService) RefreshToken(ctx context.Context, tokenString string, meta session.ClientMeta) (*RefreshResult, error) {
	claims, err := s.tm.ValidateToken(tokenString)
	if err != nil {
		return nil, models.ErrUnauthorized
	}

	if !s.registry.IsValid(ctx, claims.AccountID) {
		return nil, models.ErrInvalidSession
	}

	token, expiresAt, err := s.tm.GenerateRefreshedToken(claims.AccountID, claims.Role)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("account_id", claims.AccountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := s.registry.Put(ctx, claims.AccountID, token, expiresAt, meta); err != nil {
		s.logger.Error("failed to update session", slog.String("account_id", claims.AccountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return &RefreshResult{Token: token, ExpiresAt: expiresAt}, nil
}

// UpdateProfile changes the account name and/or email. An email change
// demotes the account to unverified, sends a fresh OTP to the new address
// and kills every session, including the one making the request.
func (s *AuthService) UpdateProfile(ctx context.Context, accountID, name, email string) (*ProfileUpdateResult, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to load account for profile update", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	email = normalizeEmail(email)
	name = strings.TrimSpace(name)

	if email != "" && email != account.Email {
		existing, err := s.repo.GetByEmail(ctx, email)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			s.logger.Error("failed to check email uniqueness", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		if existing != nil && existing.ID != account.ID {
			return nil, models.ErrEmailInUse
		}

		challenge, err := otp.Issue()
		if err != nil {
			s.logger.Error("failed to issue otp", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}

		if name != "" {
			account.Name = name
		}
		account.Email = email
		account.IsVerified = false
		account.OTPHash = challenge.Hash
		account.OTPExpires = &challenge.ExpiresAt
		account.OTPAttempts = 0

		s.registry.InvalidateAll(ctx, account.ID)

		updated, err := s.repo.Save(ctx, account)
		if err != nil {
			if errors.Is(err, models.ErrAlreadyExists) {
				return nil, models.ErrEmailInUse
			}
			s.logger.Error("failed to persist email change", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}

		s.sendOTP(ctx, email, challenge)
		s.auditLogger.LogAccountAction("email_changed", account.ID, "", map[string]string{
			"email": pkglogger.SanitizedEmail(email),
		})

		return &ProfileUpdateResult{
			Account: AccountSummary{
				ID:    updated.ID,
				Name:  updated.Name,
				Email: updated.Email,
				Role:  updated.Role,
			},
			RequiresVerification: true,
		}, nil
	}

	if name != "" {
		account.Name = name
	}

	updated, err := s.repo.Save(ctx, account)
	if err != nil {
		s.logger.Error("failed to persist profile update", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return &ProfileUpdateResult{
		Account: AccountSummary{
			ID:    updated.ID,
			Name:  updated.Name,
			Email: updated.Email,
			Role:  updated.Role,
		},
	}, nil
}

// CheckAuth resolves the identity behind a token without failing: a dead
// token or session yields an anonymous result, never an error.
func (s *AuthService) CheckAuth(ctx context.Context, tokenString string) (*AccountSummary, bool) {
	if tokenString == "" {
		return nil, false
	}

	claims, err := s.tm.ValidateToken(tokenString)
	if err != nil {
		return nil, false
	}

	if !s.registry.IsValid(ctx, claims.AccountID) {
		return nil, false
	}

	account, err := s.repo.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.registry.Remove(ctx, claims.AccountID)
		}
		return nil, false
	}

	return &AccountSummary{
		ID:    account.ID,
		Name:  account.Name,
		Email: account.Email,
		Role:  account.Role,
	}, true
}
