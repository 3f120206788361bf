package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mwhitfield/storefront/internal/models"
)

// TokenManager handles JWT token generation and validation
type TokenManager struct {
	secret        string
	loginExpiry   time.Duration // token issued on login / reset auto-login
	refreshExpiry time.Duration // token issued on refresh
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(secret string, loginExpiry, refreshExpiry time.Duration) *TokenManager {
	return &TokenManager{
		secret:        secret,
		loginExpiry:   loginExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// GenerateLoginToken creates the token set on login and reset auto-login.
func (tm *TokenManager) GenerateLoginToken(accountID, role string) (string, time.Time, error) {
	return tm.generate(accountID, role, tm.loginExpiry)
}

// GenerateRefreshedToken creates the longer-lived token issued on refresh.
func (tm *TokenManager) GenerateRefreshedToken(accountID, role string) (string, time.Time, error) {
	return tm.generate(accountID, role, tm.refreshExpiry)
}

func (tm *TokenManager) generate(accountID, role string, expiry time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(expiry)

	claims := &models.TokenClaims{
		AccountID: accountID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(tm.secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateToken verifies a token and returns its claims
func (tm *TokenManager) ValidateToken(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tm.secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, models.ErrUnauthorized
	}

	if claims.AccountID == "" {
		return nil, fmt.Errorf("invalid token: missing account id")
	}

	return claims, nil
}

// FailureReason maps a validation error to the machine-readable reason
// surfaced to clients alongside the 401.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return "token_not_active"
	default:
		return "invalid_token"
	}
}
