package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the payload of the signed auth token. Authorization is
// cookie-based; the token carries only the account identity and role.
type TokenClaims struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}
