// Package session tracks the server-side validity of issued tokens,
// independent of the token's own cryptographic validity. The registry keeps
// at most one active session per account: a second login overwrites the
// first, it does not reject it.
package session

import (
	"context"
	"time"
)

// Session is the server-side record of an issued token.
type Session struct {
	AccountID  string    `json:"account_id"`
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
	LastActive time.Time `json:"last_active"`
	CreatedAt  time.Time `json:"created_at"`
	UserAgent  string    `json:"user_agent"`
	IPAddress  string    `json:"ip_address"`
	IsValid    bool      `json:"is_valid"`
}

// ClientMeta carries the request metadata recorded on a session.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

// Registry is the session store contract. AuthService and the access guard
// depend only on this interface, so an external cache can stand in for the
// in-process map in multi-process deployments.
type Registry interface {
	// Put stores or overwrites the session for accountID.
	Put(ctx context.Context, accountID, token string, expiresAt time.Time, meta ClientMeta) error

	// IsValid reports whether a live session exists for accountID.
	// Expired or invalidated entries are evicted on lookup.
	IsValid(ctx context.Context, accountID string) bool

	// Touch updates the session's last-active time. No-op if absent.
	Touch(ctx context.Context, accountID string)

	// Remove evicts the session and reports whether one was removed.
	Remove(ctx context.Context, accountID string) bool

	// InvalidateAll evicts every session for the account. With single-session
	// semantics it is an alias of Remove, used on security-sensitive
	// mutations (password change/reset, suspension, email change).
	InvalidateAll(ctx context.Context, accountID string) bool

	// ListForAccount returns a read-only snapshot of the account's sessions.
	ListForAccount(ctx context.Context, accountID string) []Session

	// ListAll returns a snapshot of every active session (admin use).
	ListAll(ctx context.Context) []Session
}

// Sweepable is implemented by stores that need a periodic expiry scan in
// addition to lookup-triggered eviction.
type Sweepable interface {
	// Sweep evicts entries past their expiry and returns how many were removed.
	Sweep(ctx context.Context) int
}
