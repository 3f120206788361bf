package models

import (
	"time"
)

// Account roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account statuses
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusBanned    = "banned"
)

// PasswordHistoryDepth is how many previous password hashes are retained
// and consulted to block reuse.
const PasswordHistoryDepth = 3

// PasswordHistoryEntry is a retained hash of a previously used password.
type PasswordHistoryEntry struct {
	Hash      string    `json:"hash"`
	ChangedAt time.Time `json:"changed_at"`
}

type Account struct {
	ID           string
	Email        string // always stored lowercase
	Name         string
	PasswordHash string // never exposed in read DTOs
	Role         string // "user", "admin"
	IsVerified   bool
	Status       string // "active", "suspended", "banned"

	// Ephemeral OTP challenge state; cleared on successful verification
	// or successful reset.
	OTPHash     string
	OTPExpires  *time.Time
	OTPAttempts int

	// Login lockout state
	FailedLoginAttempts int
	AccountLockedUntil  *time.Time

	// Most-recent-first, capped at PasswordHistoryDepth
	PasswordHistory []PasswordHistoryEntry

	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLocked reports whether the lockout window is still open.
func (a *Account) IsLocked(now time.Time) bool {
	return a.AccountLockedUntil != nil && now.Before(*a.AccountLockedUntil)
}

// HasOTP reports whether an OTP challenge is currently stored.
func (a *Account) HasOTP() bool {
	return a.OTPHash != "" && a.OTPExpires != nil
}

// ClearOTP removes the OTP challenge state and resets the attempt counter.
func (a *Account) ClearOTP() {
	a.OTPHash = ""
	a.OTPExpires = nil
	a.OTPAttempts = 0
}

// PushPasswordHistory records the hash in effect at set time, keeping only
// the most recent entries. The history therefore includes the current
// password, so a retained password falls out once enough newer ones exist.
func (a *Account) PushPasswordHistory(now time.Time) {
	if a.PasswordHash == "" {
		return
	}
	a.PasswordHistory = append([]PasswordHistoryEntry{{
		Hash:      a.PasswordHash,
		ChangedAt: now,
	}}, a.PasswordHistory...)
	if len(a.PasswordHistory) > PasswordHistoryDepth {
		a.PasswordHistory = a.PasswordHistory[:PasswordHistoryDepth]
	}
}
