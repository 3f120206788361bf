package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrAlreadyExists  = errors.New("resource already exists")
	ErrBadRequest     = errors.New("bad request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInternalServer = errors.New("internal server error")

	// Credential and OTP errors
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrOTPExpired         = errors.New("otp expired")
	ErrTooManyAttempts    = errors.New("too many failed attempts")
	ErrNoActiveRequest    = errors.New("no active otp request")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrSamePassword       = errors.New("new password matches current password")
	ErrPasswordReused     = errors.New("password was used recently")
	ErrEmailInUse         = errors.New("email already in use")

	// Account state errors
	ErrAccountLocked        = errors.New("account is temporarily locked")
	ErrVerificationRequired = errors.New("email address not verified")

	// Token/session layer errors
	ErrInvalidSession = errors.New("invalid session")
)
