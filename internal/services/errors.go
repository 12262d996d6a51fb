package services

import "fmt"

// Error is a domain error with a stable code surfaced in handler summaries.
type Error struct {
	code string
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Code returns the stable machine-readable error code.
func (e *Error) Code() string { return e.code }

var (
	// ErrUnverified rejects generation attempts by non-verified users.
	ErrUnverified = &Error{code: "UNVERIFIED", msg: "user is not verified"}
	// ErrOtpExpired rejects codes submitted after the challenge window closed,
	// and submissions with no active challenge at all.
	ErrOtpExpired = &Error{code: "OTP_EXPIRED", msg: "otp challenge expired"}
	// ErrOtpMismatch rejects wrong codes while attempts remain.
	ErrOtpMismatch = &Error{code: "OTP_MISMATCH", msg: "otp code mismatch"}
	// ErrOtpAttemptsExceeded invalidates the challenge after too many wrong codes.
	ErrOtpAttemptsExceeded = &Error{code: "OTP_ATTEMPTS_EXCEEDED", msg: "otp attempt limit reached"}
	// ErrInvalidDimensions rejects width/height pairs outside the supported set.
	ErrInvalidDimensions = &Error{code: "INVALID_DIMENSIONS", msg: "unsupported dimension pair"}
)

// ProviderError wraps any failure while talking to the image generation
// provider: network errors, timeouts, quota and non-200 responses alike.
// It is surfaced to the user as a generic failure with manual-retry guidance.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("image provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Code implements the coded-error surface used by router log summaries.
func (e *ProviderError) Code() string { return "PROVIDER_ERROR" }
