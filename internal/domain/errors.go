package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// Sign-up and verification flow failures. All are user-correctable;
// ErrMailSendFailed is the only one that triggers a compensating rollback.
var (
	ErrDomainNotAllowed      = errors.New("email domain not allowed")
	ErrMailSendFailed        = errors.New("verification email could not be sent")
	ErrNoPendingVerification = errors.New("no pending verification")
	ErrInvalidOrExpiredCode  = errors.New("invalid or expired verification code")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrNotVerified           = errors.New("email not verified")
)
