package service

import "errors"

var (
	// ErrInvalidDataProvided is returned when request input fails local
	// validation: empty name or description, malformed email, empty password.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrAuthenticationFailed is returned for both "no such email" and
	// "wrong password". The two cases are deliberately folded so responses
	// never reveal whether an account exists.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrTokenIsExpiredOrInvalid is returned when a presented token fails
	// the stateless check: bad signature, malformed structure, wrong issuer
	// or expiry in the past.
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	// ErrSessionRevoked is returned when a token passes signature and expiry
	// checks but its session id is no longer in the user's active set —
	// the session was logged out or the account deleted.
	ErrSessionRevoked = errors.New("session is revoked")

	// ErrTokenCreationFailed is returned when signing a fresh token fails.
	ErrTokenCreationFailed = errors.New("token creation failed")
)
