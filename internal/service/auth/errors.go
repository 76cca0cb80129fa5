package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token is malformed or its signature
	// doesn't match. Callers never learn which, to avoid aiding forgery.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidCredentials indicates a login failure. The message is
	// deliberately the same whether the username is unknown or the
	// password is wrong, so account existence is never revealed.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
