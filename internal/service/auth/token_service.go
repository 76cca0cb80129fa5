package auth

import (
	"context"
	"time"

	"github.com/taskhive/taskhive-api/internal/domain"
)

// TokenService defines operations for issuing and validating the compact
// signed access tokens that prove recent successful authentication.
// Implementations hold no per-request mutable state: validation is a pure
// function of the token, the current time, and the immutable process secret,
// so a single instance is safe for concurrent use without locking.
type TokenService interface {
	// GenerateToken creates a signed token whose subject is the user's
	// username, issued at the current instant and expiring after the
	// configured lifetime. Two tokens issued for the same user at different
	// instants differ, and both remain valid until their own expiry.
	GenerateToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateToken validates the provided token string and extracts the
	// claims. It never panics or propagates parser internals: the result is
	// always a definite claims value or one of ErrInvalidToken (malformed or
	// badly signed) and ErrExpiredToken. A token is already invalid at its
	// exact expiry instant.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// ValidateTokenForUser reports whether the token is valid AND was issued
	// for the given user (decoded subject equals the user's username).
	ValidateTokenForUser(ctx context.Context, tokenString string, user *domain.User) bool

	// DecodeClaims decodes a token's claims without checking the time-based
	// claims. The signature is still verified. This is used internally to
	// project individual claims out of tokens already known to be
	// structurally valid; it is not a security boundary by itself.
	DecodeClaims(tokenString string) (*Claims, error)
}

// Claims represents the decoded contents of an access token.
type Claims struct {
	// Subject is the username of the user the token was issued for.
	Subject string `json:"sub,omitempty"`

	// IssuedAt is the instant the token was created.
	IssuedAt time.Time `json:"iat,omitempty"`

	// ExpiresAt is the instant at and after which the token is invalid.
	ExpiresAt time.Time `json:"exp,omitempty"`
}

// ExtractClaim decodes a token via the given service and projects a single
// claim out of it using the provided projector function.
func ExtractClaim[T any](svc TokenService, tokenString string, project func(*Claims) T) (T, error) {
	var zero T
	claims, err := svc.DecodeClaims(tokenString)
	if err != nil {
		return zero, err
	}
	return project(claims), nil
}

// ExtractSubject decodes a token and returns its subject claim.
func ExtractSubject(svc TokenService, tokenString string) (string, error) {
	return ExtractClaim(svc, tokenString, func(c *Claims) string { return c.Subject })
}
