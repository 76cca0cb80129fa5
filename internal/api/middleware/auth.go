package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/redact"
	"github.com/taskhive/taskhive-api/internal/service"
	"github.com/taskhive/taskhive-api/internal/service/auth"
	"github.com/taskhive/taskhive-api/internal/store"
)

// AuthMiddleware provides JWT authentication for routes. A request passes
// only when it carries a well-formed Bearer token whose signature and
// expiry check out AND whose subject resolves to an existing, enabled
// account. Deleting or disabling an account therefore invalidates its
// outstanding tokens at the gate, even before they expire.
type AuthMiddleware struct {
	tokenService auth.TokenService
	userService  service.UserService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokenService auth.TokenService, userService service.UserService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		userService:  userService,
	}
}

// Authenticate validates JWT tokens from the Authorization header, resolves
// the token subject to a user record, and adds that user to the request
// context as the authenticated principal.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusUnauthorized, tokenErrorMessage(err))
			return
		}

		claims, err := m.tokenService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				slog.Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(
					w,
					r,
					http.StatusInternalServerError,
					"Authentication error",
				)
			}
			return
		}

		user, err := m.userService.GetByUsername(r.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				// A valid signature over a vanished subject still fails:
				// the token outlived its account.
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}
			slog.Error("failed to resolve token subject",
				"error", redact.Error(err),
				"subject", claims.Subject)
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}

		if !user.Enabled {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), shared.PrincipalContextKey, user)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractBearerToken pulls the token out of the Authorization header.
func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", auth.ErrMissingToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", auth.ErrInvalidToken
	}

	return parts[1], nil
}

// tokenErrorMessage maps header extraction failures to client messages.
func tokenErrorMessage(err error) string {
	if errors.Is(err, auth.ErrMissingToken) {
		return "Authorization header required"
	}
	return "Invalid authorization format"
}

// GetPrincipal extracts the authenticated user from the request context.
// Returns the user and a boolean indicating if it was found.
func GetPrincipal(r *http.Request) (*domain.User, bool) {
	user, ok := r.Context().Value(shared.PrincipalContextKey).(*domain.User)
	return user, ok && user != nil
}
