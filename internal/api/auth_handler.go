package api

import (
	"log/slog"
	"net/http"

	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service"
	"github.com/taskhive/taskhive-api/internal/service/auth"
)

// AuthHandler handles registration and login requests.
type AuthHandler struct {
	userService  service.UserService
	tokenService auth.TokenService
	logger       *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userService service.UserService,
	tokenService auth.TokenService,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
		logger:       logger.With("component", "auth_handler"),
	}
}

// Register handles POST /api/auth/register.
// A successful registration responds 201 with a token, so a new account is
// signed in immediately.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		if fieldErrors := ValidationErrorMap(err); fieldErrors != nil {
			shared.RespondWithValidationErrors(w, r, fieldErrors)
			return
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request data")
		return
	}

	user, err := h.userService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, user)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		if fieldErrors := ValidationErrorMap(err); fieldErrors != nil {
			shared.RespondWithValidationErrors(w, r, fieldErrors)
			return
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request data")
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.respondWithToken(w, r, http.StatusOK, user)
}

// respondWithToken issues a token for the given user and writes the
// authentication response.
func (h *AuthHandler) respondWithToken(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	user *domain.User,
) {
	token, err := h.tokenService.GenerateToken(r.Context(), user)
	if err != nil {
		h.logger.Error("failed to generate token",
			"error", err,
			"user_id", user.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, status, AuthResponse{
		Token:    token,
		Username: user.Username,
		Email:    user.Email,
	})
}
