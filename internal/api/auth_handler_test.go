package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service/auth"
	"github.com/taskhive/taskhive-api/internal/store"
)

// fakeUserService is a canned-response service.UserService for handler tests.
type fakeUserService struct {
	registerUser *domain.User
	registerErr  error
	authUser     *domain.User
	authErr      error
	getUser      *domain.User
	getErr       error
}

func (s *fakeUserService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return s.registerUser, nil
}

func (s *fakeUserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if s.authErr != nil {
		return nil, s.authErr
	}
	return s.authUser, nil
}

func (s *fakeUserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.getUser, nil
}

// fakeTokenService issues a fixed token string.
type fakeTokenService struct {
	token       string
	generateErr error
	claims      *auth.Claims
	validateErr error
}

func (s *fakeTokenService) GenerateToken(ctx context.Context, user *domain.User) (string, error) {
	if s.generateErr != nil {
		return "", s.generateErr
	}
	return s.token, nil
}

func (s *fakeTokenService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return s.claims, nil
}

func (s *fakeTokenService) ValidateTokenForUser(ctx context.Context, tokenString string, user *domain.User) bool {
	return s.validateErr == nil && s.claims != nil && s.claims.Subject == user.Username
}

func (s *fakeTokenService) DecodeClaims(tokenString string) (*auth.Claims, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return s.claims, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustUser(t *testing.T, username, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(username, email, "hashed")
	require.NoError(t, err)
	return user
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestAuthHandlerRegister(t *testing.T) {
	t.Parallel()

	alice := mustUser(t, "alice", "alice@example.com")

	t.Run("successful registration returns 201 with token", func(t *testing.T) {
		t.Parallel()
		handler := NewAuthHandler(
			&fakeUserService{registerUser: alice},
			&fakeTokenService{token: "issued-token"},
			testLogger(),
		)

		rr := postJSON(t, handler.Register, "/api/auth/register",
			`{"username":"alice","email":"alice@example.com","password":"secret123"}`)

		require.Equal(t, http.StatusCreated, rr.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "issued-token", resp.Token)
		assert.Equal(t, "alice", resp.Username)
		assert.Equal(t, "alice@example.com", resp.Email)
	})

	t.Run("short password yields per-field validation map", func(t *testing.T) {
		t.Parallel()
		handler := NewAuthHandler(&fakeUserService{}, &fakeTokenService{}, testLogger())

		rr := postJSON(t, handler.Register, "/api/auth/register",
			`{"username":"alice","email":"alice@example.com","password":"short"}`)

		require.Equal(t, http.StatusBadRequest, rr.Code)

		var fields map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fields))
		assert.Equal(t, "Password must be at least 6 characters", fields["password"])
	})

	t.Run("multiple invalid fields all reported", func(t *testing.T) {
		t.Parallel()
		handler := NewAuthHandler(&fakeUserService{}, &fakeTokenService{}, testLogger())

		rr := postJSON(t, handler.Register, "/api/auth/register",
			`{"username":"","email":"not-an-email","password":""}`)

		require.Equal(t, http.StatusBadRequest, rr.Code)

		var fields map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fields))
		assert.Contains(t, fields, "username")
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "password")
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		t.Parallel()
		handler := NewAuthHandler(&fakeUserService{}, &fakeTokenService{}, testLogger())

		rr := postJSON(t, handler.Register, "/api/auth/register", `{"username":`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("duplicate username returns 409", func(t *testing.T) {
		t.Parallel()
		handler := NewAuthHandler(
			&fakeUserService{registerErr: store.ErrUsernameExists},
			&fakeTokenService{},
			testLogger(),
		)

		rr := postJSON(t, handler.Register, "/api/auth/register",
			`{"username":"alice","email":"alice@example.com","password":"secret123"}`)

		require.Equal(t, http.StatusConflict, rr.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Username already exists", resp["error"])
	})

	t.Run("duplicate email returns 409", func(t *testing.T) {
		t.Parallel()
		handler := NewAuthHandler(
			&fakeUserService{registerErr: store.ErrEmailExists},
			&fakeTokenService{},
			testLogger(),
		)

		rr := postJSON(t, handler.Register, "/api/auth/register",
			`{"username":"alice","email":"alice@example.com","password":"secret123"}`)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("token generation failure returns 500", func(t *testing.T) {
		t.Parallel()
		handler := NewAuthHandler(
			&fakeUserService{registerUser: alice},
			&fakeTokenService{generateErr: assert.AnError},
			testLogger(),
		)

		rr := postJSON(t, handler.Register, "/api/auth/register",
			`{"username":"alice","email":"alice@example.com","password":"secret123"}`)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Parallel()

	alice := mustUser(t, "alice", "alice@example.com")

	t.Run("successful login returns 200 with token", func(t *testing.T) {
		t.Parallel()
		handler := NewAuthHandler(
			&fakeUserService{authUser: alice},
			&fakeTokenService{token: "issued-token"},
			testLogger(),
		)

		rr := postJSON(t, handler.Login, "/api/auth/login",
			`{"username":"alice","password":"secret123"}`)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "issued-token", resp.Token)
		assert.Equal(t, "alice", resp.Username)
	})

	t.Run("invalid credentials return 401 with uniform message", func(t *testing.T) {
		t.Parallel()
		handler := NewAuthHandler(
			&fakeUserService{authErr: auth.ErrInvalidCredentials},
			&fakeTokenService{},
			testLogger(),
		)

		rr := postJSON(t, handler.Login, "/api/auth/login",
			`{"username":"alice","password":"wrong"}`)

		require.Equal(t, http.StatusUnauthorized, rr.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Invalid username or password", resp["error"])
	})

	t.Run("missing fields yield validation map", func(t *testing.T) {
		t.Parallel()
		handler := NewAuthHandler(&fakeUserService{}, &fakeTokenService{}, testLogger())

		rr := postJSON(t, handler.Login, "/api/auth/login", `{}`)

		require.Equal(t, http.StatusBadRequest, rr.Code)

		var fields map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fields))
		assert.Equal(t, "Username is required", fields["username"])
		assert.Equal(t, "Password is required", fields["password"])
	})
}
