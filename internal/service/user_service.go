package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service/auth"
	"github.com/taskhive/taskhive-api/internal/store"
)

// UserService orchestrates registration and login: credential creation,
// credential verification, and user lookup for the authentication gate.
type UserService interface {
	// Register creates a new user with the given credentials.
	// The username is checked before the email: if both are taken, the
	// caller learns about the username first.
	// Returns store.ErrUsernameExists or store.ErrEmailExists on duplicates.
	Register(ctx context.Context, username, email, password string) (*domain.User, error)

	// Authenticate verifies a username/password pair.
	// Returns auth.ErrInvalidCredentials whether the user does not exist,
	// is disabled, or the password does not match; callers cannot tell
	// those cases apart.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// GetByUsername resolves a username to a full user record.
	// Returns store.ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	verifier  auth.PasswordVerifier
	db        *sql.DB
	logger    *slog.Logger

	// runInTx wraps a function in a database transaction. Injectable so
	// tests can run against in-memory stores.
	runInTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// Ensure UserServiceImpl implements UserService interface
var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	db *sql.DB,
	logger *slog.Logger,
) *UserServiceImpl {
	return &UserServiceImpl{
		userStore: userStore,
		hasher:    hasher,
		verifier:  verifier,
		db:        db,
		logger:    logger.With("component", "user_service"),
		runInTx:   store.RunInTransaction,
	}
}

// Register creates a new user with a hashed password inside a single
// transaction. The store's unique constraints close the race between the
// duplicate checks and the insert: two concurrent registrations with the
// same username cannot both succeed.
func (s *UserServiceImpl) Register(
	ctx context.Context,
	username, email, password string,
) (*domain.User, error) {
	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password during registration",
			"error", err,
			"username", username)
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user, err := domain.NewUser(username, email, hashedPassword)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	err = s.runInTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		// Explicit duplicate checks give a deterministic error order
		// (username before email); the unique constraints on the insert
		// remain the real guard against concurrent duplicates.
		if _, err := txStore.GetByUsername(ctx, username); err == nil {
			return store.ErrUsernameExists
		} else if !errors.Is(err, store.ErrUserNotFound) {
			return err
		}

		if _, err := txStore.GetByEmail(ctx, email); err == nil {
			return store.ErrEmailExists
		} else if !errors.Is(err, store.ErrUserNotFound) {
			return err
		}

		return txStore.Create(ctx, user)
	})

	if err != nil {
		if store.IsDuplicateError(err) {
			s.logger.Debug("attempted to register duplicate credentials",
				"username", username)
		} else {
			s.logger.Error("failed to save user to database",
				"error", err,
				"username", username)
		}
		return nil, err
	}

	s.logger.Info("user registered successfully",
		"user_id", user.ID,
		"username", user.Username)

	return user, nil
}

// Authenticate verifies the supplied credentials against the stored hash.
func (s *UserServiceImpl) Authenticate(
	ctx context.Context,
	username, password string,
) (*domain.User, error) {
	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("login attempt for unknown username",
				"username", username)
			return nil, auth.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user during login",
			"error", err,
			"username", username)
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	if !user.Enabled {
		s.logger.Debug("login attempt for disabled account",
			"username", username)
		return nil, auth.ErrInvalidCredentials
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		s.logger.Debug("login attempt with wrong password",
			"username", username)
		return nil, auth.ErrInvalidCredentials
	}

	s.logger.Info("user authenticated successfully",
		"user_id", user.ID,
		"username", user.Username)

	return user, nil
}

// GetByUsername resolves a username to a full user record.
func (s *UserServiceImpl) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.userStore.GetByUsername(ctx, username)
}
