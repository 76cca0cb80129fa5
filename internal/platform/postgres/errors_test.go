package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/taskhive/taskhive-api/internal/store"
)

func pgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{
			name:    "nil passes through",
			err:     nil,
			wantErr: nil,
		},
		{
			name:    "no rows maps to not found",
			err:     sql.ErrNoRows,
			wantErr: store.ErrNotFound,
		},
		{
			name:    "username unique violation",
			err:     pgError(uniqueViolationCode, "users_username_key"),
			wantErr: store.ErrUsernameExists,
		},
		{
			name:    "email unique violation",
			err:     pgError(uniqueViolationCode, "users_email_key"),
			wantErr: store.ErrEmailExists,
		},
		{
			name:    "other unique violation maps to generic duplicate",
			err:     pgError(uniqueViolationCode, "some_other_key"),
			wantErr: store.ErrDuplicate,
		},
		{
			name:    "foreign key violation maps to invalid entity",
			err:     pgError(foreignKeyViolationCode, "tasks_owner_id_fkey"),
			wantErr: store.ErrInvalidEntity,
		},
		{
			name:    "check violation maps to invalid entity",
			err:     pgError(checkViolationCode, "tasks_status_check"),
			wantErr: store.ErrInvalidEntity,
		},
		{
			name:    "wrapped pg error still maps",
			err:     fmt.Errorf("exec failed: %w", pgError(uniqueViolationCode, "users_username_key")),
			wantErr: store.ErrUsernameExists,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := MapError(tt.err)
			if tt.wantErr == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.wantErr)
		})
	}

	t.Run("unknown error passes through unchanged", func(t *testing.T) {
		t.Parallel()
		err := errors.New("context deadline exceeded")
		assert.Equal(t, err, MapError(err))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(pgError(uniqueViolationCode, "users_username_key")))
	assert.False(t, IsUniqueViolation(pgError(foreignKeyViolationCode, "tasks_owner_id_fkey")))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}

// fakeResult implements sql.Result for CheckRowsAffected tests.
type fakeResult struct {
	rows    int64
	rowsErr error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.rowsErr }

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	t.Run("rows affected passes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, store.ErrTaskNotFound))
	})

	t.Run("zero rows yields the given not found error", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(fakeResult{rows: 0}, store.ErrTaskNotFound)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("zero rows with nil sentinel falls back to generic not found", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(fakeResult{rows: 0}, nil)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("rows affected error propagates", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(fakeResult{rowsErr: errors.New("driver error")}, nil)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("nil result is an error", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, CheckRowsAffected(nil, nil))
	})
}
