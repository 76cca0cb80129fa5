package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
)

// TaskStore defines the interface for ownership-scoped task persistence.
// Every read, write, and delete is filtered by the owning principal's
// identifier: a task that exists but belongs to a different owner is
// reported exactly as if it did not exist.
type TaskStore interface {
	// Create saves a new task to the store. The task's OwnerID must already
	// be set to the creating principal's identifier.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// ListByOwner returns all tasks belonging to the given owner, in
	// storage order. Returns an empty slice if the owner has no tasks.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error)

	// ListByOwnerAndStatus returns the owner's tasks with the given status,
	// in storage order.
	ListByOwnerAndStatus(ctx context.Context, ownerID uuid.UUID, status domain.TaskStatus) ([]*domain.Task, error)

	// SearchByTitle returns the owner's tasks whose title contains the given
	// fragment, matched case-insensitively, in storage order.
	SearchByTitle(ctx context.Context, ownerID uuid.UUID, title string) ([]*domain.Task, error)

	// GetByID retrieves a task by ID, scoped to the given owner.
	// Returns ErrTaskNotFound if the task does not exist or belongs to a
	// different owner; the two cases are indistinguishable.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// Update overwrites the title, description, due date, and status of an
	// existing task, scoped to the given owner. The owner reference is never
	// altered. Returns ErrTaskNotFound under the same conditions as GetByID.
	Update(ctx context.Context, ownerID uuid.UUID, task *domain.Task) error

	// Delete removes a task by ID, scoped to the given owner.
	// Returns ErrTaskNotFound under the same conditions as GetByID.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
