package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database. Every query carries an owner_id predicate,
// so a task belonging to another owner is reported exactly like a task
// that does not exist.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// store.TaskStore interface.
func NewPostgresTaskStore(db store.DBTX, log *slog.Logger) *PostgresTaskStore {
	if log == nil {
		log = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: log.With("component", "task_store"),
	}
}

// WithTx returns a new store instance bound to the given transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// taskColumns is the column list shared by every task SELECT, in scan order.
const taskColumns = "id, owner_id, title, description, due_date, status, created_at, updated_at"

// Create saves a new task to the database.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (id, owner_id, title, description, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		task.DueDate,
		string(task.Status),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert task",
			"error", err,
			"task_id", task.ID,
			"owner_id", task.OwnerID)
		return fmt.Errorf("failed to create task: %w", MapError(err))
	}

	return nil
}

// ListByOwner returns all tasks belonging to the given owner.
func (s *PostgresTaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE owner_id = $1
		ORDER BY created_at, id
	`, taskColumns)

	return s.queryTasks(ctx, query, ownerID)
}

// ListByOwnerAndStatus returns the owner's tasks with the given status.
func (s *PostgresTaskStore) ListByOwnerAndStatus(
	ctx context.Context,
	ownerID uuid.UUID,
	status domain.TaskStatus,
) ([]*domain.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE owner_id = $1 AND status = $2
		ORDER BY created_at, id
	`, taskColumns)

	return s.queryTasks(ctx, query, ownerID, string(status))
}

// SearchByTitle returns the owner's tasks whose title contains the given
// fragment, matched case-insensitively. The fragment is escaped so that
// user input cannot smuggle LIKE wildcards into the pattern.
func (s *PostgresTaskStore) SearchByTitle(
	ctx context.Context,
	ownerID uuid.UUID,
	title string,
) ([]*domain.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE owner_id = $1 AND title ILIKE '%%' || $2 || '%%' ESCAPE '\'
		ORDER BY created_at, id
	`, taskColumns)

	return s.queryTasks(ctx, query, ownerID, escapeLikePattern(title))
}

// GetByID retrieves a task by ID, scoped to the given owner.
func (s *PostgresTaskStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE owner_id = $1 AND id = $2
	`, taskColumns)

	var task domain.Task
	err := scanTask(s.db.QueryRowContext(ctx, query, ownerID, id), &task)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		s.logger.Error("failed to query task",
			"error", err,
			"task_id", id,
			"owner_id", ownerID)
		return nil, fmt.Errorf("failed to get task: %w", MapError(err))
	}

	return &task, nil
}

// Update overwrites the mutable fields of an existing task, scoped to the
// given owner. The owner_id column is only ever used as a predicate, never
// as an assignment, so ownership cannot change through this path.
func (s *PostgresTaskStore) Update(ctx context.Context, ownerID uuid.UUID, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, due_date = $3, status = $4, updated_at = $5
		WHERE owner_id = $6 AND id = $7
	`

	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.DueDate,
		string(task.Status),
		task.UpdatedAt,
		ownerID,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task",
			"error", err,
			"task_id", task.ID,
			"owner_id", ownerID)
		return fmt.Errorf("failed to update task: %w", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Delete removes a task by ID, scoped to the given owner.
func (s *PostgresTaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM tasks
		WHERE owner_id = $1 AND id = $2
	`

	result, err := s.db.ExecContext(ctx, query, ownerID, id)
	if err != nil {
		log.Error("failed to delete task",
			"error", err,
			"task_id", id,
			"owner_id", ownerID)
		return fmt.Errorf("failed to delete task: %w", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// queryTasks runs a multi-row task query and scans the results.
func (s *PostgresTaskStore) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("failed to query tasks", "error", err)
		return nil, fmt.Errorf("failed to list tasks: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		var task domain.Task
		if err := scanTask(rows, &task); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task rows: %w", err)
	}

	return tasks, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row into the given struct.
func scanTask(row rowScanner, task *domain.Task) error {
	var status string
	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&status,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return err
	}
	task.Status = domain.TaskStatus(status)
	return nil
}

// escapeLikePattern escapes LIKE metacharacters in a user-supplied search
// fragment so it matches literally.
func escapeLikePattern(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '%', '_':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
