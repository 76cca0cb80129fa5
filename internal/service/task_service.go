package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/store"
)

// TaskInput carries the caller-supplied fields for creating or updating a
// task. The owner is never part of the input: it always comes from the
// authenticated principal.
type TaskInput struct {
	Title       string
	Description string
	DueDate     domain.Date
	Status      string
}

// TaskService provides ownership-scoped task operations. Every operation
// takes the calling principal's identifier and only ever observes or
// mutates tasks belonging to that principal.
type TaskService interface {
	// Create persists a new task owned by the given principal. The owner
	// reference is assigned unconditionally from ownerID.
	Create(ctx context.Context, ownerID uuid.UUID, input TaskInput) (*domain.Task, error)

	// List returns all of the principal's tasks in storage order.
	List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error)

	// ListByStatus returns the principal's tasks with the given status.
	// Returns domain.ErrInvalidTaskStatus if the status string does not
	// match one of the enumeration values.
	ListByStatus(ctx context.Context, ownerID uuid.UUID, status string) ([]*domain.Task, error)

	// SearchByTitle returns the principal's tasks whose title contains the
	// given fragment, matched case-insensitively.
	SearchByTitle(ctx context.Context, ownerID uuid.UUID, title string) ([]*domain.Task, error)

	// GetByID returns the principal's task with the given ID.
	// Returns store.ErrTaskNotFound if the task does not exist or belongs
	// to another principal.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// Update overwrites the task's title, description, due date, and status.
	// The whole operation fails on an invalid status; the owner reference is
	// never altered. Returns store.ErrTaskNotFound as GetByID does.
	Update(ctx context.Context, ownerID, id uuid.UUID, input TaskInput) (*domain.Task, error)

	// Delete removes the principal's task with the given ID.
	// Returns store.ErrTaskNotFound as GetByID does.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// Ensure TaskServiceImpl implements TaskService interface
var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) *TaskServiceImpl {
	return &TaskServiceImpl{
		taskStore: taskStore,
		logger:    logger.With("component", "task_service"),
	}
}

// Create persists a new task owned by the given principal.
func (s *TaskServiceImpl) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	input TaskInput,
) (*domain.Task, error) {
	status, err := domain.ParseTaskStatus(input.Status)
	if err != nil {
		return nil, err
	}

	task, err := domain.NewTask(ownerID, input.Title, input.Description, input.DueDate, status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"owner_id", ownerID)
		return nil, err
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"owner_id", ownerID,
		"status", string(task.Status))

	return task, nil
}

// List returns all of the principal's tasks.
func (s *TaskServiceImpl) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	return s.taskStore.ListByOwner(ctx, ownerID)
}

// ListByStatus returns the principal's tasks with the given status.
func (s *TaskServiceImpl) ListByStatus(
	ctx context.Context,
	ownerID uuid.UUID,
	status string,
) ([]*domain.Task, error) {
	parsed, err := domain.ParseTaskStatus(status)
	if err != nil {
		return nil, err
	}
	return s.taskStore.ListByOwnerAndStatus(ctx, ownerID, parsed)
}

// SearchByTitle returns the principal's tasks matching the title fragment.
func (s *TaskServiceImpl) SearchByTitle(
	ctx context.Context,
	ownerID uuid.UUID,
	title string,
) ([]*domain.Task, error) {
	return s.taskStore.SearchByTitle(ctx, ownerID, title)
}

// GetByID returns the principal's task with the given ID.
func (s *TaskServiceImpl) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	return s.taskStore.GetByID(ctx, ownerID, id)
}

// Update overwrites the mutable fields of an existing task.
// Statuses form a flat enumeration: any status may replace any other, so a
// DONE task may freely return to TO_DO.
func (s *TaskServiceImpl) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	input TaskInput,
) (*domain.Task, error) {
	status, err := domain.ParseTaskStatus(input.Status)
	if err != nil {
		return nil, err
	}

	task, err := s.taskStore.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Description = input.Description
	task.DueDate = input.DueDate
	task.Status = status
	task.UpdatedAt = time.Now().UTC()

	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.taskStore.Update(ctx, ownerID, task); err != nil {
		s.logger.Error("failed to update task",
			"error", err,
			"task_id", id,
			"owner_id", ownerID)
		return nil, err
	}

	s.logger.Info("task updated",
		"task_id", task.ID,
		"owner_id", ownerID,
		"status", string(task.Status))

	return task, nil
}

// Delete removes the principal's task with the given ID.
func (s *TaskServiceImpl) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.taskStore.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	s.logger.Info("task deleted",
		"task_id", id,
		"owner_id", ownerID)

	return nil
}
