package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common task validation errors
var (
	ErrEmptyTaskID            = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle         = errors.New("task title cannot be empty")
	ErrTaskDescriptionTooLong = errors.New("task description cannot exceed 500 characters")
	ErrEmptyTaskDueDate       = errors.New("task due date is required")
	ErrEmptyTaskOwner         = errors.New("task owner cannot be empty")
)

// maxDescriptionLength bounds the optional task description.
const maxDescriptionLength = 500

// TaskStatus represents the state of a task. The enumeration is flat:
// any status may be set to any other status by the owner at any time,
// with no enforced transition order.
type TaskStatus string

const (
	// TaskStatusToDo indicates a task that has not been started.
	TaskStatusToDo TaskStatus = "TO_DO"

	// TaskStatusInProgress indicates a task that is being worked on.
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"

	// TaskStatusDone indicates a completed task.
	TaskStatusDone TaskStatus = "DONE"
)

// ParseTaskStatus converts a string into a TaskStatus.
// Returns ErrInvalidTaskStatus if the string does not match one of the
// fixed enumeration values exactly.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusDone:
		return TaskStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTaskStatus, s)
	}
}

// IsValid reports whether the status is one of the enumeration values.
func (s TaskStatus) IsValid() bool {
	_, err := ParseTaskStatus(string(s))
	return err == nil
}

// Task represents a tracked unit of work belonging to exactly one owner.
// OwnerID is set once at creation to the creating principal's identifier
// and is never reassigned.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     Date       `json:"due_date"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a new Task owned by the given principal.
// It generates a new UUID for the task ID and sets the timestamps.
// Returns an error if validation fails.
func NewTask(ownerID uuid.UUID, title, description string, dueDate Date, status TaskStatus) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.OwnerID == uuid.Nil {
		return ErrEmptyTaskOwner
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if len(t.Description) > maxDescriptionLength {
		return ErrTaskDescriptionTooLong
	}

	if t.DueDate.IsZero() {
		return ErrEmptyTaskDueDate
	}

	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTaskStatus, t.Status)
	}

	return nil
}
