package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/store"
)

// fakeTaskStore is an in-memory store.TaskStore that enforces ownership
// scoping the same way the SQL implementation does.
type fakeTaskStore struct {
	tasks []*domain.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{}
}

func (s *fakeTaskStore) Create(ctx context.Context, task *domain.Task) error {
	copied := *task
	s.tasks = append(s.tasks, &copied)
	return nil
}

func (s *fakeTaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	result := make([]*domain.Task, 0)
	for _, task := range s.tasks {
		if task.OwnerID == ownerID {
			copied := *task
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *fakeTaskStore) ListByOwnerAndStatus(
	ctx context.Context,
	ownerID uuid.UUID,
	status domain.TaskStatus,
) ([]*domain.Task, error) {
	result := make([]*domain.Task, 0)
	for _, task := range s.tasks {
		if task.OwnerID == ownerID && task.Status == status {
			copied := *task
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *fakeTaskStore) SearchByTitle(
	ctx context.Context,
	ownerID uuid.UUID,
	title string,
) ([]*domain.Task, error) {
	result := make([]*domain.Task, 0)
	for _, task := range s.tasks {
		if task.OwnerID == ownerID &&
			strings.Contains(strings.ToLower(task.Title), strings.ToLower(title)) {
			copied := *task
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *fakeTaskStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	for _, task := range s.tasks {
		if task.ID == id && task.OwnerID == ownerID {
			copied := *task
			return &copied, nil
		}
	}
	return nil, store.ErrTaskNotFound
}

func (s *fakeTaskStore) Update(ctx context.Context, ownerID uuid.UUID, task *domain.Task) error {
	for i, existing := range s.tasks {
		if existing.ID == task.ID && existing.OwnerID == ownerID {
			copied := *task
			s.tasks[i] = &copied
			return nil
		}
	}
	return store.ErrTaskNotFound
}

func (s *fakeTaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	for i, existing := range s.tasks {
		if existing.ID == id && existing.OwnerID == ownerID {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return store.ErrTaskNotFound
}

func (s *fakeTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return s
}

func validTaskInput() TaskInput {
	return TaskInput{
		Title:       "Write report",
		Description: "Quarterly report",
		DueDate:     domain.NewDate(2026, time.September, 30),
		Status:      "TO_DO",
	}
}

func TestTaskServiceCreate(t *testing.T) {
	t.Parallel()

	t.Run("creates task owned by the principal", func(t *testing.T) {
		t.Parallel()
		svc := NewTaskService(newFakeTaskStore(), discardLogger())
		ownerID := uuid.New()

		task, err := svc.Create(context.Background(), ownerID, validTaskInput())
		require.NoError(t, err)

		assert.Equal(t, ownerID, task.OwnerID)
		assert.Equal(t, "Write report", task.Title)
		assert.Equal(t, domain.TaskStatusToDo, task.Status)
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		t.Parallel()
		taskStore := newFakeTaskStore()
		svc := NewTaskService(taskStore, discardLogger())

		input := validTaskInput()
		input.Status = "NOT_A_STATUS"

		_, err := svc.Create(context.Background(), uuid.New(), input)
		assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)
		assert.Empty(t, taskStore.tasks)
	})

	t.Run("rejects invalid task data", func(t *testing.T) {
		t.Parallel()
		svc := NewTaskService(newFakeTaskStore(), discardLogger())

		input := validTaskInput()
		input.Title = ""

		_, err := svc.Create(context.Background(), uuid.New(), input)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestTaskServiceOwnershipScoping(t *testing.T) {
	t.Parallel()

	taskStore := newFakeTaskStore()
	svc := NewTaskService(taskStore, discardLogger())
	alice := uuid.New()
	bob := uuid.New()

	aliceTask, err := svc.Create(context.Background(), alice, validTaskInput())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), bob, validTaskInput())
	require.NoError(t, err)

	t.Run("list returns only own tasks", func(t *testing.T) {
		tasks, err := svc.List(context.Background(), alice)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, aliceTask.ID, tasks[0].ID)
	})

	t.Run("get by ID for another owner is not found", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), bob, aliceTask.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("other-owner and nonexistent task yield the same error", func(t *testing.T) {
		_, otherOwnerErr := svc.GetByID(context.Background(), bob, aliceTask.ID)
		_, missingErr := svc.GetByID(context.Background(), bob, uuid.New())
		assert.Equal(t, missingErr, otherOwnerErr)
	})

	t.Run("update for another owner is not found", func(t *testing.T) {
		_, err := svc.Update(context.Background(), bob, aliceTask.ID, validTaskInput())
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("delete for another owner is not found and leaves task intact", func(t *testing.T) {
		err := svc.Delete(context.Background(), bob, aliceTask.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		_, err = svc.GetByID(context.Background(), alice, aliceTask.ID)
		assert.NoError(t, err)
	})
}

func TestTaskServiceUpdate(t *testing.T) {
	t.Parallel()

	t.Run("overwrites mutable fields and refreshes updated at", func(t *testing.T) {
		t.Parallel()
		svc := NewTaskService(newFakeTaskStore(), discardLogger())
		ownerID := uuid.New()

		task, err := svc.Create(context.Background(), ownerID, validTaskInput())
		require.NoError(t, err)

		updated, err := svc.Update(context.Background(), ownerID, task.ID, TaskInput{
			Title:       "Submit report",
			Description: "",
			DueDate:     domain.NewDate(2026, time.October, 15),
			Status:      "IN_PROGRESS",
		})
		require.NoError(t, err)

		assert.Equal(t, "Submit report", updated.Title)
		assert.Empty(t, updated.Description)
		assert.Equal(t, domain.TaskStatusInProgress, updated.Status)
		assert.Equal(t, ownerID, updated.OwnerID)
		assert.False(t, updated.UpdatedAt.Before(task.UpdatedAt))
	})

	t.Run("allows any status transition", func(t *testing.T) {
		t.Parallel()
		svc := NewTaskService(newFakeTaskStore(), discardLogger())
		ownerID := uuid.New()

		input := validTaskInput()
		input.Status = "DONE"
		task, err := svc.Create(context.Background(), ownerID, input)
		require.NoError(t, err)

		// A finished task may be reopened.
		input.Status = "TO_DO"
		updated, err := svc.Update(context.Background(), ownerID, task.ID, input)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusToDo, updated.Status)
	})

	t.Run("invalid status fails before any change", func(t *testing.T) {
		t.Parallel()
		svc := NewTaskService(newFakeTaskStore(), discardLogger())
		ownerID := uuid.New()

		task, err := svc.Create(context.Background(), ownerID, validTaskInput())
		require.NoError(t, err)

		input := validTaskInput()
		input.Title = "Changed"
		input.Status = "INVALID"

		_, err = svc.Update(context.Background(), ownerID, task.ID, input)
		assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)

		unchanged, err := svc.GetByID(context.Background(), ownerID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Write report", unchanged.Title)
	})
}

func TestTaskServiceListByStatus(t *testing.T) {
	t.Parallel()

	svc := NewTaskService(newFakeTaskStore(), discardLogger())
	ownerID := uuid.New()

	todo := validTaskInput()
	done := validTaskInput()
	done.Status = "DONE"

	_, err := svc.Create(context.Background(), ownerID, todo)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), ownerID, done)
	require.NoError(t, err)

	t.Run("filters by status", func(t *testing.T) {
		tasks, err := svc.ListByStatus(context.Background(), ownerID, "DONE")
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, domain.TaskStatusDone, tasks[0].Status)
	})

	t.Run("no matches yields empty slice", func(t *testing.T) {
		tasks, err := svc.ListByStatus(context.Background(), ownerID, "IN_PROGRESS")
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		_, err := svc.ListByStatus(context.Background(), ownerID, "FINISHED")
		assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)
	})
}

func TestTaskServiceSearchByTitle(t *testing.T) {
	t.Parallel()

	svc := NewTaskService(newFakeTaskStore(), discardLogger())
	ownerID := uuid.New()

	input := validTaskInput()
	input.Title = "Write quarterly report"
	_, err := svc.Create(context.Background(), ownerID, input)
	require.NoError(t, err)

	t.Run("matches case-insensitively", func(t *testing.T) {
		tasks, err := svc.SearchByTitle(context.Background(), ownerID, "QUARTERLY")
		require.NoError(t, err)
		assert.Len(t, tasks, 1)
	})

	t.Run("no match yields empty slice", func(t *testing.T) {
		tasks, err := svc.SearchByTitle(context.Background(), ownerID, "budget")
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})
}
