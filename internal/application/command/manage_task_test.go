package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/task"
)

func newToggleFixture(t *testing.T) (*ToggleTaskHandler, *fakeTaskRepo, *fakeProgressRepo, task.ID) {
	t.Helper()

	userRepo := newFakeUserRepo()
	progressRepo := newFakeProgressRepo()
	taskRepo := newFakeTaskRepo()
	seedUser(userRepo, "u1", true)

	activity := NewRecordActivityHandler(userRepo, progressRepo, nil, nil)
	handler := NewToggleTaskHandler(taskRepo, activity, nil)

	tk, err := task.NewTask(task.NewTaskParams{ID: "t1", UserID: "u1", Title: "Read chapter 1"})
	require.NoError(t, err)
	require.NoError(t, taskRepo.Create(context.Background(), tk))

	return handler, taskRepo, progressRepo, tk.ID
}

func todayCount(t *testing.T, progressRepo *fakeProgressRepo) int {
	t.Helper()
	row, err := progressRepo.FindByDate(context.Background(), "u1", time.Now().UTC())
	if err != nil {
		return 0
	}
	return row.TasksCompleted
}

func TestToggleTask_CompleteCountsOnce(t *testing.T) {
	handler, _, progressRepo, taskID := newToggleFixture(t)
	ctx := context.Background()

	tk, err := handler.Handle(ctx, "u1", taskID)
	require.NoError(t, err)
	assert.True(t, tk.Completed)
	assert.Equal(t, 1, todayCount(t, progressRepo))
}

func TestToggleTask_ReopenDoesNotDecrement(t *testing.T) {
	handler, _, progressRepo, taskID := newToggleFixture(t)
	ctx := context.Background()

	_, err := handler.Handle(ctx, "u1", taskID)
	require.NoError(t, err)
	require.Equal(t, 1, todayCount(t, progressRepo))

	// Un-completing leaves the recorded count alone.
	tk, err := handler.Handle(ctx, "u1", taskID)
	require.NoError(t, err)
	assert.False(t, tk.Completed)
	assert.Nil(t, tk.CompletedAt)
	assert.Equal(t, 1, todayCount(t, progressRepo))
}

func TestToggleTask_RecompleteCountsAgain(t *testing.T) {
	handler, _, progressRepo, taskID := newToggleFixture(t)
	ctx := context.Background()

	for _, want := range []int{1, 1, 2} {
		_, err := handler.Handle(ctx, "u1", taskID)
		require.NoError(t, err)
		assert.Equal(t, want, todayCount(t, progressRepo))
	}
}

func TestToggleTask_NotFound(t *testing.T) {
	handler, _, _, _ := newToggleFixture(t)

	_, err := handler.Handle(context.Background(), "u1", "ghost")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// Another user's task is invisible, not forbidden.
	_, err = handler.Handle(context.Background(), "u2", "t1")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteTask_KeepsProgress(t *testing.T) {
	userRepo := newFakeUserRepo()
	progressRepo := newFakeProgressRepo()
	taskRepo := newFakeTaskRepo()
	seedUser(userRepo, "u1", true)

	activity := NewRecordActivityHandler(userRepo, progressRepo, nil, nil)
	toggle := NewToggleTaskHandler(taskRepo, activity, nil)
	del := NewDeleteTaskHandler(taskRepo)

	tk, err := task.NewTask(task.NewTaskParams{ID: "t1", UserID: "u1", Title: "x"})
	require.NoError(t, err)
	require.NoError(t, taskRepo.Create(context.Background(), tk))

	_, err = toggle.Handle(context.Background(), "u1", tk.ID)
	require.NoError(t, err)

	require.NoError(t, del.Handle(context.Background(), "u1", tk.ID))
	assert.Equal(t, 1, todayCount(t, progressRepo))
}
