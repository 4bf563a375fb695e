package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/shared"
)

func TestNewTask_Defaults(t *testing.T) {
	tk, err := NewTask(NewTaskParams{ID: "t1", UserID: "u1", Title: "  Read chapter 1 "})
	require.NoError(t, err)

	assert.Equal(t, "Read chapter 1", tk.Title)
	assert.Equal(t, PriorityMedium, tk.Priority)
	assert.False(t, tk.Completed)
	assert.Nil(t, tk.CompletedAt)
}

func TestNewTask_Validation(t *testing.T) {
	_, err := NewTask(NewTaskParams{ID: "t1", UserID: "u1", Title: "   "})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)

	_, err = NewTask(NewTaskParams{ID: "t1", UserID: "u1", Title: "x", Priority: "urgent"})
	assert.ErrorIs(t, err, shared.ErrInvalidPriority)

	_, err = NewTask(NewTaskParams{ID: "t1", UserID: "u1", Title: "x", EstimatedMinutes: -5})
	assert.ErrorIs(t, err, shared.ErrNegativeValue)
}

func TestCompleteAndReopen(t *testing.T) {
	tk, err := NewTask(NewTaskParams{ID: "t1", UserID: "u1", Title: "x"})
	require.NoError(t, err)

	// First completion makes the transition.
	assert.True(t, tk.Complete())
	assert.True(t, tk.Completed)
	require.NotNil(t, tk.CompletedAt)

	// Completing an already-completed task is a no-op.
	assert.False(t, tk.Complete())

	// Reopening clears the flag and timestamp.
	assert.True(t, tk.Reopen())
	assert.False(t, tk.Completed)
	assert.Nil(t, tk.CompletedAt)

	// Reopening an open task is a no-op.
	assert.False(t, tk.Reopen())
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)

	tk, err := NewTask(NewTaskParams{ID: "t1", UserID: "u1", Title: "x", DueDate: &past})
	require.NoError(t, err)
	assert.True(t, tk.IsOverdue(now))

	tk.Complete()
	assert.False(t, tk.IsOverdue(now))

	tk2, err := NewTask(NewTaskParams{ID: "t2", UserID: "u1", Title: "y", DueDate: &future})
	require.NoError(t, err)
	assert.False(t, tk2.IsOverdue(now))

	tk3, err := NewTask(NewTaskParams{ID: "t3", UserID: "u1", Title: "z"})
	require.NoError(t, err)
	assert.False(t, tk3.IsOverdue(now))
}

func TestUnlinkMaterial(t *testing.T) {
	id := material.ID("m1")
	tk, err := NewTask(NewTaskParams{ID: "t1", UserID: "u1", MaterialID: &id, Title: "x"})
	require.NoError(t, err)

	tk.UnlinkMaterial()
	assert.Nil(t, tk.MaterialID)
}
