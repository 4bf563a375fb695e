package command

import (
	"context"
	"time"

	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/task"
	"github.com/studymind/studymind-server/internal/domain/user"
	"github.com/studymind/studymind-server/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// TASK COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

// CreateTaskCommand contains the new task payload.
type CreateTaskCommand struct {
	UserID           user.ID
	MaterialID       *material.ID
	Title            string
	TaskType         string
	DueDate          *time.Time
	EstimatedMinutes int
	Priority         task.Priority
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo     task.Repository
	materialRepo material.Repository
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(taskRepo task.Repository, materialRepo material.Repository) *CreateTaskHandler {
	return &CreateTaskHandler{taskRepo: taskRepo, materialRepo: materialRepo}
}

// Handle creates a task, verifying the material link when present.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*task.Task, error) {
	if cmd.MaterialID != nil {
		if _, err := h.materialRepo.FindByID(ctx, cmd.UserID, *cmd.MaterialID); err != nil {
			return nil, err
		}
	}

	t, err := task.NewTask(task.NewTaskParams{
		ID:               task.ID(newID()),
		UserID:           cmd.UserID,
		MaterialID:       cmd.MaterialID,
		Title:            cmd.Title,
		TaskType:         cmd.TaskType,
		DueDate:          cmd.DueDate,
		EstimatedMinutes: cmd.EstimatedMinutes,
		Priority:         cmd.Priority,
	})
	if err != nil {
		return nil, err
	}

	if err := h.taskRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Toggle
// ─────────────────────────────────────────────────────────────────────────────

// ToggleTaskHandler flips a task's completion flag.
type ToggleTaskHandler struct {
	taskRepo task.Repository
	activity *RecordActivityHandler
	log      *logger.Logger
}

// NewToggleTaskHandler creates a new ToggleTaskHandler.
func NewToggleTaskHandler(taskRepo task.Repository, activity *RecordActivityHandler, log *logger.Logger) *ToggleTaskHandler {
	if log == nil {
		log = logger.Default()
	}
	return &ToggleTaskHandler{
		taskRepo: taskRepo,
		activity: activity,
		log:      log.With(logger.Component("toggle_task")),
	}
}

// Handle toggles completion. The progress effect is asymmetric on
// purpose: completing counts one task toward today, reopening leaves the
// recorded count alone. A completion that happened is history, even when
// the checkbox is flipped back.
func (h *ToggleTaskHandler) Handle(ctx context.Context, userID user.ID, taskID task.ID) (*task.Task, error) {
	t, err := h.taskRepo.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if t.Completed {
		t.Reopen()
		if err := h.taskRepo.Update(ctx, t); err != nil {
			return nil, err
		}
		return t, nil
	}

	t.Complete()
	if err := h.taskRepo.Update(ctx, t); err != nil {
		return nil, err
	}

	if h.activity != nil {
		if _, err := h.activity.Handle(ctx, RecordActivityCommand{
			UserID:         userID,
			TasksCompleted: 1,
		}); err != nil {
			// The toggle itself succeeded; progress is best effort here.
			h.log.Warn("failed to record task completion",
				logger.UserID(userID.String()), logger.TaskID(taskID.String()), logger.Err(err))
		}
	}

	return t, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete
// ─────────────────────────────────────────────────────────────────────────────

// DeleteTaskHandler removes a task.
type DeleteTaskHandler struct {
	taskRepo task.Repository
}

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(taskRepo task.Repository) *DeleteTaskHandler {
	return &DeleteTaskHandler{taskRepo: taskRepo}
}

// Handle deletes the task. Progress counters recorded while it was
// completed stay as they are.
func (h *DeleteTaskHandler) Handle(ctx context.Context, userID user.ID, taskID task.ID) error {
	return h.taskRepo.Delete(ctx, userID, taskID)
}
