// Package task contains the study-work unit aggregate.
package task

import (
	"strings"
	"time"

	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// ID is the unique identifier of a task.
type ID string

// IsValid checks that the ID is not empty.
func (id ID) IsValid() bool {
	return len(id) > 0
}

// String returns the string representation of the ID.
func (id ID) String() string {
	return string(id)
}

// Priority orders tasks by urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid checks that the priority is known.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// TASK ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Task is a user-owned unit of study work. MaterialID is a weak
// back-reference: deleting the material nulls the link and leaves the task.
type Task struct {
	ID         ID
	UserID     user.ID
	MaterialID *material.ID
	Title      string
	TaskType   string
	Completed  bool

	// CompletedAt is set on the transition to completed and cleared when
	// the task is reopened.
	CompletedAt *time.Time

	DueDate          *time.Time
	EstimatedMinutes int
	Priority         Priority
	CreatedAt        time.Time
}

// NewTaskParams holds parameters for creating a task.
type NewTaskParams struct {
	ID               ID
	UserID           user.ID
	MaterialID       *material.ID
	Title            string
	TaskType         string
	DueDate          *time.Time
	EstimatedMinutes int
	Priority         Priority
}

// NewTask creates a task with validation.
func NewTask(params NewTaskParams) (*Task, error) {
	if !params.ID.IsValid() {
		return nil, shared.NewDomainError("task", "New", shared.ErrInvalidID, "empty task id")
	}
	if !params.UserID.IsValid() {
		return nil, shared.NewDomainError("task", "New", shared.ErrInvalidID, "empty user id")
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, shared.NewDomainError("task", "New", shared.ErrEmptyValue, "task title is required")
	}

	priority := params.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.IsValid() {
		return nil, shared.ErrInvalidPriority
	}
	if params.EstimatedMinutes < 0 {
		return nil, shared.NewDomainError("task", "New", shared.ErrNegativeValue, "negative estimated minutes")
	}

	return &Task{
		ID:               params.ID,
		UserID:           params.UserID,
		MaterialID:       params.MaterialID,
		Title:            strings.TrimSpace(params.Title),
		TaskType:         strings.TrimSpace(params.TaskType),
		Priority:         priority,
		DueDate:          params.DueDate,
		EstimatedMinutes: params.EstimatedMinutes,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// Complete marks the task done and stamps the completion time. Returns
// true when this call made the transition, false when already completed.
func (t *Task) Complete() bool {
	if t.Completed {
		return false
	}
	t.Completed = true
	now := time.Now().UTC()
	t.CompletedAt = &now
	return true
}

// Reopen clears the completed flag and timestamp. The progress counters
// recorded at completion time are intentionally left untouched.
func (t *Task) Reopen() bool {
	if !t.Completed {
		return false
	}
	t.Completed = false
	t.CompletedAt = nil
	return true
}

// UnlinkMaterial drops the weak material reference.
func (t *Task) UnlinkMaterial() {
	t.MaterialID = nil
}

// IsOverdue reports whether the task has a due date in the past and is
// still open.
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}
