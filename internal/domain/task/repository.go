package task

import (
	"context"
	"time"

	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/user"
)

// ListFilter narrows task listings.
type ListFilter struct {
	Completed *bool
	DueBefore *time.Time
	DueAfter  *time.Time
	Limit     int
	Offset    int
}

// Repository is the persistence port for tasks.
type Repository interface {
	Create(ctx context.Context, t *Task) error

	FindByID(ctx context.Context, userID user.ID, id ID) (*Task, error)

	Update(ctx context.Context, t *Task) error

	Delete(ctx context.Context, userID user.ID, id ID) error

	ListByUser(ctx context.Context, userID user.ID, filter ListFilter) ([]*Task, error)

	// ListDueWithin returns open tasks across all users due within the
	// window [now, now+days]. Used by the deadline-warning job.
	ListDueWithin(ctx context.Context, now time.Time, days int) ([]*Task, error)

	// UnlinkMaterial nulls the material back-reference on every task that
	// points at the given material.
	UnlinkMaterial(ctx context.Context, materialID material.ID) error

	CountByUser(ctx context.Context, userID user.ID, completed *bool) (int, error)
}
