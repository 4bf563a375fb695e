package notification

import (
	"context"

	"github.com/studymind/studymind-server/internal/domain/user"
)

// ListFilter narrows notification listings.
type ListFilter struct {
	Unread *bool
	Limit  int
	Offset int
}

// Repository is the persistence port for notifications.
type Repository interface {
	Create(ctx context.Context, n *Notification) error

	FindByID(ctx context.Context, userID user.ID, id ID) (*Notification, error)

	ListByUser(ctx context.Context, userID user.ID, filter ListFilter) ([]*Notification, error)

	MarkRead(ctx context.Context, userID user.ID, id ID) error

	MarkAllRead(ctx context.Context, userID user.ID) error

	CountUnread(ctx context.Context, userID user.ID) (int, error)
}
