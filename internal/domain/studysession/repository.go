package studysession

import (
	"context"
	"time"

	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/user"
)

// ListFilter narrows session listings.
type ListFilter struct {
	Activity *Activity
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// Repository is the persistence port for study sessions.
type Repository interface {
	Create(ctx context.Context, s *Session) error

	FindByID(ctx context.Context, userID user.ID, id ID) (*Session, error)

	Update(ctx context.Context, s *Session) error

	ListByUser(ctx context.Context, userID user.ID, filter ListFilter) ([]*Session, error)

	// UnlinkMaterial nulls the material back-reference on every session
	// that points at the given material.
	UnlinkMaterial(ctx context.Context, materialID material.ID) error
}
