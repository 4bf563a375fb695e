package material

import (
	"context"

	"github.com/studymind/studymind-server/internal/domain/user"
)

// ListFilter narrows material listings.
type ListFilter struct {
	Status  *Status
	Subject string
	Limit   int
	Offset  int
}

// Repository is the persistence port for materials.
type Repository interface {
	Create(ctx context.Context, m *Material) error

	// FindByID loads a material belonging to the given user.
	FindByID(ctx context.Context, userID user.ID, id ID) (*Material, error)

	Update(ctx context.Context, m *Material) error

	// Delete removes the material row. Tasks and sessions keep a nulled
	// back-reference; there is no cascade from material to them.
	Delete(ctx context.Context, userID user.ID, id ID) error

	ListByUser(ctx context.Context, userID user.ID, filter ListFilter) ([]*Material, error)

	CountByUser(ctx context.Context, userID user.ID) (int, error)
}
