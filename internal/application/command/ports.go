// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/studymind/studymind-server/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// APPLICATION PORTS
// ══════════════════════════════════════════════════════════════════════════════

// SessionTokens is the auth token store port, backed by Redis.
type SessionTokens interface {
	// Issue mints an opaque bearer token for the user.
	Issue(ctx context.Context, userID user.ID) (string, error)

	// Resolve maps a token back to its user, or an unauthorized error.
	Resolve(ctx context.Context, token string) (user.ID, error)

	// Revoke invalidates a token.
	Revoke(ctx context.Context, token string) error
}

// UnreadCounter is the unread-notification cache port, backed by Redis.
type UnreadCounter interface {
	// Increment bumps the cached counter after a new notification.
	Increment(ctx context.Context, userID user.ID) error

	// Invalidate drops the counter so the next read re-primes it.
	Invalidate(ctx context.Context, userID user.ID) error
}

// newID returns a fresh UUID string for entity identifiers.
func newID() string {
	return uuid.NewString()
}
