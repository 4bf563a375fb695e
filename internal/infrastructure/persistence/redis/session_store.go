package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTH SESSION STORE
// ══════════════════════════════════════════════════════════════════════════════

// SessionStore keeps opaque bearer tokens in Redis with a sliding TTL.
// The value under each token key is the user ID.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a session store with the given token lifetime.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Issue mints a new random token for the user and stores it.
func (s *SessionStore) Issue(ctx context.Context, userID user.ID) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("session store: failed to generate token: %w", err)
	}
	token := hex.EncodeToString(buf)

	key := PrefixAuthSession + token
	if err := s.client.Set(ctx, key, userID.String(), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session store: failed to store token: %w", err)
	}

	return token, nil
}

// Resolve returns the user ID behind a token and refreshes its TTL.
// Unknown or expired tokens surface as shared.ErrSessionTokenStale.
func (s *SessionStore) Resolve(ctx context.Context, token string) (user.ID, error) {
	if token == "" {
		return "", shared.ErrSessionTokenStale
	}

	key := PrefixAuthSession + token
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shared.ErrSessionTokenStale
		}
		return "", fmt.Errorf("session store: failed to resolve token: %w", err)
	}

	// Sliding expiry: an active session stays alive.
	_ = s.client.Expire(ctx, key, s.ttl).Err()

	return user.ID(val), nil
}

// Revoke deletes a token. Revoking an unknown token is not an error.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, PrefixAuthSession+token).Err(); err != nil {
		return fmt.Errorf("session store: failed to revoke token: %w", err)
	}
	return nil
}
