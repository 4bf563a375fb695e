package user

import "context"

// Repository is the persistence port for users and their settings.
type Repository interface {
	// Create inserts a new user. Returns shared.ErrEmailTaken when the
	// email is already registered.
	Create(ctx context.Context, u *User) error

	// FindByID loads a user by ID.
	FindByID(ctx context.Context, id ID) (*User, error)

	// FindByEmail loads a user by normalized email.
	FindByEmail(ctx context.Context, email Email) (*User, error)

	// Update persists mutable user fields (streak, counters, last active).
	Update(ctx context.Context, u *User) error

	// Delete removes the user. Owned entities cascade at the storage level.
	Delete(ctx context.Context, id ID) error

	// SaveSettings upserts the settings row for a user.
	SaveSettings(ctx context.Context, s *Settings) error

	// FindSettings loads the settings row. Returns shared.ErrSettingsNotFound
	// when the user has no settings yet.
	FindSettings(ctx context.Context, id ID) (*Settings, error)

	// ListReminderDue returns IDs of users whose reminder time equals the
	// given "HH:MM" clock and who have notifications enabled.
	ListReminderDue(ctx context.Context, clock string) ([]ID, error)
}
