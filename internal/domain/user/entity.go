// Package user contains the account aggregate: identity, credentials,
// lifetime study counters, and per-user settings.
package user

import (
	"strings"
	"time"

	"github.com/studymind/studymind-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// ID is the unique identifier of a user.
type ID string

// IsValid checks that the ID is not empty.
func (id ID) IsValid() bool {
	return len(id) > 0
}

// String returns the string representation of the ID.
func (id ID) String() string {
	return string(id)
}

// Email is a normalized (lowercased, trimmed) email address.
type Email string

// NewEmail normalizes and validates an email address.
func NewEmail(raw string) (Email, error) {
	e := Email(strings.ToLower(strings.TrimSpace(raw)))
	if !e.IsValid() {
		return "", shared.ErrInvalidEmail
	}
	return e, nil
}

// IsValid performs a minimal structural check: something@something.something.
func (e Email) IsValid() bool {
	s := string(e)
	at := strings.Index(s, "@")
	if at < 1 || at == len(s)-1 {
		return false
	}
	dot := strings.LastIndex(s, ".")
	return dot > at+1 && dot < len(s)-1
}

// String returns the string representation of the email.
func (e Email) String() string {
	return string(e)
}

// Theme is the UI theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// IsValid checks that the theme is known.
func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}

// ══════════════════════════════════════════════════════════════════════════════
// USER ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// User is the account aggregate root. Every other entity in the system is
// owned by exactly one user and is removed when the user is deleted.
type User struct {
	ID           ID
	Email        Email
	PasswordHash string
	FirstName    string
	LastName     string

	// Streak counts consecutive goal-met days ending at the most recent
	// goal-met day. Never negative; reset to 1, not 0, on a broken run.
	Streak int

	// TotalStudyTime is cumulative study minutes. Monotonically
	// non-decreasing.
	TotalStudyTime int

	LastActive time.Time
	CreatedAt  time.Time
}

// NewUserParams holds parameters for creating a user.
type NewUserParams struct {
	ID           ID
	Email        Email
	PasswordHash string
	FirstName    string
	LastName     string
}

// NewUser creates a user with validation.
func NewUser(params NewUserParams) (*User, error) {
	if !params.ID.IsValid() {
		return nil, shared.NewDomainError("user", "New", shared.ErrInvalidID, "empty user id")
	}
	if !params.Email.IsValid() {
		return nil, shared.ErrInvalidEmail
	}
	if params.PasswordHash == "" {
		return nil, shared.NewDomainError("user", "New", shared.ErrEmptyValue, "empty password hash")
	}
	if strings.TrimSpace(params.FirstName) == "" {
		return nil, shared.NewDomainError("user", "New", shared.ErrEmptyValue, "first name is required")
	}

	now := time.Now().UTC()
	return &User{
		ID:           params.ID,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		FirstName:    strings.TrimSpace(params.FirstName),
		LastName:     strings.TrimSpace(params.LastName),
		Streak:       0,
		LastActive:   now,
		CreatedAt:    now,
	}, nil
}

// FullName returns "First Last", or just the first name when the last
// name is empty.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Initials returns the avatar initials derived from first and last name.
func (u *User) Initials() string {
	var b strings.Builder
	if u.FirstName != "" {
		b.WriteString(strings.ToUpper(u.FirstName[:1]))
	}
	if u.LastName != "" {
		b.WriteString(strings.ToUpper(u.LastName[:1]))
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

// AddStudyTime adds minutes to the lifetime counter and refreshes
// LastActive. Negative deltas are ignored to keep the counter monotonic.
func (u *User) AddStudyTime(minutes int) {
	if minutes <= 0 {
		return
	}
	u.TotalStudyTime += minutes
	u.LastActive = time.Now().UTC()
}

// Touch refreshes the last-active timestamp.
func (u *User) Touch() {
	u.LastActive = time.Now().UTC()
}

// ══════════════════════════════════════════════════════════════════════════════
// USER SETTINGS
// ══════════════════════════════════════════════════════════════════════════════

// Settings is the one-to-one preferences row for a user. Without a settings
// row no daily goal exists, so goal_met can never flip for that user.
type Settings struct {
	UserID               ID
	Theme                Theme
	NotificationsEnabled bool
	EmailNotifications   bool

	// DailyGoal and WeeklyGoal are study-minute targets.
	DailyGoal  int
	WeeklyGoal int

	// ReminderTime is the daily reminder wall clock, "HH:MM".
	ReminderTime string
}

// DefaultSettings returns the settings assigned at registration.
func DefaultSettings(userID ID) *Settings {
	return &Settings{
		UserID:               userID,
		Theme:                ThemeDark,
		NotificationsEnabled: true,
		EmailNotifications:   false,
		DailyGoal:            60,
		WeeklyGoal:           300,
		ReminderTime:         "09:00",
	}
}

// Validate checks settings invariants.
func (s *Settings) Validate() error {
	if !s.UserID.IsValid() {
		return shared.NewDomainError("user", "ValidateSettings", shared.ErrInvalidID, "empty user id")
	}
	if !s.Theme.IsValid() {
		return shared.NewDomainError("user", "ValidateSettings", shared.ErrInvalidInput, "unknown theme")
	}
	if s.DailyGoal < 0 || s.WeeklyGoal < 0 {
		return shared.NewDomainError("user", "ValidateSettings", shared.ErrNegativeValue, "goals cannot be negative")
	}
	if _, err := time.Parse("15:04", s.ReminderTime); err != nil {
		return shared.NewDomainError("user", "ValidateSettings", shared.ErrInvalidFormat, "reminder time must be HH:MM")
	}
	return nil
}
