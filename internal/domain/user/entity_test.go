package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymind/studymind-server/internal/domain/shared"
)

func TestNewEmail(t *testing.T) {
	e, err := NewEmail("  Alikhan@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "alikhan@example.com", e.String())

	for _, raw := range []string{"", "plain", "@nodomain.com", "user@", "user@nodot", "user@.x"} {
		_, err := NewEmail(raw)
		assert.ErrorIs(t, err, shared.ErrInvalidEmail, "expected %q to be rejected", raw)
	}
}

func TestNewUser(t *testing.T) {
	email, _ := NewEmail("a@b.co")
	u, err := NewUser(NewUserParams{
		ID:           "u1",
		Email:        email,
		PasswordHash: "hash",
		FirstName:    " Aru ",
		LastName:     " Bekova ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Aru", u.FirstName)
	assert.Equal(t, "Aru Bekova", u.FullName())
	assert.Equal(t, "AB", u.Initials())
	assert.Zero(t, u.Streak)
	assert.Zero(t, u.TotalStudyTime)
}

func TestInitials(t *testing.T) {
	u := &User{FirstName: "aru"}
	assert.Equal(t, "A", u.Initials())
	assert.Equal(t, "aru", u.FullName())

	u = &User{}
	assert.Equal(t, "?", u.Initials())
}

func TestAddStudyTime(t *testing.T) {
	u := &User{TotalStudyTime: 100}

	u.AddStudyTime(25)
	assert.Equal(t, 125, u.TotalStudyTime)

	// The lifetime counter is monotonic; bad deltas are dropped.
	u.AddStudyTime(0)
	u.AddStudyTime(-50)
	assert.Equal(t, 125, u.TotalStudyTime)
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings("u1")

	require.NoError(t, s.Validate())
	assert.Equal(t, 60, s.DailyGoal)
	assert.Equal(t, 300, s.WeeklyGoal)
	assert.Equal(t, "09:00", s.ReminderTime)
	assert.True(t, s.NotificationsEnabled)
}

func TestSettings_Validate(t *testing.T) {
	s := DefaultSettings("u1")
	s.ReminderTime = "9 o'clock"
	assert.ErrorIs(t, s.Validate(), shared.ErrInvalidFormat)

	s = DefaultSettings("u1")
	s.DailyGoal = -10
	assert.ErrorIs(t, s.Validate(), shared.ErrNegativeValue)

	s = DefaultSettings("u1")
	s.Theme = "solarized"
	assert.ErrorIs(t, s.Validate(), shared.ErrInvalidInput)
}
