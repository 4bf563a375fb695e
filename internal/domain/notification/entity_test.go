package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymind/studymind-server/internal/domain/shared"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(NewParams{ID: "", UserID: "u1", Kind: KindUpdate, Title: "x"})
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = New(NewParams{ID: "n1", UserID: "u1", Kind: "bogus", Title: "x"})
	assert.ErrorIs(t, err, shared.ErrInvalidKind)

	_, err = New(NewParams{ID: "n1", UserID: "u1", Kind: KindUpdate, Title: ""})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}

func TestNew_DefaultIcon(t *testing.T) {
	n, err := New(NewParams{ID: "n1", UserID: "u1", Kind: KindUpdate, Title: "hello"})
	require.NoError(t, err)

	assert.Equal(t, IconDefault, n.Icon)
	assert.False(t, n.Read)
}

func TestNewStreakMilestone_Title(t *testing.T) {
	n, err := NewStreakMilestone("n1", "u1", 7)
	require.NoError(t, err)

	assert.Equal(t, "🔥 7-Day Streak!", n.Title)
	assert.Equal(t, KindAchievement, n.Kind)
	assert.Equal(t, IconAchievement, n.Icon)

	n, err = NewStreakMilestone("n2", "u1", 365)
	require.NoError(t, err)
	assert.Equal(t, "🔥 365-Day Streak!", n.Title)
}

func TestNewDeadlineWarning_Pluralization(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	n, err := NewDeadlineWarning("n1", "u1", "Read chapter 3", now.AddDate(0, 0, 1), now)
	require.NoError(t, err)
	assert.Equal(t, "Deadline in 1 day", n.Title)
	assert.Equal(t, KindWarning, n.Kind)
	assert.Contains(t, n.Text, `"Read chapter 3"`)

	n, err = NewDeadlineWarning("n2", "u1", "Quiz prep", now.AddDate(0, 0, 2), now)
	require.NoError(t, err)
	assert.Equal(t, "Deadline in 2 days", n.Title)

	// Overdue clamps to zero rather than going negative.
	n, err = NewDeadlineWarning("n3", "u1", "Late", now.AddDate(0, 0, -3), now)
	require.NoError(t, err)
	assert.Equal(t, "Deadline in 0 days", n.Title)
}

func TestMarkRead(t *testing.T) {
	n, err := NewWelcome("n1", "u1", "Aru")
	require.NoError(t, err)
	assert.False(t, n.Read)
	assert.Contains(t, n.Text, "Aru")

	n.MarkRead()
	assert.True(t, n.Read)
}
