package studysession

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/shared"
)

func TestNewSession(t *testing.T) {
	s, err := NewSession(NewSessionParams{ID: "s1", UserID: "u1", Activity: ActivityReading})
	require.NoError(t, err)

	assert.False(t, s.IsEnded())
	assert.Zero(t, s.Duration)
	assert.Nil(t, s.EndedAt)
	// Date is the UTC day, midnight-aligned.
	assert.Zero(t, s.Date.Hour())
	assert.Zero(t, s.Date.Minute())
}

func TestNewSession_Validation(t *testing.T) {
	_, err := NewSession(NewSessionParams{ID: "s1", UserID: "u1", Activity: "juggling"})
	assert.ErrorIs(t, err, shared.ErrInvalidActivityType)

	_, err = NewSession(NewSessionParams{ID: "", UserID: "u1", Activity: ActivityQuiz})
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}

func TestEnd_Once(t *testing.T) {
	s, err := NewSession(NewSessionParams{ID: "s1", UserID: "u1", Activity: ActivityReading})
	require.NoError(t, err)

	require.NoError(t, s.End(45, 20))
	assert.True(t, s.IsEnded())
	assert.Equal(t, 45, s.Duration)
	assert.Equal(t, 20, s.PagesCovered)
}

func TestEnd_Twice(t *testing.T) {
	s, err := NewSession(NewSessionParams{ID: "s1", UserID: "u1", Activity: ActivityNotes})
	require.NoError(t, err)
	require.NoError(t, s.End(30, 0))

	// A duplicate end request must not double-count study time.
	err = s.End(30, 0)
	assert.ErrorIs(t, err, shared.ErrSessionAlreadyEnded)
	assert.Equal(t, 30, s.Duration)
}

func TestEnd_NegativeValues(t *testing.T) {
	s, err := NewSession(NewSessionParams{ID: "s1", UserID: "u1", Activity: ActivityFlashcards})
	require.NoError(t, err)

	assert.ErrorIs(t, s.End(-1, 0), shared.ErrNegativeValue)
	assert.ErrorIs(t, s.End(10, -1), shared.ErrNegativeValue)
	assert.False(t, s.IsEnded())
}

func TestUnlinkMaterial(t *testing.T) {
	id := material.ID("m1")
	s, err := NewSession(NewSessionParams{ID: "s1", UserID: "u1", MaterialID: &id, Activity: ActivityReading})
	require.NoError(t, err)

	s.UnlinkMaterial()
	assert.Nil(t, s.MaterialID)
}
