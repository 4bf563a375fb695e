// Package studysession contains the timed-activity aggregate. A session is
// opened with zero duration and finalized exactly once; after that it is
// immutable.
package studysession

import (
	"time"

	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// ID is the unique identifier of a study session.
type ID string

// IsValid checks that the ID is not empty.
func (id ID) IsValid() bool {
	return len(id) > 0
}

// String returns the string representation of the ID.
func (id ID) String() string {
	return string(id)
}

// Activity classifies what the user did during the session.
type Activity string

const (
	ActivityReading    Activity = "reading"
	ActivityQuiz       Activity = "quiz"
	ActivityFlashcards Activity = "flashcards"
	ActivityNotes      Activity = "notes"
)

// IsValid checks that the activity type is known.
func (a Activity) IsValid() bool {
	switch a {
	case ActivityReading, ActivityQuiz, ActivityFlashcards, ActivityNotes:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Session is a user-owned timed study activity.
type Session struct {
	ID         ID
	UserID     user.ID
	MaterialID *material.ID
	Activity   Activity
	StartedAt  time.Time
	EndedAt    *time.Time

	// Duration is the session length in minutes, set at finalize time.
	Duration int

	PagesCovered int

	// Date is the UTC calendar day the session started on. Progress is
	// credited to the day the session ends.
	Date time.Time
}

// NewSessionParams holds parameters for starting a session.
type NewSessionParams struct {
	ID         ID
	UserID     user.ID
	MaterialID *material.ID
	Activity   Activity
}

// NewSession starts a session with zero duration.
func NewSession(params NewSessionParams) (*Session, error) {
	if !params.ID.IsValid() {
		return nil, shared.NewDomainError("studysession", "New", shared.ErrInvalidID, "empty session id")
	}
	if !params.UserID.IsValid() {
		return nil, shared.NewDomainError("studysession", "New", shared.ErrInvalidID, "empty user id")
	}
	if !params.Activity.IsValid() {
		return nil, shared.ErrInvalidActivityType
	}

	now := time.Now().UTC()
	return &Session{
		ID:         params.ID,
		UserID:     params.UserID,
		MaterialID: params.MaterialID,
		Activity:   params.Activity,
		StartedAt:  now,
		Date:       time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}, nil
}

// IsEnded reports whether the session was already finalized.
func (s *Session) IsEnded() bool {
	return s.EndedAt != nil
}

// End finalizes the session. Calling End on an ended session fails with a
// state error so a duplicate request cannot double-count study time.
func (s *Session) End(duration, pagesCovered int) error {
	if s.IsEnded() {
		return shared.ErrSessionAlreadyEnded
	}
	if duration < 0 || pagesCovered < 0 {
		return shared.NewDomainError("studysession", "End", shared.ErrNegativeValue, "duration and pages must be non-negative")
	}
	now := time.Now().UTC()
	s.EndedAt = &now
	s.Duration = duration
	s.PagesCovered = pagesCovered
	return nil
}

// UnlinkMaterial drops the weak material reference.
func (s *Session) UnlinkMaterial() {
	s.MaterialID = nil
}
