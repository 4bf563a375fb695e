// Package progress contains the daily aggregation core: per-day activity
// counters, the sticky daily-goal flag, and the streak transition rule.
// This is the part of the system with real invariants; everything here is
// pure and covered by tests.
package progress

import (
	"time"

	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACTIVITY DELTA
// ══════════════════════════════════════════════════════════════════════════════

// Delta is one batch of activity to add to a day's counters. All fields
// are deltas, never absolute values.
type Delta struct {
	StudyTime          int // minutes
	MaterialsProcessed int
	TasksCompleted     int
	PagesRead          int
}

// Validate rejects negative deltas; counters only ever grow within a day.
func (d Delta) Validate() error {
	if d.StudyTime < 0 || d.MaterialsProcessed < 0 || d.TasksCompleted < 0 || d.PagesRead < 0 {
		return shared.ErrNegativeDelta
	}
	return nil
}

// IsZero reports whether the delta carries no activity.
func (d Delta) IsZero() bool {
	return d == Delta{}
}

// ══════════════════════════════════════════════════════════════════════════════
// DAILY PROGRESS
// ══════════════════════════════════════════════════════════════════════════════

// DailyProgress is the aggregate row for one (user, UTC date) pair. At most
// one row exists per pair; the storage layer enforces this with a unique
// constraint and an additive upsert.
type DailyProgress struct {
	UserID             user.ID
	Date               time.Time
	StudyTime          int
	MaterialsProcessed int
	TasksCompleted     int
	PagesRead          int

	// GoalMet is sticky: set once study time reaches the daily goal, never
	// cleared for that day.
	GoalMet bool
}

// NewDailyProgress creates an empty row for the given day.
func NewDailyProgress(userID user.ID, date time.Time) *DailyProgress {
	return &DailyProgress{
		UserID: userID,
		Date:   time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
	}
}

// Apply adds the delta to the day's counters.
func (p *DailyProgress) Apply(d Delta) {
	p.StudyTime += d.StudyTime
	p.MaterialsProcessed += d.MaterialsProcessed
	p.TasksCompleted += d.TasksCompleted
	p.PagesRead += d.PagesRead
}

// EvaluateGoal checks the goal predicate and returns true only on the
// false-to-true edge. hasGoal is false when the user has no settings row,
// in which case no goal can ever be met.
func (p *DailyProgress) EvaluateGoal(dailyGoal int, hasGoal bool) bool {
	if !hasGoal || p.GoalMet {
		return false
	}
	if p.StudyTime >= dailyGoal {
		p.GoalMet = true
		return true
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// STREAK RULE
// ══════════════════════════════════════════════════════════════════════════════

// Milestones is the fixed set of streak lengths that earn an achievement.
var Milestones = []int{7, 14, 30, 60, 100, 365}

// IsMilestone reports whether a streak length is in the milestone set.
func IsMilestone(days int) bool {
	for _, m := range Milestones {
		if days == m {
			return true
		}
	}
	return false
}

// NextStreak computes the streak value for a goal-met day given yesterday's
// row. A missing row or a studied-but-under-goal yesterday resets to 1,
// never 0: the streak counts consecutive goal-met days ending today.
func NextStreak(current int, yesterday *DailyProgress) int {
	if yesterday != nil && yesterday.GoalMet {
		return current + 1
	}
	return 1
}
