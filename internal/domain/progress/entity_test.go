package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/studymind/studymind-server/internal/domain/shared"
)

func TestDelta_Validate(t *testing.T) {
	assert.NoError(t, Delta{StudyTime: 30, TasksCompleted: 1}.Validate())
	assert.NoError(t, Delta{}.Validate())

	err := Delta{StudyTime: -1}.Validate()
	assert.ErrorIs(t, err, shared.ErrNegativeDelta)
	assert.ErrorIs(t, Delta{PagesRead: -5}.Validate(), shared.ErrNegativeDelta)
}

func TestDailyProgress_ApplyIsAdditive(t *testing.T) {
	p := NewDailyProgress("u1", time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC))

	// Date is normalized to midnight UTC.
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), p.Date)

	p.Apply(Delta{StudyTime: 25, PagesRead: 10})
	p.Apply(Delta{StudyTime: 35, TasksCompleted: 2, MaterialsProcessed: 1})

	assert.Equal(t, 60, p.StudyTime)
	assert.Equal(t, 2, p.TasksCompleted)
	assert.Equal(t, 1, p.MaterialsProcessed)
	assert.Equal(t, 10, p.PagesRead)
}

func TestDailyProgress_EvaluateGoal_EdgeTriggered(t *testing.T) {
	p := NewDailyProgress("u1", time.Now())

	p.Apply(Delta{StudyTime: 59})
	assert.False(t, p.EvaluateGoal(60, true))
	assert.False(t, p.GoalMet)

	// Crossing the threshold flips exactly once.
	p.Apply(Delta{StudyTime: 1})
	assert.True(t, p.EvaluateGoal(60, true))
	assert.True(t, p.GoalMet)

	// Further activity never re-triggers.
	p.Apply(Delta{StudyTime: 120})
	assert.False(t, p.EvaluateGoal(60, true))
	assert.True(t, p.GoalMet)
}

func TestDailyProgress_EvaluateGoal_NoSettings(t *testing.T) {
	p := NewDailyProgress("u1", time.Now())
	p.Apply(Delta{StudyTime: 600})

	// Without a settings row there is no goal to meet.
	assert.False(t, p.EvaluateGoal(0, false))
	assert.False(t, p.GoalMet)
}

func TestDailyProgress_EvaluateGoal_Sticky(t *testing.T) {
	p := NewDailyProgress("u1", time.Now())
	p.Apply(Delta{StudyTime: 100})
	assert.True(t, p.EvaluateGoal(60, true))

	// Raising the goal after the fact does not clear the flag.
	assert.False(t, p.EvaluateGoal(200, true))
	assert.True(t, p.GoalMet)
}

func TestNextStreak(t *testing.T) {
	yesterday := NewDailyProgress("u1", time.Now().AddDate(0, 0, -1))

	// No row for yesterday resets to 1, never 0.
	assert.Equal(t, 1, NextStreak(5, nil))
	assert.Equal(t, 1, NextStreak(0, nil))

	// Yesterday studied but missed the goal: still a reset.
	yesterday.Apply(Delta{StudyTime: 10})
	assert.Equal(t, 1, NextStreak(5, yesterday))

	// Yesterday met the goal: extend.
	yesterday.GoalMet = true
	assert.Equal(t, 6, NextStreak(5, yesterday))
	assert.Equal(t, 1, NextStreak(0, yesterday))
}

func TestIsMilestone(t *testing.T) {
	for _, days := range []int{7, 14, 30, 60, 100, 365} {
		assert.True(t, IsMilestone(days), "expected %d to be a milestone", days)
	}
	for _, days := range []int{0, 1, 6, 8, 15, 29, 61, 99, 101, 364, 366} {
		assert.False(t, IsMilestone(days), "expected %d not to be a milestone", days)
	}
}
