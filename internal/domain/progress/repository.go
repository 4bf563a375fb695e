package progress

import (
	"context"
	"time"

	"github.com/studymind/studymind-server/internal/domain/user"
)

// Repository is the persistence port for daily progress rows.
type Repository interface {
	// Accumulate upserts the (userID, date) row, adds the delta to its
	// counters, and claims the goal flag in the same atomic statement:
	// when hasGoal is true and the accumulated study time reaches
	// dailyGoal while goal_met was still false, goal_met is set and
	// goalJustMet returns true. Concurrent calls for the same day are
	// serialized by the unique constraint; exactly one of them observes
	// the flip.
	Accumulate(ctx context.Context, userID user.ID, date time.Time, d Delta, dailyGoal int, hasGoal bool) (row *DailyProgress, goalJustMet bool, err error)

	// FindByDate loads the row for one day, or shared.ErrProgressNotFound.
	FindByDate(ctx context.Context, userID user.ID, date time.Time) (*DailyProgress, error)

	// FindRange loads rows with from <= date <= to, ordered by date.
	FindRange(ctx context.Context, userID user.ID, from, to time.Time) ([]*DailyProgress, error)
}
