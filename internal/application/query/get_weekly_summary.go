package query

import (
	"context"
	"time"

	"github.com/studymind/studymind-server/internal/domain/progress"
	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/user"
	"github.com/studymind/studymind-server/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET WEEKLY SUMMARY QUERY
// Weeks start on Monday. Days without a progress row appear as zeros so
// the chart always has seven points.
// ══════════════════════════════════════════════════════════════════════════════

// WeekDay is one day's slice of the weekly summary.
type WeekDay struct {
	Date           time.Time
	StudyTime      int
	TasksCompleted int
	PagesRead      int
	GoalMet        bool
}

// WeeklySummaryResult covers one Monday-to-Sunday week.
type WeeklySummaryResult struct {
	WeekStart time.Time
	WeekEnd   time.Time
	Days      [7]WeekDay

	TotalStudyTime  int
	TotalTasks      int
	GoalMetDays     int
	WeeklyGoal      int
	WeeklyGoalMet   bool
	WeeklyGoalKnown bool
}

// GetWeeklySummaryHandler handles weekly summary reads.
type GetWeeklySummaryHandler struct {
	userRepo     user.Repository
	progressRepo progress.Repository
}

// NewGetWeeklySummaryHandler creates a new GetWeeklySummaryHandler.
func NewGetWeeklySummaryHandler(userRepo user.Repository, progressRepo progress.Repository) *GetWeeklySummaryHandler {
	return &GetWeeklySummaryHandler{userRepo: userRepo, progressRepo: progressRepo}
}

// Handle summarizes the week containing the anchor date. A zero anchor
// means the current week.
func (h *GetWeeklySummaryHandler) Handle(ctx context.Context, userID user.ID, anchor time.Time) (*WeeklySummaryResult, error) {
	if _, err := h.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	if anchor.IsZero() {
		anchor = timeutil.Today()
	}
	weekStart := timeutil.StartOfWeek(anchor)
	weekEnd := timeutil.EndOfWeek(anchor)

	rows, err := h.progressRepo.FindRange(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	result := &WeeklySummaryResult{WeekStart: weekStart, WeekEnd: weekEnd}
	for i := 0; i < 7; i++ {
		result.Days[i].Date = weekStart.AddDate(0, 0, i)
	}

	for _, row := range rows {
		idx := timeutil.DaysBetween(weekStart, row.Date)
		if idx < 0 || idx > 6 {
			continue
		}
		result.Days[idx].StudyTime = row.StudyTime
		result.Days[idx].TasksCompleted = row.TasksCompleted
		result.Days[idx].PagesRead = row.PagesRead
		result.Days[idx].GoalMet = row.GoalMet

		result.TotalStudyTime += row.StudyTime
		result.TotalTasks += row.TasksCompleted
		if row.GoalMet {
			result.GoalMetDays++
		}
	}

	settings, err := h.userRepo.FindSettings(ctx, userID)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, err
		}
	} else {
		result.WeeklyGoal = settings.WeeklyGoal
		result.WeeklyGoalKnown = true
		result.WeeklyGoalMet = result.TotalStudyTime >= settings.WeeklyGoal
	}

	return result, nil
}
