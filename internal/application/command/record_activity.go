package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/studymind/studymind-server/internal/domain/progress"
	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/user"
	"github.com/studymind/studymind-server/pkg/logger"
	"github.com/studymind/studymind-server/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD ACTIVITY COMMAND
// The single write path for daily progress. Adds activity deltas to
// today's row, checks the daily goal edge, and advances the streak when
// the goal is first met. Callers: session finalization, task completion,
// material processing.
// ══════════════════════════════════════════════════════════════════════════════

// RecordActivityCommand contains the activity deltas to record.
type RecordActivityCommand struct {
	UserID user.ID

	// Delta fields are additive and must be non-negative.
	StudyTime          int
	MaterialsProcessed int
	TasksCompleted     int
	PagesRead          int

	// Date defaults to today (UTC) when zero.
	Date time.Time
}

// Validate validates the command.
func (c RecordActivityCommand) Validate() error {
	if !c.UserID.IsValid() {
		return shared.NewDomainError("progress", "Record", shared.ErrInvalidID, "empty user id")
	}
	return c.delta().Validate()
}

func (c RecordActivityCommand) delta() progress.Delta {
	return progress.Delta{
		StudyTime:          c.StudyTime,
		MaterialsProcessed: c.MaterialsProcessed,
		TasksCompleted:     c.TasksCompleted,
		PagesRead:          c.PagesRead,
	}
}

// RecordActivityResult reports the updated row and streak state.
type RecordActivityResult struct {
	Progress    *progress.DailyProgress
	GoalJustMet bool
	Streak      int
	Milestone   bool
}

// RecordActivityHandler handles the RecordActivityCommand.
type RecordActivityHandler struct {
	userRepo     user.Repository
	progressRepo progress.Repository
	notifier     *Notifier
	log          *logger.Logger
}

// NewRecordActivityHandler creates a new RecordActivityHandler.
func NewRecordActivityHandler(
	userRepo user.Repository,
	progressRepo progress.Repository,
	notifier *Notifier,
	log *logger.Logger,
) *RecordActivityHandler {
	if log == nil {
		log = logger.Default()
	}
	return &RecordActivityHandler{
		userRepo:     userRepo,
		progressRepo: progressRepo,
		notifier:     notifier,
		log:          log.With(logger.Component("record_activity")),
	}
}

// Handle executes the record activity command.
func (h *RecordActivityHandler) Handle(ctx context.Context, cmd RecordActivityCommand) (*RecordActivityResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	date := cmd.Date
	if date.IsZero() {
		date = timeutil.Today()
	}

	u, err := h.userRepo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	// A user without a settings row has no goal: the flag never flips.
	dailyGoal := 0
	hasGoal := false
	settings, err := h.userRepo.FindSettings(ctx, cmd.UserID)
	switch {
	case err == nil:
		dailyGoal = settings.DailyGoal
		hasGoal = true
	case errors.Is(err, shared.ErrSettingsNotFound):
	default:
		return nil, err
	}

	row, goalJustMet, err := h.progressRepo.Accumulate(ctx, cmd.UserID, date, cmd.delta(), dailyGoal, hasGoal)
	if err != nil {
		return nil, fmt.Errorf("record activity: %w", err)
	}

	result := &RecordActivityResult{
		Progress:    row,
		GoalJustMet: goalJustMet,
		Streak:      u.Streak,
	}

	if goalJustMet {
		if err := h.advanceStreak(ctx, u, date, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// advanceStreak runs the streak transition on the goal-met edge:
// yesterday goal met means streak+1, anything else restarts at 1.
func (h *RecordActivityHandler) advanceStreak(
	ctx context.Context,
	u *user.User,
	date time.Time,
	result *RecordActivityResult,
) error {
	yesterday, err := h.progressRepo.FindByDate(ctx, u.ID, date.AddDate(0, 0, -1))
	if err != nil && !errors.Is(err, shared.ErrProgressNotFound) {
		return err
	}

	u.Streak = progress.NextStreak(u.Streak, yesterday)
	u.Touch()
	if err := h.userRepo.Update(ctx, u); err != nil {
		return fmt.Errorf("record activity: update streak: %w", err)
	}

	result.Streak = u.Streak
	result.Milestone = progress.IsMilestone(u.Streak)

	if result.Milestone && h.notifier != nil {
		// Reached at most once per streak length: the goal edge fires
		// once a day and each milestone value is crossed a single time
		// within a run.
		if err := h.notifier.StreakMilestone(ctx, u.ID, u.Streak); err != nil {
			h.log.Warn("failed to emit milestone notification",
				logger.UserID(u.ID.String()), logger.Int("streak", u.Streak), logger.Err(err))
		}
	}

	h.log.Info("daily goal met",
		logger.UserID(u.ID.String()),
		logger.Int("streak", u.Streak),
		logger.Bool("milestone", result.Milestone),
	)

	return nil
}
