package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymind/studymind-server/internal/domain/progress"
	"github.com/studymind/studymind-server/internal/domain/shared"
)

func newActivityFixture(withSettings bool) (*RecordActivityHandler, *fakeUserRepo, *fakeProgressRepo, *fakeNotifRepo) {
	userRepo := newFakeUserRepo()
	progressRepo := newFakeProgressRepo()
	notifRepo := newFakeNotifRepo()
	notifier := NewNotifier(notifRepo, &fakeUnreadCounter{}, nil)
	handler := NewRecordActivityHandler(userRepo, progressRepo, notifier, nil)

	seedUser(userRepo, "u1", withSettings)
	return handler, userRepo, progressRepo, notifRepo
}

func TestRecordActivity_Additive(t *testing.T) {
	handler, _, _, _ := newActivityFixture(true)
	ctx := context.Background()
	day := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	res, err := handler.Handle(ctx, RecordActivityCommand{UserID: "u1", StudyTime: 20, Date: day})
	require.NoError(t, err)
	assert.Equal(t, 20, res.Progress.StudyTime)
	assert.False(t, res.GoalJustMet)

	res, err = handler.Handle(ctx, RecordActivityCommand{UserID: "u1", StudyTime: 15, PagesRead: 8, Date: day})
	require.NoError(t, err)
	assert.Equal(t, 35, res.Progress.StudyTime)
	assert.Equal(t, 8, res.Progress.PagesRead)
}

func TestRecordActivity_NegativeDeltaRejected(t *testing.T) {
	handler, _, _, _ := newActivityFixture(true)

	_, err := handler.Handle(context.Background(), RecordActivityCommand{UserID: "u1", StudyTime: -10})
	assert.ErrorIs(t, err, shared.ErrNegativeDelta)
}

func TestRecordActivity_GoalEdge(t *testing.T) {
	handler, userRepo, _, _ := newActivityFixture(true)
	ctx := context.Background()
	day := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	// Default daily goal is 60 minutes.
	res, err := handler.Handle(ctx, RecordActivityCommand{UserID: "u1", StudyTime: 59, Date: day})
	require.NoError(t, err)
	assert.False(t, res.GoalJustMet)

	res, err = handler.Handle(ctx, RecordActivityCommand{UserID: "u1", StudyTime: 1, Date: day})
	require.NoError(t, err)
	assert.True(t, res.GoalJustMet)
	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, 1, userRepo.users["u1"].Streak)

	// More activity the same day: the flag stays set, no second edge.
	res, err = handler.Handle(ctx, RecordActivityCommand{UserID: "u1", StudyTime: 100, Date: day})
	require.NoError(t, err)
	assert.False(t, res.GoalJustMet)
	assert.Equal(t, 1, userRepo.users["u1"].Streak)
}

func TestRecordActivity_NoSettingsMeansNoGoal(t *testing.T) {
	handler, userRepo, progressRepo, _ := newActivityFixture(false)
	ctx := context.Background()
	day := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	// Hours of activity without a settings row: counters grow, flag stays off.
	res, err := handler.Handle(ctx, RecordActivityCommand{UserID: "u1", StudyTime: 600, Date: day})
	require.NoError(t, err)
	assert.False(t, res.GoalJustMet)
	assert.Equal(t, 600, res.Progress.StudyTime)
	assert.False(t, res.Progress.GoalMet)
	assert.Zero(t, userRepo.users["u1"].Streak)

	row, err := progressRepo.FindByDate(ctx, "u1", day)
	require.NoError(t, err)
	assert.False(t, row.GoalMet)
}

func TestRecordActivity_StreakExtension(t *testing.T) {
	handler, userRepo, progressRepo, _ := newActivityFixture(true)
	ctx := context.Background()
	today := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	// Yesterday met the goal.
	yesterday := progress.NewDailyProgress("u1", today.AddDate(0, 0, -1))
	yesterday.GoalMet = true
	progressRepo.rows[progressKey("u1", yesterday.Date)] = yesterday
	userRepo.users["u1"].Streak = 3

	res, err := handler.Handle(ctx, RecordActivityCommand{UserID: "u1", StudyTime: 60, Date: today})
	require.NoError(t, err)
	assert.True(t, res.GoalJustMet)
	assert.Equal(t, 4, res.Streak)
	assert.False(t, res.Milestone)
}

func TestRecordActivity_StreakResetAfterGap(t *testing.T) {
	handler, userRepo, _, _ := newActivityFixture(true)
	ctx := context.Background()
	today := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	// No row for yesterday at all; an old streak restarts at 1, not 0.
	userRepo.users["u1"].Streak = 42

	res, err := handler.Handle(ctx, RecordActivityCommand{UserID: "u1", StudyTime: 60, Date: today})
	require.NoError(t, err)
	assert.True(t, res.GoalJustMet)
	assert.Equal(t, 1, res.Streak)
}

func TestRecordActivity_MilestoneNotification(t *testing.T) {
	handler, userRepo, progressRepo, notifRepo := newActivityFixture(true)
	ctx := context.Background()
	today := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	yesterday := progress.NewDailyProgress("u1", today.AddDate(0, 0, -1))
	yesterday.GoalMet = true
	progressRepo.rows[progressKey("u1", yesterday.Date)] = yesterday
	userRepo.users["u1"].Streak = 6

	res, err := handler.Handle(ctx, RecordActivityCommand{UserID: "u1", StudyTime: 60, Date: today})
	require.NoError(t, err)
	assert.True(t, res.Milestone)
	assert.Equal(t, 7, res.Streak)

	// Exactly one achievement for the 7-day milestone.
	milestones := notifRepo.byTitle("🔥 7-Day Streak!")
	require.Len(t, milestones, 1)

	// Piling on more activity the same day does not emit a second one.
	_, err = handler.Handle(ctx, RecordActivityCommand{UserID: "u1", StudyTime: 60, Date: today})
	require.NoError(t, err)
	assert.Len(t, notifRepo.byTitle("🔥 7-Day Streak!"), 1)
}

func TestRecordActivity_UnknownUser(t *testing.T) {
	handler, _, _, _ := newActivityFixture(true)

	_, err := handler.Handle(context.Background(), RecordActivityCommand{UserID: "ghost", StudyTime: 10})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
