package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/studymind/studymind-server/internal/application/command"
	"github.com/studymind/studymind-server/internal/domain/task"
	"github.com/studymind/studymind-server/internal/domain/user"
	"github.com/studymind/studymind-server/pkg/logger"
	"github.com/studymind/studymind-server/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// REMINDER JOB
// Runs every minute. Users whose reminder clock matches the current
// minute and who have notifications enabled get one study reminder,
// which lands once per day because each clock value occurs once per day.
// ══════════════════════════════════════════════════════════════════════════════

// ReminderJob emits daily study reminders.
type ReminderJob struct {
	userRepo user.Repository
	notifier *command.Notifier
	tz       *time.Location
	log      *logger.Logger
}

// NewReminderJob creates a ReminderJob.
func NewReminderJob(userRepo user.Repository, notifier *command.Notifier, tz *time.Location, log *logger.Logger) *ReminderJob {
	if tz == nil {
		tz = time.UTC
	}
	if log == nil {
		log = logger.Default()
	}
	return &ReminderJob{
		userRepo: userRepo,
		notifier: notifier,
		tz:       tz,
		log:      log.With(logger.Component("reminder_job")),
	}
}

// Name identifies the job.
func (j *ReminderJob) Name() string { return "study_reminder" }

// Run sends reminders to every user due this minute.
func (j *ReminderJob) Run(ctx context.Context) error {
	clock := time.Now().In(j.tz).Format(timeutil.FormatClock)

	due, err := j.userRepo.ListReminderDue(ctx, clock)
	if err != nil {
		return fmt.Errorf("reminder job: list due users: %w", err)
	}

	var failed int
	for _, userID := range due {
		err := j.notifier.Reminder(ctx, userID,
			"Time to study!",
			"Your daily study session is waiting. A little progress every day adds up.",
		)
		if err != nil {
			failed++
			j.log.Warn("failed to send reminder", logger.UserID(userID.String()), logger.Err(err))
		}
	}

	if len(due) > 0 {
		j.log.Info("reminders sent",
			logger.String("clock", clock),
			logger.Int("due", len(due)),
			logger.Int("failed", failed),
		)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DEADLINE WARNING JOB
// Runs daily. Open tasks due within the warning window get a deadline
// notification. Repeat runs repeat the warning; nagging is the feature.
// ══════════════════════════════════════════════════════════════════════════════

// deadlineWindowDays is how far ahead the scan looks.
const deadlineWindowDays = 2

// DeadlineJob emits deadline warnings for tasks due soon.
type DeadlineJob struct {
	taskRepo task.Repository
	notifier *command.Notifier
	log      *logger.Logger
}

// NewDeadlineJob creates a DeadlineJob.
func NewDeadlineJob(taskRepo task.Repository, notifier *command.Notifier, log *logger.Logger) *DeadlineJob {
	if log == nil {
		log = logger.Default()
	}
	return &DeadlineJob{
		taskRepo: taskRepo,
		notifier: notifier,
		log:      log.With(logger.Component("deadline_job")),
	}
}

// Name identifies the job.
func (j *DeadlineJob) Name() string { return "deadline_warning" }

// Run warns about every open task due within the window.
func (j *DeadlineJob) Run(ctx context.Context) error {
	now := time.Now().UTC()

	due, err := j.taskRepo.ListDueWithin(ctx, now, deadlineWindowDays)
	if err != nil {
		return fmt.Errorf("deadline job: list due tasks: %w", err)
	}

	var failed int
	for _, t := range due {
		if t.DueDate == nil {
			continue
		}
		if err := j.notifier.DeadlineWarning(ctx, t.UserID, t.Title, *t.DueDate, now); err != nil {
			failed++
			j.log.Warn("failed to send deadline warning",
				logger.UserID(t.UserID.String()), logger.TaskID(t.ID.String()), logger.Err(err))
		}
	}

	if len(due) > 0 {
		j.log.Info("deadline warnings sent",
			logger.Int("due", len(due)),
			logger.Int("failed", failed),
		)
	}
	return nil
}
