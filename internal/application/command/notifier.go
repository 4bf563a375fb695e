package command

import (
	"context"
	"time"

	"github.com/studymind/studymind-server/internal/domain/notification"
	"github.com/studymind/studymind-server/internal/domain/user"
	"github.com/studymind/studymind-server/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION EMITTER
// Single write path for notifications. Every emit appends a new row and
// bumps the cached unread counter; there is no deduplication, repeated
// triggers produce repeated notifications.
// ══════════════════════════════════════════════════════════════════════════════

// Notifier emits notifications on behalf of command handlers and jobs.
type Notifier struct {
	repo   notification.Repository
	unread UnreadCounter
	log    *logger.Logger
}

// NewNotifier creates a Notifier.
func NewNotifier(repo notification.Repository, unread UnreadCounter, log *logger.Logger) *Notifier {
	if log == nil {
		log = logger.Default()
	}
	return &Notifier{
		repo:   repo,
		unread: unread,
		log:    log.With(logger.Component("notifier")),
	}
}

// Emit persists a notification and bumps the unread counter. Counter
// failures are logged, not surfaced; PostgreSQL is the source of truth.
func (n *Notifier) Emit(ctx context.Context, note *notification.Notification) error {
	if err := n.repo.Create(ctx, note); err != nil {
		return err
	}
	if n.unread != nil {
		if err := n.unread.Increment(ctx, note.UserID); err != nil {
			n.log.Warn("failed to bump unread counter",
				logger.UserID(note.UserID.String()), logger.Err(err))
		}
	}
	return nil
}

// Achievement emits an achievement notification.
func (n *Notifier) Achievement(ctx context.Context, userID user.ID, title, text string) error {
	note, err := notification.NewAchievement(notification.ID(newID()), userID, title, text)
	if err != nil {
		return err
	}
	return n.Emit(ctx, note)
}

// StreakMilestone emits the fire-streak achievement for a milestone day.
func (n *Notifier) StreakMilestone(ctx context.Context, userID user.ID, days int) error {
	note, err := notification.NewStreakMilestone(notification.ID(newID()), userID, days)
	if err != nil {
		return err
	}
	return n.Emit(ctx, note)
}

// Reminder emits a study reminder.
func (n *Notifier) Reminder(ctx context.Context, userID user.ID, title, text string) error {
	note, err := notification.NewReminder(notification.ID(newID()), userID, title, text)
	if err != nil {
		return err
	}
	return n.Emit(ctx, note)
}

// DeadlineWarning emits a deadline warning for a due task.
func (n *Notifier) DeadlineWarning(ctx context.Context, userID user.ID, taskTitle string, dueDate, now time.Time) error {
	note, err := notification.NewDeadlineWarning(notification.ID(newID()), userID, taskTitle, dueDate, now)
	if err != nil {
		return err
	}
	return n.Emit(ctx, note)
}

// Welcome emits the registration greeting.
func (n *Notifier) Welcome(ctx context.Context, userID user.ID, firstName string) error {
	note, err := notification.NewWelcome(notification.ID(newID()), userID, firstName)
	if err != nil {
		return err
	}
	return n.Emit(ctx, note)
}
