// Package notification contains the user-facing event feed. Notifications
// are append-only side effects: nothing mutates them after creation except
// the read flag, and no deduplication happens here - callers are
// responsible for edge-triggering.
package notification

import (
	"fmt"
	"time"

	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/user"
	"github.com/studymind/studymind-server/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// ID is the unique identifier of a notification.
type ID string

// IsValid checks that the ID is not empty.
func (id ID) IsValid() bool {
	return len(id) > 0
}

// String returns the string representation of the ID.
func (id ID) String() string {
	return string(id)
}

// Kind is the notification type shown to the user.
type Kind string

const (
	KindUpdate      Kind = "update"
	KindSuccess     Kind = "success"
	KindWarning     Kind = "warning"
	KindAchievement Kind = "achievement"
	KindReminder    Kind = "reminder"
	KindError       Kind = "error"
)

// IsValid checks that the kind is known.
func (k Kind) IsValid() bool {
	switch k {
	case KindUpdate, KindSuccess, KindWarning, KindAchievement, KindReminder, KindError:
		return true
	default:
		return false
	}
}

// Frontend icon names per notification flavor.
const (
	IconAchievement     = "ri-trophy-line"
	IconReminder        = "ri-alarm-line"
	IconDeadlineWarning = "ri-calendar-event-line"
	IconSuccess         = "ri-check-line"
	IconStreak          = "ri-fire-line"
	IconDefault         = "ri-notification-3-line"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Notification is a user-owned feed message.
type Notification struct {
	ID        ID
	UserID    user.ID
	Kind      Kind
	Title     string
	Text      string
	Icon      string
	Read      bool
	CreatedAt time.Time
}

// NewParams holds parameters for creating a notification.
type NewParams struct {
	ID     ID
	UserID user.ID
	Kind   Kind
	Title  string
	Text   string
	Icon   string
}

// New creates an unread notification with validation.
func New(params NewParams) (*Notification, error) {
	if !params.ID.IsValid() {
		return nil, shared.NewDomainError("notification", "New", shared.ErrInvalidID, "empty notification id")
	}
	if !params.UserID.IsValid() {
		return nil, shared.NewDomainError("notification", "New", shared.ErrInvalidID, "empty user id")
	}
	if !params.Kind.IsValid() {
		return nil, shared.ErrInvalidKind
	}
	if params.Title == "" {
		return nil, shared.NewDomainError("notification", "New", shared.ErrEmptyValue, "title is required")
	}

	icon := params.Icon
	if icon == "" {
		icon = IconDefault
	}

	return &Notification{
		ID:        params.ID,
		UserID:    params.UserID,
		Kind:      params.Kind,
		Title:     params.Title,
		Text:      params.Text,
		Icon:      icon,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// MarkRead flips the read flag.
func (n *Notification) MarkRead() {
	n.Read = true
}

// ══════════════════════════════════════════════════════════════════════════════
// CONVENIENCE CONSTRUCTORS
// ══════════════════════════════════════════════════════════════════════════════

// NewAchievement builds an achievement notification with the trophy icon.
func NewAchievement(id ID, userID user.ID, title, text string) (*Notification, error) {
	return New(NewParams{
		ID:     id,
		UserID: userID,
		Kind:   KindAchievement,
		Title:  title,
		Text:   text,
		Icon:   IconAchievement,
	})
}

// NewStreakMilestone builds the achievement emitted when a streak hits a
// milestone day count.
func NewStreakMilestone(id ID, userID user.ID, days int) (*Notification, error) {
	return New(NewParams{
		ID:     id,
		UserID: userID,
		Kind:   KindAchievement,
		Title:  fmt.Sprintf("🔥 %d-Day Streak!", days),
		Text:   fmt.Sprintf("You have met your daily goal %d days in a row. Keep it up!", days),
		Icon:   IconAchievement,
	})
}

// NewReminder builds a study reminder with the alarm icon.
func NewReminder(id ID, userID user.ID, title, text string) (*Notification, error) {
	return New(NewParams{
		ID:     id,
		UserID: userID,
		Kind:   KindReminder,
		Title:  title,
		Text:   text,
		Icon:   IconReminder,
	})
}

// NewDeadlineWarning builds a warning for a task due at dueDate, computing
// days left relative to now: "Deadline in 1 day" / "Deadline in 3 days".
func NewDeadlineWarning(id ID, userID user.ID, taskTitle string, dueDate, now time.Time) (*Notification, error) {
	daysLeft := timeutil.DaysBetween(now, dueDate)
	if daysLeft < 0 {
		daysLeft = 0
	}
	return New(NewParams{
		ID:     id,
		UserID: userID,
		Kind:   KindWarning,
		Title:  fmt.Sprintf("Deadline in %s", timeutil.PluralDays(daysLeft)),
		Text:   fmt.Sprintf("Task %q is due on %s.", taskTitle, timeutil.FormatDateStr(dueDate)),
		Icon:   IconDeadlineWarning,
	})
}

// NewWelcome builds the notification created at registration.
func NewWelcome(id ID, userID user.ID, firstName string) (*Notification, error) {
	return New(NewParams{
		ID:     id,
		UserID: userID,
		Kind:   KindSuccess,
		Title:  "Welcome to StudyMind!",
		Text:   fmt.Sprintf("Hi %s, upload your first material to get started.", firstName),
		Icon:   IconSuccess,
	})
}
