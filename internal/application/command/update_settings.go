package command

import (
	"context"

	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/user"
	"github.com/studymind/studymind-server/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE SETTINGS COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// UpdateSettingsCommand carries a partial settings update. Nil fields
// keep their current value.
type UpdateSettingsCommand struct {
	UserID user.ID

	Theme                *string
	NotificationsEnabled *bool
	EmailNotifications   *bool
	DailyGoal            *int
	WeeklyGoal           *int
	ReminderTime         *string
}

// UpdateSettingsHandler handles the UpdateSettingsCommand.
type UpdateSettingsHandler struct {
	userRepo user.Repository
}

// NewUpdateSettingsHandler creates a new UpdateSettingsHandler.
func NewUpdateSettingsHandler(userRepo user.Repository) *UpdateSettingsHandler {
	return &UpdateSettingsHandler{userRepo: userRepo}
}

// Handle merges the update into the stored settings, creating the row
// from defaults when the user has none yet.
func (h *UpdateSettingsHandler) Handle(ctx context.Context, cmd UpdateSettingsCommand) (*user.Settings, error) {
	if _, err := h.userRepo.FindByID(ctx, cmd.UserID); err != nil {
		return nil, err
	}

	settings, err := h.userRepo.FindSettings(ctx, cmd.UserID)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, err
		}
		settings = user.DefaultSettings(cmd.UserID)
	}

	if cmd.Theme != nil {
		settings.Theme = user.Theme(*cmd.Theme)
	}
	if cmd.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *cmd.NotificationsEnabled
	}
	if cmd.EmailNotifications != nil {
		settings.EmailNotifications = *cmd.EmailNotifications
	}
	if cmd.DailyGoal != nil {
		settings.DailyGoal = *cmd.DailyGoal
	}
	if cmd.WeeklyGoal != nil {
		settings.WeeklyGoal = *cmd.WeeklyGoal
	}
	if cmd.ReminderTime != nil {
		if _, err := timeutil.ParseClock(*cmd.ReminderTime); err != nil {
			return nil, shared.NewDomainError("user", "UpdateSettings", shared.ErrInvalidFormat, "reminder time must be HH:MM")
		}
		settings.ReminderTime = *cmd.ReminderTime
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := h.userRepo.SaveSettings(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE USER COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// DeleteUserHandler removes an account. Owned materials, tasks, sessions,
// progress rows and notifications cascade at the storage level.
type DeleteUserHandler struct {
	userRepo user.Repository
	unread   UnreadCounter
}

// NewDeleteUserHandler creates a new DeleteUserHandler.
func NewDeleteUserHandler(userRepo user.Repository, unread UnreadCounter) *DeleteUserHandler {
	return &DeleteUserHandler{userRepo: userRepo, unread: unread}
}

// Handle deletes the user and drops their cached counters.
func (h *DeleteUserHandler) Handle(ctx context.Context, userID user.ID) error {
	if err := h.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	if h.unread != nil {
		_ = h.unread.Invalidate(ctx, userID)
	}
	return nil
}
