package command

import (
	"context"

	"github.com/studymind/studymind-server/internal/domain/notification"
	"github.com/studymind/studymind-server/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION READ COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

// MarkNotificationReadHandler flips the read flag on one notification.
type MarkNotificationReadHandler struct {
	repo   notification.Repository
	unread UnreadCounter
}

// NewMarkNotificationReadHandler creates a new MarkNotificationReadHandler.
func NewMarkNotificationReadHandler(repo notification.Repository, unread UnreadCounter) *MarkNotificationReadHandler {
	return &MarkNotificationReadHandler{repo: repo, unread: unread}
}

// Handle marks one notification as read.
func (h *MarkNotificationReadHandler) Handle(ctx context.Context, userID user.ID, id notification.ID) error {
	if err := h.repo.MarkRead(ctx, userID, id); err != nil {
		return err
	}
	if h.unread != nil {
		_ = h.unread.Invalidate(ctx, userID)
	}
	return nil
}

// MarkAllNotificationsReadHandler clears the whole unread set.
type MarkAllNotificationsReadHandler struct {
	repo   notification.Repository
	unread UnreadCounter
}

// NewMarkAllNotificationsReadHandler creates a new MarkAllNotificationsReadHandler.
func NewMarkAllNotificationsReadHandler(repo notification.Repository, unread UnreadCounter) *MarkAllNotificationsReadHandler {
	return &MarkAllNotificationsReadHandler{repo: repo, unread: unread}
}

// Handle marks every unread notification of the user as read.
func (h *MarkAllNotificationsReadHandler) Handle(ctx context.Context, userID user.ID) error {
	if err := h.repo.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	if h.unread != nil {
		_ = h.unread.Invalidate(ctx, userID)
	}
	return nil
}
