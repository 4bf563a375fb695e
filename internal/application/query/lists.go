package query

import (
	"context"

	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/notification"
	"github.com/studymind/studymind-server/internal/domain/studysession"
	"github.com/studymind/studymind-server/internal/domain/task"
	"github.com/studymind/studymind-server/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST QUERIES
// Thin pagination wrappers over the repository filters. They exist so
// the HTTP layer never touches repositories directly.
// ══════════════════════════════════════════════════════════════════════════════

// ListMaterialsHandler lists a user's materials.
type ListMaterialsHandler struct {
	repo material.Repository
}

// NewListMaterialsHandler creates a new ListMaterialsHandler.
func NewListMaterialsHandler(repo material.Repository) *ListMaterialsHandler {
	return &ListMaterialsHandler{repo: repo}
}

// Handle returns a filtered page of materials, newest first.
func (h *ListMaterialsHandler) Handle(ctx context.Context, userID user.ID, filter material.ListFilter) ([]*material.Material, error) {
	return h.repo.ListByUser(ctx, userID, filter)
}

// ListTasksHandler lists a user's tasks.
type ListTasksHandler struct {
	repo task.Repository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(repo task.Repository) *ListTasksHandler {
	return &ListTasksHandler{repo: repo}
}

// Handle returns a filtered page of tasks.
func (h *ListTasksHandler) Handle(ctx context.Context, userID user.ID, filter task.ListFilter) ([]*task.Task, error) {
	return h.repo.ListByUser(ctx, userID, filter)
}

// ListSessionsHandler lists a user's study sessions.
type ListSessionsHandler struct {
	repo studysession.Repository
}

// NewListSessionsHandler creates a new ListSessionsHandler.
func NewListSessionsHandler(repo studysession.Repository) *ListSessionsHandler {
	return &ListSessionsHandler{repo: repo}
}

// Handle returns a filtered page of sessions.
func (h *ListSessionsHandler) Handle(ctx context.Context, userID user.ID, filter studysession.ListFilter) ([]*studysession.Session, error) {
	return h.repo.ListByUser(ctx, userID, filter)
}

// ListNotificationsHandler lists a user's notifications.
type ListNotificationsHandler struct {
	repo notification.Repository
}

// NewListNotificationsHandler creates a new ListNotificationsHandler.
func NewListNotificationsHandler(repo notification.Repository) *ListNotificationsHandler {
	return &ListNotificationsHandler{repo: repo}
}

// Handle returns a filtered page of notifications, newest first.
func (h *ListNotificationsHandler) Handle(ctx context.Context, userID user.ID, filter notification.ListFilter) ([]*notification.Notification, error) {
	return h.repo.ListByUser(ctx, userID, filter)
}
