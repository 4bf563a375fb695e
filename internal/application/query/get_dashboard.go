// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"

	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/notification"
	"github.com/studymind/studymind-server/internal/domain/progress"
	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/task"
	"github.com/studymind/studymind-server/internal/domain/user"
	"github.com/studymind/studymind-server/pkg/logger"
	"github.com/studymind/studymind-server/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET DASHBOARD QUERY
// The home-screen aggregate: today's progress, streak, totals and the
// most recent materials and tasks.
// ══════════════════════════════════════════════════════════════════════════════

// UnreadCache is the read side of the unread-counter cache. Any Get
// error counts as a miss; PostgreSQL is the source of truth.
type UnreadCache interface {
	Get(ctx context.Context, userID user.ID) (int, error)
	Set(ctx context.Context, userID user.ID, count int) error
}

// recentLimit bounds the dashboard lists.
const recentLimit = 5

// DashboardResult is the aggregated dashboard payload.
type DashboardResult struct {
	User     *user.User
	Settings *user.Settings

	// Today is never nil; a day without activity is a zero-valued row.
	Today *progress.DailyProgress

	RecentMaterials []*material.Material
	OpenTasks       []*task.Task
	UnreadCount     int
}

// GetDashboardHandler handles dashboard reads.
type GetDashboardHandler struct {
	userRepo     user.Repository
	progressRepo progress.Repository
	materialRepo material.Repository
	taskRepo     task.Repository
	notifRepo    notification.Repository
	unreadCache  UnreadCache
	log          *logger.Logger
}

// NewGetDashboardHandler creates a new GetDashboardHandler.
func NewGetDashboardHandler(
	userRepo user.Repository,
	progressRepo progress.Repository,
	materialRepo material.Repository,
	taskRepo task.Repository,
	notifRepo notification.Repository,
	unreadCache UnreadCache,
	log *logger.Logger,
) *GetDashboardHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetDashboardHandler{
		userRepo:     userRepo,
		progressRepo: progressRepo,
		materialRepo: materialRepo,
		taskRepo:     taskRepo,
		notifRepo:    notifRepo,
		unreadCache:  unreadCache,
		log:          log.With(logger.Component("get_dashboard")),
	}
}

// Handle builds the dashboard for a user.
func (h *GetDashboardHandler) Handle(ctx context.Context, userID user.ID) (*DashboardResult, error) {
	u, err := h.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &DashboardResult{User: u}

	settings, err := h.userRepo.FindSettings(ctx, userID)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	result.Settings = settings

	today, err := h.progressRepo.FindByDate(ctx, userID, timeutil.Today())
	if err != nil {
		if !errors.Is(err, shared.ErrProgressNotFound) {
			return nil, err
		}
		today = progress.NewDailyProgress(userID, timeutil.Today())
	}
	result.Today = today

	result.RecentMaterials, err = h.materialRepo.ListByUser(ctx, userID, material.ListFilter{Limit: recentLimit})
	if err != nil {
		return nil, err
	}

	open := false
	result.OpenTasks, err = h.taskRepo.ListByUser(ctx, userID, task.ListFilter{Completed: &open, Limit: recentLimit})
	if err != nil {
		return nil, err
	}

	result.UnreadCount = h.unreadCount(ctx, userID)

	return result, nil
}

// unreadCount serves the counter from cache, re-priming on a miss.
func (h *GetDashboardHandler) unreadCount(ctx context.Context, userID user.ID) int {
	if h.unreadCache != nil {
		if count, err := h.unreadCache.Get(ctx, userID); err == nil {
			return count
		}
	}

	count, err := h.notifRepo.CountUnread(ctx, userID)
	if err != nil {
		h.log.Warn("failed to count unread notifications",
			logger.UserID(userID.String()), logger.Err(err))
		return 0
	}

	if h.unreadCache != nil {
		if err := h.unreadCache.Set(ctx, userID, count); err != nil {
			h.log.Warn("failed to prime unread cache",
				logger.UserID(userID.String()), logger.Err(err))
		}
	}
	return count
}
