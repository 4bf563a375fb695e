package command

import (
	"context"
	"fmt"

	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/studysession"
	"github.com/studymind/studymind-server/internal/domain/user"
	"github.com/studymind/studymind-server/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDY SESSION COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

// StartSessionCommand opens a study session.
type StartSessionCommand struct {
	UserID     user.ID
	MaterialID *material.ID
	Activity   studysession.Activity
}

// StartSessionHandler handles the StartSessionCommand.
type StartSessionHandler struct {
	sessionRepo  studysession.Repository
	materialRepo material.Repository
}

// NewStartSessionHandler creates a new StartSessionHandler.
func NewStartSessionHandler(sessionRepo studysession.Repository, materialRepo material.Repository) *StartSessionHandler {
	return &StartSessionHandler{sessionRepo: sessionRepo, materialRepo: materialRepo}
}

// Handle opens a session, verifying the material link when present.
func (h *StartSessionHandler) Handle(ctx context.Context, cmd StartSessionCommand) (*studysession.Session, error) {
	if cmd.MaterialID != nil {
		if _, err := h.materialRepo.FindByID(ctx, cmd.UserID, *cmd.MaterialID); err != nil {
			return nil, err
		}
	}

	s, err := studysession.NewSession(studysession.NewSessionParams{
		ID:         studysession.ID(newID()),
		UserID:     cmd.UserID,
		MaterialID: cmd.MaterialID,
		Activity:   cmd.Activity,
	})
	if err != nil {
		return nil, err
	}

	if err := h.sessionRepo.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// End session
// ─────────────────────────────────────────────────────────────────────────────

// EndSessionCommand finalizes a session with its reported duration.
type EndSessionCommand struct {
	UserID    user.ID
	SessionID studysession.ID

	// Duration is the session length in minutes as reported by the client.
	Duration int

	PagesCovered int
}

// EndSessionHandler handles the EndSessionCommand.
type EndSessionHandler struct {
	sessionRepo studysession.Repository
	userRepo    user.Repository
	activity    *RecordActivityHandler
	log         *logger.Logger
}

// NewEndSessionHandler creates a new EndSessionHandler.
func NewEndSessionHandler(
	sessionRepo studysession.Repository,
	userRepo user.Repository,
	activity *RecordActivityHandler,
	log *logger.Logger,
) *EndSessionHandler {
	if log == nil {
		log = logger.Default()
	}
	return &EndSessionHandler{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		activity:    activity,
		log:         log.With(logger.Component("end_session")),
	}
}

// Handle finalizes the session exactly once. A second end call for the
// same session is rejected with a conflict instead of double-counting
// study time. The duration then feeds the lifetime total and today's
// progress row.
func (h *EndSessionHandler) Handle(ctx context.Context, cmd EndSessionCommand) (*studysession.Session, error) {
	s, err := h.sessionRepo.FindByID(ctx, cmd.UserID, cmd.SessionID)
	if err != nil {
		return nil, err
	}

	if err := s.End(cmd.Duration, cmd.PagesCovered); err != nil {
		return nil, err
	}
	if err := h.sessionRepo.Update(ctx, s); err != nil {
		return nil, err
	}

	u, err := h.userRepo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	u.AddStudyTime(s.Duration)
	u.Touch()
	if err := h.userRepo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("end session: update user totals: %w", err)
	}

	if h.activity != nil {
		// Credited to the day the session ends: a session spanning
		// midnight must not reopen yesterday's goal edge.
		if _, err := h.activity.Handle(ctx, RecordActivityCommand{
			UserID:    cmd.UserID,
			StudyTime: s.Duration,
			PagesRead: s.PagesCovered,
		}); err != nil {
			return nil, fmt.Errorf("end session: record activity: %w", err)
		}
	}

	h.log.Info("session ended",
		logger.UserID(cmd.UserID.String()),
		logger.SessionID(cmd.SessionID.String()),
		logger.Int("duration_minutes", s.Duration),
	)

	return s, nil
}
