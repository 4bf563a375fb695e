package postgres

import (
	"context"
	"fmt"

	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/studysession"
	"github.com/studymind/studymind-server/internal/domain/user"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDY SESSION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// SessionRepository implements studysession.Repository for PostgreSQL.
type SessionRepository struct {
	conn *Connection
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(conn *Connection) *SessionRepository {
	return &SessionRepository{conn: conn}
}

// Create inserts a new study session.
func (r *SessionRepository) Create(ctx context.Context, s *studysession.Session) error {
	query := `
		INSERT INTO study_sessions (
			id, user_id, material_id, activity, started_at, ended_at,
			duration, pages_covered, date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID.String(),
		s.UserID.String(),
		materialIDArg(s.MaterialID),
		string(s.Activity),
		s.StartedAt,
		s.EndedAt,
		s.Duration,
		s.PagesCovered,
		s.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to create study session: %w", err)
	}

	return nil
}

// FindByID returns a session owned by the given user.
func (r *SessionRepository) FindByID(ctx context.Context, userID user.ID, id studysession.ID) (*studysession.Session, error) {
	query := selectSessionColumns + ` WHERE user_id = $1 AND id = $2`
	return r.scanSession(r.conn.QueryRow(ctx, query, userID.String(), id.String()))
}

// Update persists session finalization.
func (r *SessionRepository) Update(ctx context.Context, s *studysession.Session) error {
	query := `
		UPDATE study_sessions SET
			material_id = $1,
			ended_at = $2,
			duration = $3,
			pages_covered = $4
		WHERE id = $5 AND user_id = $6
	`

	result, err := r.conn.Exec(ctx, query,
		materialIDArg(s.MaterialID),
		s.EndedAt,
		s.Duration,
		s.PagesCovered,
		s.ID.String(),
		s.UserID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update study session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrStudySessionNotFound
	}

	return nil
}

// ListByUser returns a filtered page of the user's sessions, newest first.
func (r *SessionRepository) ListByUser(ctx context.Context, userID user.ID, filter studysession.ListFilter) ([]*studysession.Session, error) {
	query := selectSessionColumns + ` WHERE user_id = $1`
	args := []interface{}{userID.String()}

	if filter.Activity != nil {
		args = append(args, string(*filter.Activity))
		query += fmt.Sprintf(" AND activity = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	query += " ORDER BY started_at DESC"
	query += paginate(&args, filter.Limit, filter.Offset)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list study sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*studysession.Session
	for rows.Next() {
		s, err := r.scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// UnlinkMaterial nulls the material reference on dependent sessions.
func (r *SessionRepository) UnlinkMaterial(ctx context.Context, materialID material.ID) error {
	_, err := r.conn.Exec(ctx,
		`UPDATE study_sessions SET material_id = NULL WHERE material_id = $1`,
		materialID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to unlink material from sessions: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

const selectSessionColumns = `
	SELECT id, user_id, material_id, activity, started_at, ended_at,
	       duration, pages_covered, date
	FROM study_sessions
`

func (r *SessionRepository) scanSession(row pgx.Row) (*studysession.Session, error) {
	var (
		s          studysession.Session
		id         string
		userID     string
		materialID *string
		activity   string
	)
	err := row.Scan(
		&id,
		&userID,
		&materialID,
		&activity,
		&s.StartedAt,
		&s.EndedAt,
		&s.Duration,
		&s.PagesCovered,
		&s.Date,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStudySessionNotFound
		}
		return nil, fmt.Errorf("failed to scan study session: %w", err)
	}

	s.ID = studysession.ID(id)
	s.UserID = user.ID(userID)
	s.Activity = studysession.Activity(activity)
	if materialID != nil {
		mid := material.ID(*materialID)
		s.MaterialID = &mid
	}
	return &s, nil
}
