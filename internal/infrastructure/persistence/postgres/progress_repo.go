package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/studymind/studymind-server/internal/domain/progress"
	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/user"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// DAILY PROGRESS REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ProgressRepository implements progress.Repository for PostgreSQL.
type ProgressRepository struct {
	conn *Connection
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(conn *Connection) *ProgressRepository {
	return &ProgressRepository{conn: conn}
}

// Accumulate upserts the (user, date) row and claims the goal flag in one
// transaction. The additive ON CONFLICT upsert serializes concurrent
// same-day calls on the unique constraint; the separate claim statement
// with "AND NOT goal_met" is the edge trigger, so exactly one caller ever
// observes goalJustMet = true for a given day.
func (r *ProgressRepository) Accumulate(
	ctx context.Context,
	userID user.ID,
	date time.Time,
	d progress.Delta,
	dailyGoal int,
	hasGoal bool,
) (*progress.DailyProgress, bool, error) {
	if err := d.Validate(); err != nil {
		return nil, false, err
	}

	var (
		row     *progress.DailyProgress
		justMet bool
	)

	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		upsert := `
			INSERT INTO daily_progress (
				user_id, date, study_time, materials_processed, tasks_completed, pages_read
			) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id, date) DO UPDATE SET
				study_time = daily_progress.study_time + EXCLUDED.study_time,
				materials_processed = daily_progress.materials_processed + EXCLUDED.materials_processed,
				tasks_completed = daily_progress.tasks_completed + EXCLUDED.tasks_completed,
				pages_read = daily_progress.pages_read + EXCLUDED.pages_read
			RETURNING study_time, materials_processed, tasks_completed, pages_read, goal_met
		`

		p := progress.NewDailyProgress(userID, date)
		err := tx.QueryRow(ctx, upsert,
			userID.String(),
			p.Date,
			d.StudyTime,
			d.MaterialsProcessed,
			d.TasksCompleted,
			d.PagesRead,
		).Scan(&p.StudyTime, &p.MaterialsProcessed, &p.TasksCompleted, &p.PagesRead, &p.GoalMet)
		if err != nil {
			return fmt.Errorf("failed to accumulate daily progress: %w", err)
		}

		// Without a settings row no goal exists and the flag stays false.
		if hasGoal && !p.GoalMet && p.StudyTime >= dailyGoal {
			claim := `
				UPDATE daily_progress SET goal_met = TRUE
				WHERE user_id = $1 AND date = $2 AND NOT goal_met
			`
			tag, err := tx.Exec(ctx, claim, userID.String(), p.Date)
			if err != nil {
				return fmt.Errorf("failed to claim goal flag: %w", err)
			}
			if tag.RowsAffected() == 1 {
				p.GoalMet = true
				justMet = true
			}
		}

		row = p
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return row, justMet, nil
}

// FindByDate loads the row for one day.
func (r *ProgressRepository) FindByDate(ctx context.Context, userID user.ID, date time.Time) (*progress.DailyProgress, error) {
	query := selectProgressColumns + ` WHERE user_id = $1 AND date = $2`

	p := progress.NewDailyProgress(userID, date)
	err := r.conn.QueryRow(ctx, query, userID.String(), p.Date).Scan(
		&p.Date, &p.StudyTime, &p.MaterialsProcessed, &p.TasksCompleted, &p.PagesRead, &p.GoalMet,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to find daily progress: %w", err)
	}
	return p, nil
}

// FindRange loads rows with from <= date <= to, ordered by date.
func (r *ProgressRepository) FindRange(ctx context.Context, userID user.ID, from, to time.Time) ([]*progress.DailyProgress, error) {
	query := selectProgressColumns + `
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := r.conn.Query(ctx, query, userID.String(), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress range: %w", err)
	}
	defer rows.Close()

	var result []*progress.DailyProgress
	for rows.Next() {
		p := &progress.DailyProgress{UserID: userID}
		err := rows.Scan(
			&p.Date, &p.StudyTime, &p.MaterialsProcessed, &p.TasksCompleted, &p.PagesRead, &p.GoalMet,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily progress: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

const selectProgressColumns = `
	SELECT date, study_time, materials_processed, tasks_completed, pages_read, goal_met
	FROM daily_progress
`
