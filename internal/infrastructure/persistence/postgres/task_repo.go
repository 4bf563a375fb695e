package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/task"
	"github.com/studymind/studymind-server/internal/domain/user"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// TASK REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// TaskRepository implements task.Repository for PostgreSQL.
type TaskRepository struct {
	conn *Connection
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(conn *Connection) *TaskRepository {
	return &TaskRepository{conn: conn}
}

// Create inserts a new task.
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	query := `
		INSERT INTO tasks (
			id, user_id, material_id, title, task_type, completed,
			completed_at, due_date, estimated_minutes, priority, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.conn.Exec(ctx, query,
		t.ID.String(),
		t.UserID.String(),
		materialIDArg(t.MaterialID),
		t.Title,
		t.TaskType,
		t.Completed,
		t.CompletedAt,
		t.DueDate,
		t.EstimatedMinutes,
		string(t.Priority),
		t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// FindByID returns a task owned by the given user.
func (r *TaskRepository) FindByID(ctx context.Context, userID user.ID, id task.ID) (*task.Task, error) {
	query := selectTaskColumns + ` WHERE user_id = $1 AND id = $2`
	return r.scanTask(r.conn.QueryRow(ctx, query, userID.String(), id.String()))
}

// Update persists mutable task fields.
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	query := `
		UPDATE tasks SET
			material_id = $1,
			title = $2,
			task_type = $3,
			completed = $4,
			completed_at = $5,
			due_date = $6,
			estimated_minutes = $7,
			priority = $8
		WHERE id = $9 AND user_id = $10
	`

	result, err := r.conn.Exec(ctx, query,
		materialIDArg(t.MaterialID),
		t.Title,
		t.TaskType,
		t.Completed,
		t.CompletedAt,
		t.DueDate,
		t.EstimatedMinutes,
		string(t.Priority),
		t.ID.String(),
		t.UserID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrTaskNotFound
	}

	return nil
}

// Delete removes a task.
func (r *TaskRepository) Delete(ctx context.Context, userID user.ID, id task.ID) error {
	result, err := r.conn.Exec(ctx,
		`DELETE FROM tasks WHERE user_id = $1 AND id = $2`,
		userID.String(), id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrTaskNotFound
	}
	return nil
}

// ListByUser returns a filtered page of the user's tasks.
func (r *TaskRepository) ListByUser(ctx context.Context, userID user.ID, filter task.ListFilter) ([]*task.Task, error) {
	query := selectTaskColumns + ` WHERE user_id = $1`
	args := []interface{}{userID.String()}

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		query += fmt.Sprintf(" AND completed = $%d", len(args))
	}
	if filter.DueBefore != nil {
		args = append(args, *filter.DueBefore)
		query += fmt.Sprintf(" AND due_date <= $%d", len(args))
	}
	if filter.DueAfter != nil {
		args = append(args, *filter.DueAfter)
		query += fmt.Sprintf(" AND due_date >= $%d", len(args))
	}

	query += " ORDER BY due_date ASC NULLS LAST, created_at DESC"
	query += paginate(&args, filter.Limit, filter.Offset)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	return r.collectTasks(rows)
}

// ListDueWithin returns open tasks across all users due inside the window.
func (r *TaskRepository) ListDueWithin(ctx context.Context, now time.Time, days int) ([]*task.Task, error) {
	query := selectTaskColumns + `
		WHERE NOT completed
		  AND due_date IS NOT NULL
		  AND due_date >= $1
		  AND due_date <= $2
		ORDER BY due_date ASC
	`

	rows, err := r.conn.Query(ctx, query, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, fmt.Errorf("failed to list due tasks: %w", err)
	}
	defer rows.Close()

	return r.collectTasks(rows)
}

// UnlinkMaterial nulls the material reference on dependent tasks.
func (r *TaskRepository) UnlinkMaterial(ctx context.Context, materialID material.ID) error {
	_, err := r.conn.Exec(ctx,
		`UPDATE tasks SET material_id = NULL WHERE material_id = $1`,
		materialID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to unlink material from tasks: %w", err)
	}
	return nil
}

// CountByUser counts the user's tasks, optionally by completion flag.
func (r *TaskRepository) CountByUser(ctx context.Context, userID user.ID, completed *bool) (int, error) {
	query := `SELECT COUNT(*) FROM tasks WHERE user_id = $1`
	args := []interface{}{userID.String()}
	if completed != nil {
		args = append(args, *completed)
		query += fmt.Sprintf(" AND completed = $%d", len(args))
	}

	var count int
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

const selectTaskColumns = `
	SELECT id, user_id, material_id, title, task_type, completed,
	       completed_at, due_date, estimated_minutes, priority, created_at
	FROM tasks
`

func (r *TaskRepository) scanTask(row pgx.Row) (*task.Task, error) {
	var (
		t          task.Task
		id         string
		userID     string
		materialID *string
		priority   string
	)
	err := row.Scan(
		&id,
		&userID,
		&materialID,
		&t.Title,
		&t.TaskType,
		&t.Completed,
		&t.CompletedAt,
		&t.DueDate,
		&t.EstimatedMinutes,
		&priority,
		&t.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	t.ID = task.ID(id)
	t.UserID = user.ID(userID)
	t.Priority = task.Priority(priority)
	if materialID != nil {
		mid := material.ID(*materialID)
		t.MaterialID = &mid
	}
	return &t, nil
}

func (r *TaskRepository) collectTasks(rows pgx.Rows) ([]*task.Task, error) {
	var tasks []*task.Task
	for rows.Next() {
		t, err := r.scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// materialIDArg converts an optional material ID to a nullable SQL arg.
func materialIDArg(id *material.ID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
