package postgres

import (
	"context"
	"fmt"

	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/user"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// UserRepository implements user.Repository for PostgreSQL.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name,
			streak, total_study_time, last_active, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.conn.Exec(ctx, query,
		u.ID.String(),
		u.Email.String(),
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.Streak,
		u.TotalStudyTime,
		u.LastActive,
		u.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// FindByID returns a user by ID.
func (r *UserRepository) FindByID(ctx context.Context, id user.ID) (*user.User, error) {
	query := selectUserColumns + ` WHERE id = $1`
	return r.scanUser(r.conn.QueryRow(ctx, query, id.String()))
}

// FindByEmail returns a user by normalized email.
func (r *UserRepository) FindByEmail(ctx context.Context, email user.Email) (*user.User, error) {
	query := selectUserColumns + ` WHERE email = $1`
	return r.scanUser(r.conn.QueryRow(ctx, query, email.String()))
}

// Update persists mutable user fields.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users SET
			email = $1,
			password_hash = $2,
			first_name = $3,
			last_name = $4,
			streak = $5,
			total_study_time = $6,
			last_active = $7
		WHERE id = $8
	`

	result, err := r.conn.Exec(ctx, query,
		u.Email.String(),
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.Streak,
		u.TotalStudyTime,
		u.LastActive,
		u.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrUserNotFound
	}

	return nil
}

// Delete removes a user. Owned rows cascade via foreign keys.
func (r *UserRepository) Delete(ctx context.Context, id user.ID) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM users WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrUserNotFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Settings
// ─────────────────────────────────────────────────────────────────────────────

// SaveSettings upserts the settings row for a user.
func (r *UserRepository) SaveSettings(ctx context.Context, s *user.Settings) error {
	query := `
		INSERT INTO user_settings (
			user_id, theme, notifications_enabled, email_notifications,
			daily_goal, weekly_goal, reminder_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			theme = EXCLUDED.theme,
			notifications_enabled = EXCLUDED.notifications_enabled,
			email_notifications = EXCLUDED.email_notifications,
			daily_goal = EXCLUDED.daily_goal,
			weekly_goal = EXCLUDED.weekly_goal,
			reminder_time = EXCLUDED.reminder_time
	`

	_, err := r.conn.Exec(ctx, query,
		s.UserID.String(),
		string(s.Theme),
		s.NotificationsEnabled,
		s.EmailNotifications,
		s.DailyGoal,
		s.WeeklyGoal,
		s.ReminderTime,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}

// FindSettings loads the settings row for a user.
func (r *UserRepository) FindSettings(ctx context.Context, id user.ID) (*user.Settings, error) {
	query := `
		SELECT user_id, theme, notifications_enabled, email_notifications,
		       daily_goal, weekly_goal, reminder_time
		FROM user_settings
		WHERE user_id = $1
	`

	var (
		s      user.Settings
		userID string
		theme  string
	)
	err := r.conn.QueryRow(ctx, query, id.String()).Scan(
		&userID,
		&theme,
		&s.NotificationsEnabled,
		&s.EmailNotifications,
		&s.DailyGoal,
		&s.WeeklyGoal,
		&s.ReminderTime,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to find settings: %w", err)
	}

	s.UserID = user.ID(userID)
	s.Theme = user.Theme(theme)
	return &s, nil
}

// ListReminderDue returns users whose reminder clock matches and who have
// notifications enabled.
func (r *UserRepository) ListReminderDue(ctx context.Context, clock string) ([]user.ID, error) {
	query := `
		SELECT user_id FROM user_settings
		WHERE reminder_time = $1 AND notifications_enabled
	`

	rows, err := r.conn.Query(ctx, query, clock)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminder-due users: %w", err)
	}
	defer rows.Close()

	var ids []user.ID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, user.ID(id))
	}
	return ids, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

const selectUserColumns = `
	SELECT id, email, password_hash, first_name, last_name,
	       streak, total_study_time, last_active, created_at
	FROM users
`

func (r *UserRepository) scanUser(row pgx.Row) (*user.User, error) {
	var (
		u     user.User
		id    string
		email string
	)
	err := row.Scan(
		&id,
		&email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Streak,
		&u.TotalStudyTime,
		&u.LastActive,
		&u.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	u.ID = user.ID(id)
	u.Email = user.Email(email)
	return &u, nil
}
