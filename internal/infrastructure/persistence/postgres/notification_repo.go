package postgres

import (
	"context"
	"fmt"

	"github.com/studymind/studymind-server/internal/domain/notification"
	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/user"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// NotificationRepository implements notification.Repository for PostgreSQL.
type NotificationRepository struct {
	conn *Connection
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(conn *Connection) *NotificationRepository {
	return &NotificationRepository{conn: conn}
}

// Create appends a notification row.
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, kind, title, text, icon, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.conn.Exec(ctx, query,
		n.ID.String(),
		n.UserID.String(),
		string(n.Kind),
		n.Title,
		n.Text,
		n.Icon,
		n.Read,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// FindByID returns a notification owned by the given user.
func (r *NotificationRepository) FindByID(ctx context.Context, userID user.ID, id notification.ID) (*notification.Notification, error) {
	query := selectNotificationColumns + ` WHERE user_id = $1 AND id = $2`
	return r.scanNotification(r.conn.QueryRow(ctx, query, userID.String(), id.String()))
}

// ListByUser returns a filtered page of notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID user.ID, filter notification.ListFilter) ([]*notification.Notification, error) {
	query := selectNotificationColumns + ` WHERE user_id = $1`
	args := []interface{}{userID.String()}

	if filter.Unread != nil {
		args = append(args, !*filter.Unread)
		query += fmt.Sprintf(" AND read = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"
	query += paginate(&args, filter.Limit, filter.Offset)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		n, err := r.scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead flips the read flag on one notification.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID user.ID, id notification.ID) error {
	result, err := r.conn.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND id = $2`,
		userID.String(), id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead flips the read flag on every unread notification of the user.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID user.ID) error {
	_, err := r.conn.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND NOT read`,
		userID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return nil
}

// CountUnread returns the user's unread notification count.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID user.ID) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT read`,
		userID.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

const selectNotificationColumns = `
	SELECT id, user_id, kind, title, text, icon, read, created_at
	FROM notifications
`

func (r *NotificationRepository) scanNotification(row pgx.Row) (*notification.Notification, error) {
	var (
		n      notification.Notification
		id     string
		userID string
		kind   string
	)
	err := row.Scan(
		&id,
		&userID,
		&kind,
		&n.Title,
		&n.Text,
		&n.Icon,
		&n.Read,
		&n.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to scan notification: %w", err)
	}

	n.ID = notification.ID(id)
	n.UserID = user.ID(userID)
	n.Kind = notification.Kind(kind)
	return &n, nil
}
