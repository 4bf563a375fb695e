package postgres

import (
	"context"
	"fmt"

	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/user"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MATERIAL REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// MaterialRepository implements material.Repository for PostgreSQL.
type MaterialRepository struct {
	conn *Connection
}

// NewMaterialRepository creates a new MaterialRepository.
func NewMaterialRepository(conn *Connection) *MaterialRepository {
	return &MaterialRepository{conn: conn}
}

// Create inserts a new material.
func (r *MaterialRepository) Create(ctx context.Context, m *material.Material) error {
	query := `
		INSERT INTO materials (
			id, user_id, name, storage_path, file_type, size, page_count,
			status, extracted_text, subject, tags, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.conn.Exec(ctx, query,
		m.ID.String(),
		m.UserID.String(),
		m.Name,
		m.StoragePath,
		string(m.FileType),
		m.Size,
		m.PageCount,
		string(m.Status),
		m.ExtractedText,
		m.Subject,
		m.TagsStored(),
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create material: %w", err)
	}

	return nil
}

// FindByID returns a material owned by the given user.
func (r *MaterialRepository) FindByID(ctx context.Context, userID user.ID, id material.ID) (*material.Material, error) {
	query := selectMaterialColumns + ` WHERE user_id = $1 AND id = $2`
	return r.scanMaterial(r.conn.QueryRow(ctx, query, userID.String(), id.String()))
}

// Update persists mutable material fields.
func (r *MaterialRepository) Update(ctx context.Context, m *material.Material) error {
	query := `
		UPDATE materials SET
			name = $1,
			storage_path = $2,
			page_count = $3,
			status = $4,
			extracted_text = $5,
			subject = $6,
			tags = $7,
			updated_at = $8
		WHERE id = $9 AND user_id = $10
	`

	result, err := r.conn.Exec(ctx, query,
		m.Name,
		m.StoragePath,
		m.PageCount,
		string(m.Status),
		m.ExtractedText,
		m.Subject,
		m.TagsStored(),
		m.UpdatedAt,
		m.ID.String(),
		m.UserID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update material: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrMaterialNotFound
	}

	return nil
}

// Delete removes a material. Task and session back-references are nulled
// by the ON DELETE SET NULL foreign keys, not cascaded.
func (r *MaterialRepository) Delete(ctx context.Context, userID user.ID, id material.ID) error {
	result, err := r.conn.Exec(ctx,
		`DELETE FROM materials WHERE user_id = $1 AND id = $2`,
		userID.String(), id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete material: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrMaterialNotFound
	}
	return nil
}

// ListByUser returns a filtered page of the user's materials, newest first.
func (r *MaterialRepository) ListByUser(ctx context.Context, userID user.ID, filter material.ListFilter) ([]*material.Material, error) {
	query := selectMaterialColumns + ` WHERE user_id = $1`
	args := []interface{}{userID.String()}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Subject != "" {
		args = append(args, filter.Subject)
		query += fmt.Sprintf(" AND subject = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"
	query += paginate(&args, filter.Limit, filter.Offset)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	defer rows.Close()

	var materials []*material.Material
	for rows.Next() {
		m, err := r.scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

// CountByUser returns the user's total material count.
func (r *MaterialRepository) CountByUser(ctx context.Context, userID user.ID) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM materials WHERE user_id = $1`,
		userID.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count materials: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

const selectMaterialColumns = `
	SELECT id, user_id, name, storage_path, file_type, size, page_count,
	       status, extracted_text, subject, tags, created_at, updated_at
	FROM materials
`

func (r *MaterialRepository) scanMaterial(row pgx.Row) (*material.Material, error) {
	var (
		m        material.Material
		id       string
		userID   string
		fileType string
		status   string
		tags     string
	)
	err := row.Scan(
		&id,
		&userID,
		&m.Name,
		&m.StoragePath,
		&fileType,
		&m.Size,
		&m.PageCount,
		&status,
		&m.ExtractedText,
		&m.Subject,
		&tags,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrMaterialNotFound
		}
		return nil, fmt.Errorf("failed to scan material: %w", err)
	}

	m.ID = material.ID(id)
	m.UserID = user.ID(userID)
	m.FileType = material.FileType(fileType)
	m.Status = material.Status(status)
	m.Tags = material.SplitTags(tags)
	return &m, nil
}

// paginate appends LIMIT/OFFSET clauses, defaulting the page size.
func paginate(args *[]interface{}, limit, offset int) string {
	if limit <= 0 {
		limit = 50
	}
	*args = append(*args, limit)
	clause := fmt.Sprintf(" LIMIT $%d", len(*args))
	if offset > 0 {
		*args = append(*args, offset)
		clause += fmt.Sprintf(" OFFSET $%d", len(*args))
	}
	return clause
}
