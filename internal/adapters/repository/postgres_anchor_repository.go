package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dferrante/anchorline/internal/core/domain"
)

type PostgresAnchorRepository struct {
	db *sqlx.DB
}

func NewPostgresAnchorRepository(db *sqlx.DB) *PostgresAnchorRepository {
	return &PostgresAnchorRepository{db: db}
}

const anchorInsert = `
	INSERT INTO anchors (id, user_id, name, icon, color, is_default, created_at)
	VALUES (:id, :user_id, :name, :icon, :color, :is_default, :created_at)`

func (r *PostgresAnchorRepository) Create(ctx context.Context, anchor *domain.Anchor) error {
	if _, err := r.db.NamedExecContext(ctx, anchorInsert, anchor); err != nil {
		return fmt.Errorf("failed to insert anchor: %w", err)
	}
	return nil
}

// CreateBatch inserts the whole set in one transaction; the default seed is
// all-or-nothing.
func (r *PostgresAnchorRepository) CreateBatch(ctx context.Context, anchors []*domain.Anchor) error {
	if len(anchors) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx failed: %w", err)
	}
	defer tx.Rollback()

	for _, anchor := range anchors {
		if _, err := tx.NamedExecContext(ctx, anchorInsert, anchor); err != nil {
			return fmt.Errorf("failed to insert anchor %s: %w", anchor.Name, err)
		}
	}

	return tx.Commit()
}

func (r *PostgresAnchorRepository) GetByID(ctx context.Context, id string) (*domain.Anchor, error) {
	query := `
		SELECT id, user_id, name, icon, color, is_default, created_at
		FROM anchors
		WHERE id = $1`

	var anchor domain.Anchor
	if err := r.db.GetContext(ctx, &anchor, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAnchorNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}
	return &anchor, nil
}

func (r *PostgresAnchorRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Anchor, error) {
	query := `
		SELECT id, user_id, name, icon, color, is_default, created_at
		FROM anchors
		WHERE user_id = $1
		ORDER BY created_at ASC`

	var anchors []*domain.Anchor
	if err := r.db.SelectContext(ctx, &anchors, query, userID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return anchors, nil
}

func (r *PostgresAnchorRepository) Update(ctx context.Context, anchor *domain.Anchor) error {
	query := `
		UPDATE anchors
		SET name = :name, icon = :icon, color = :color
		WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, anchor)
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrAnchorNotFound
	}
	return nil
}

func (r *PostgresAnchorRepository) Delete(ctx context.Context, id string) error {
	// task_anchors rows referencing this anchor cascade away; tasks keep
	// living without the label.
	res, err := r.db.ExecContext(ctx, `DELETE FROM anchors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrAnchorNotFound
	}
	return nil
}
