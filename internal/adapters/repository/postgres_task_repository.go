package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dferrante/anchorline/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresTaskRepository struct {
	db *sqlx.DB
}

func NewPostgresTaskRepository(db *sqlx.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

const taskColumns = `
	id, user_id, title, description, status, priority,
	due_date, due_time, time_estimate,
	scheduled_start, scheduled_end, is_fixed,
	completed_at, archived_at, created_at, updated_at`

func (r *PostgresTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES (
			:id, :user_id, :title, :description, :status, :priority,
			:due_date, :due_time, :time_estimate,
			:scheduled_start, :scheduled_end, :is_fixed,
			:completed_at, :archived_at, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, task); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	var task domain.Task
	if err := r.db.GetContext(ctx, &task, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	if err := r.attachAnchors(ctx, []*domain.Task{&task}); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *PostgresTaskRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC`

	var tasks []*domain.Task
	if err := r.db.SelectContext(ctx, &tasks, query, userID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	if err := r.attachAnchors(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *PostgresTaskRepository) ListForDay(ctx context.Context, userID string, day time.Time) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = $1
		  AND status != $2
		  AND (due_date = $3 OR scheduled_start IS NOT NULL)
		ORDER BY scheduled_start NULLS LAST, priority ASC`

	var tasks []*domain.Task
	if err := r.db.SelectContext(ctx, &tasks, query, userID, domain.TaskStatusArchived, day); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	if err := r.attachAnchors(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *PostgresTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks SET
			title = :title, description = :description,
			status = :status, priority = :priority,
			due_date = :due_date, due_time = :due_time, time_estimate = :time_estimate,
			scheduled_start = :scheduled_start, scheduled_end = :scheduled_end, is_fixed = :is_fixed,
			completed_at = :completed_at, archived_at = :archived_at,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, task)
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id string) error {
	// task_anchors rows go with the task via ON DELETE CASCADE.
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// ReplaceAnchors rewrites the task's anchor links in one transaction so a
// reader never observes a half-replaced set.
func (r *PostgresTaskRepository) ReplaceAnchors(ctx context.Context, taskID string, anchorIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx failed: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_anchors WHERE task_id = $1`, taskID); err != nil {
		return fmt.Errorf("clearing anchor links failed: %w", err)
	}

	for _, anchorID := range anchorIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO task_anchors (task_id, anchor_id) VALUES ($1, $2)`,
			taskID, anchorID)
		if err != nil {
			return fmt.Errorf("inserting anchor link failed: %w", err)
		}
	}

	return tx.Commit()
}

type taskAnchorRow struct {
	TaskID string `db:"task_id"`
	domain.AnchorInfo
}

func (r *PostgresTaskRepository) attachAnchors(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]string, len(tasks))
	byID := make(map[string]*domain.Task, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
		byID[t.ID] = t
		t.Anchors = []domain.AnchorInfo{}
	}

	query := `
		SELECT ta.task_id, a.id, a.name, a.icon, a.color
		FROM task_anchors ta
		JOIN anchors a ON a.id = ta.anchor_id
		WHERE ta.task_id = ANY($1)
		ORDER BY a.created_at ASC`

	var rows []taskAnchorRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("anchor join query failed: %w", err)
	}

	for _, row := range rows {
		if t, ok := byID[row.TaskID]; ok {
			t.Anchors = append(t.Anchors, row.AnchorInfo)
		}
	}
	return nil
}
