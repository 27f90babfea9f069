package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dferrante/anchorline/internal/core/dateutil"
	"github.com/dferrante/anchorline/internal/core/domain"
)

// PostgresStreakRepository persists the activity ledger. Every write is a
// single INSERT ... ON CONFLICT statement keyed on (user_id, date), so
// concurrent task events for the same day serialize inside Postgres instead
// of racing through read-modify-write in Go.
type PostgresStreakRepository struct {
	db *sqlx.DB
}

func NewPostgresStreakRepository(db *sqlx.DB) *PostgresStreakRepository {
	return &PostgresStreakRepository{db: db}
}

func (r *PostgresStreakRepository) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]*domain.DailyRecord, error) {
	query := `
		SELECT id, user_id, date, tasks_completed, total_tasks, goal_met
		FROM daily_records
		WHERE user_id = $1 AND date >= $2`

	var records []*domain.DailyRecord
	if err := r.db.SelectContext(ctx, &records, query, userID, dateutil.ToUTCMidnight(since)); err != nil {
		return nil, fmt.Errorf("ledger query error: %w", err)
	}
	return records, nil
}

func (r *PostgresStreakRepository) IncrementTotal(ctx context.Context, userID string, day time.Time) error {
	query := `
		INSERT INTO daily_records (id, user_id, date, tasks_completed, total_tasks, goal_met)
		VALUES ($1, $2, $3, 0, 1, FALSE)
		ON CONFLICT (user_id, date) DO UPDATE
		SET total_tasks = daily_records.total_tasks + 1`

	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID, dateutil.ToUTCMidnight(day)); err != nil {
		return fmt.Errorf("increment total failed: %w", err)
	}
	return nil
}

func (r *PostgresStreakRepository) IncrementCompleted(ctx context.Context, userID string, day time.Time) error {
	// A completion without a prior create (imported or pre-existing task)
	// still has to keep tasks_completed <= total_tasks.
	query := `
		INSERT INTO daily_records (id, user_id, date, tasks_completed, total_tasks, goal_met)
		VALUES ($1, $2, $3, 1, 1, TRUE)
		ON CONFLICT (user_id, date) DO UPDATE
		SET tasks_completed = daily_records.tasks_completed + 1,
		    total_tasks = GREATEST(daily_records.total_tasks, daily_records.tasks_completed + 1),
		    goal_met = TRUE`

	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID, dateutil.ToUTCMidnight(day)); err != nil {
		return fmt.Errorf("increment completed failed: %w", err)
	}
	return nil
}

func (r *PostgresStreakRepository) DecrementCompleted(ctx context.Context, userID string, day time.Time) error {
	// No row means nothing to undo; skipping the insert keeps an undone
	// completion from conjuring an empty ledger day.
	query := `
		UPDATE daily_records
		SET tasks_completed = GREATEST(tasks_completed - 1, 0),
		    goal_met = (GREATEST(tasks_completed - 1, 0) > 0)
		WHERE user_id = $1 AND date = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, dateutil.ToUTCMidnight(day)); err != nil {
		return fmt.Errorf("decrement completed failed: %w", err)
	}
	return nil
}

func (r *PostgresStreakRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM daily_records WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("ledger reset failed: %w", err)
	}
	return nil
}
