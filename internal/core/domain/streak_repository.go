package domain

import (
	"context"
	"time"
)

// StreakRepository is the activity ledger port. The streak engine never
// touches it directly: services read a snapshot through ListByUserSince and
// hand it to the engine. The write side implements the task-lifecycle
// contract; every mutation targets exactly one (user, UTC day) row and is
// expected to be a single atomic upsert.
type StreakRepository interface {
	// ListByUserSince returns all ledger rows for the user with date >= since,
	// unordered, at most one per calendar day.
	ListByUserSince(ctx context.Context, userID string, since time.Time) ([]*DailyRecord, error)

	// IncrementTotal records a task created on the given day: total_tasks + 1,
	// creating the row with totals 1/0 when absent.
	IncrementTotal(ctx context.Context, userID string, day time.Time) error

	// IncrementCompleted records a task completion: tasks_completed + 1,
	// creating the row with totals 1/1 when absent. goal_met is recomputed.
	IncrementCompleted(ctx context.Context, userID string, day time.Time) error

	// DecrementCompleted records an undone completion: tasks_completed - 1
	// floored at zero. goal_met is recomputed. A missing row is a no-op.
	DecrementCompleted(ctx context.Context, userID string, day time.Time) error

	// DeleteByUser removes every ledger row for the user. Dev tooling only.
	DeleteByUser(ctx context.Context, userID string) error
}
