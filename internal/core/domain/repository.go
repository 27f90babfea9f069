package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrAnchorNotFound   = errors.New("anchor not found")
	ErrSettingsNotFound = errors.New("settings not found")
	ErrUnauthorized     = errors.New("unauthorized")
)

type TaskRepository interface {
	// Create persists a new task.
	Create(ctx context.Context, task *Task) error

	// GetByID retrieves a task with its anchors joined.
	GetByID(ctx context.Context, id string) (*Task, error)

	// ListByUserID retrieves all of a user's tasks, newest first, with
	// anchors joined.
	ListByUserID(ctx context.Context, userID string) ([]*Task, error)

	// ListForDay retrieves the user's tasks that are due on the given UTC
	// day or carry a schedule block. Feeds the daily timeline view.
	ListForDay(ctx context.Context, userID string, day time.Time) ([]*Task, error)

	// Update modifies an existing task.
	Update(ctx context.Context, task *Task) error

	// Delete permanently removes a task and its anchor links.
	Delete(ctx context.Context, id string) error

	// ReplaceAnchors rewrites the task's anchor links.
	ReplaceAnchors(ctx context.Context, taskID string, anchorIDs []string) error
}

type AnchorRepository interface {
	Create(ctx context.Context, anchor *Anchor) error

	// CreateBatch persists several anchors at once (first-login defaults).
	CreateBatch(ctx context.Context, anchors []*Anchor) error

	GetByID(ctx context.Context, id string) (*Anchor, error)

	// ListByUserID returns the user's anchors in creation order.
	ListByUserID(ctx context.Context, userID string) ([]*Anchor, error)

	Update(ctx context.Context, anchor *Anchor) error

	Delete(ctx context.Context, id string) error
}

type SettingsRepository interface {
	// Get returns the user's settings row, ErrSettingsNotFound if absent.
	Get(ctx context.Context, userID string) (*UserSettings, error)

	// Upsert creates or replaces the user's settings row.
	Upsert(ctx context.Context, settings *UserSettings) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
