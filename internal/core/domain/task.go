package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTaskTitleEmpty    = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong  = errors.New("task title is too long (max 200 chars)")
	ErrTaskDescTooLong   = errors.New("task description is too long (max 2000 chars)")
	ErrTaskInvalidUserID = errors.New("invalid user id")
	ErrInvalidPriority   = errors.New("invalid priority (must be 1-4)")
	ErrInvalidStatus     = errors.New("invalid status (must be pending, completed, or archived)")
	ErrInvalidTimeOfDay  = errors.New("invalid time format (must be HH:MM 24h)")
	ErrInvalidTimeBlock  = errors.New("scheduled block needs both start and end, with start before end")
	ErrTaskArchived      = errors.New("cannot modify an archived task")
)

var timeOfDayRegex = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
	TaskStatusArchived  = "archived"

	DefaultPriority = 4
	MaxTaskTitleLen = 200
	MaxTaskDescLen  = 2000
)

type Task struct {
	ID          string `json:"id" db:"id"`
	UserID      string `json:"userId" db:"user_id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description,omitempty" db:"description"`
	Status      string `json:"status" db:"status"`
	Priority    int    `json:"priority" db:"priority"`

	DueDate      *time.Time `json:"dueDate,omitempty" db:"due_date"`
	DueTime      *string    `json:"dueTime,omitempty" db:"due_time"`
	TimeEstimate *int       `json:"timeEstimate,omitempty" db:"time_estimate"`

	ScheduledStart *string `json:"scheduledStart,omitempty" db:"scheduled_start"`
	ScheduledEnd   *string `json:"scheduledEnd,omitempty" db:"scheduled_end"`
	IsFixed        bool    `json:"isFixed" db:"is_fixed"`

	CompletedAt *time.Time `json:"completedAt,omitempty" db:"completed_at"`
	ArchivedAt  *time.Time `json:"archivedAt,omitempty" db:"archived_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	// Anchors joined through the task_anchors table; not a column.
	Anchors []AnchorInfo `json:"anchors" db:"-"`
}

func validTaskStatus(s string) bool {
	switch s {
	case TaskStatusPending, TaskStatusCompleted, TaskStatusArchived:
		return true
	}
	return false
}

func validateTaskFields(title, desc string, priority int, dueTime, schedStart, schedEnd *string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTaskTitleEmpty
	}
	if len(strings.TrimSpace(title)) > MaxTaskTitleLen {
		return ErrTaskTitleTooLong
	}
	if len(strings.TrimSpace(desc)) > MaxTaskDescLen {
		return ErrTaskDescTooLong
	}
	if priority < 1 || priority > 4 {
		return ErrInvalidPriority
	}
	if dueTime != nil && !timeOfDayRegex.MatchString(*dueTime) {
		return ErrInvalidTimeOfDay
	}
	if (schedStart == nil) != (schedEnd == nil) {
		return ErrInvalidTimeBlock
	}
	if schedStart != nil {
		if !timeOfDayRegex.MatchString(*schedStart) || !timeOfDayRegex.MatchString(*schedEnd) {
			return ErrInvalidTimeOfDay
		}
		if *schedStart >= *schedEnd {
			return ErrInvalidTimeBlock
		}
	}
	return nil
}

func NewTask(userID, title, description string, priority int) (*Task, error) {
	if userID == "" {
		return nil, ErrTaskInvalidUserID
	}

	if priority == 0 {
		priority = DefaultPriority
	}

	if err := validateTaskFields(title, description, priority, nil, nil, nil); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Status:      TaskStatusPending,
		Priority:    priority,
		Anchors:     []AnchorInfo{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Validate re-checks the task's own fields after a partial update has been
// applied.
func (t *Task) Validate() error {
	if !validTaskStatus(t.Status) {
		return ErrInvalidStatus
	}
	return validateTaskFields(t.Title, t.Description, t.Priority, t.DueTime, t.ScheduledStart, t.ScheduledEnd)
}

// Completed reports whether the task currently counts toward the daily
// completion ledger.
func (t *Task) Completed() bool {
	return t.Status == TaskStatusCompleted
}

// SetStatus applies a status transition, maintaining the completedAt and
// archivedAt timestamps the way the lifecycle expects.
func (t *Task) SetStatus(status string) error {
	if !validTaskStatus(status) {
		return ErrInvalidStatus
	}

	now := time.Now().UTC()
	switch status {
	case TaskStatusCompleted:
		t.CompletedAt = &now
	case TaskStatusPending:
		t.CompletedAt = nil
	case TaskStatusArchived:
		t.ArchivedAt = &now
	}

	t.Status = status
	t.UpdatedAt = now
	return nil
}
