package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/dferrante/anchorline/internal/core/dateutil"
)

var (
	ErrInvalidDailyRecord = errors.New("invalid daily record data")
)

// DailyRecord is one row of the activity ledger: per user, per UTC calendar
// day, how many tasks were completed out of how many tracked. Rows are
// created lazily by the first task event of a day and mutated only by the
// task lifecycle; the streak engine reads them as an immutable snapshot.
type DailyRecord struct {
	ID     string    `json:"id" db:"id"`
	UserID string    `json:"userId" db:"user_id"`
	Date   time.Time `json:"date" db:"date"`

	TasksCompleted int  `json:"tasksCompleted" db:"tasks_completed"`
	TotalTasks     int  `json:"totalTasks" db:"total_tasks"`
	GoalMet        bool `json:"goalMet" db:"goal_met"`
}

func NewDailyRecord(userID string, date time.Time) *DailyRecord {
	return &DailyRecord{
		UserID: userID,
		Date:   dateutil.ToUTCMidnight(date),
	}
}

func (r *DailyRecord) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if r.Date.IsZero() {
		return errors.New("date is required")
	}
	if r.TasksCompleted < 0 || r.TotalTasks < 0 {
		return errors.New("counters cannot be negative")
	}
	return nil
}

// Completed reports whether the day counts toward streaks and consistency.
func (r *DailyRecord) Completed() bool {
	return r.TasksCompleted > 0
}
