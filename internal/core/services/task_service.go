package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dferrante/anchorline/internal/core/dateutil"
	"github.com/dferrante/anchorline/internal/core/domain"
	"github.com/dferrante/anchorline/internal/core/events"
)

// TaskService owns the task lifecycle, including the two side channels every
// mutation feeds: the daily activity ledger (synchronously, so the next
// streak read reflects the change) and the event bus (advisory refresh
// notifications).
type TaskService struct {
	taskRepo   domain.TaskRepository
	anchorRepo domain.AnchorRepository
	streakRepo domain.StreakRepository
	bus        *events.Bus
	logger     *zap.Logger
}

func NewTaskService(taskRepo domain.TaskRepository, anchorRepo domain.AnchorRepository, streakRepo domain.StreakRepository, bus *events.Bus, logger *zap.Logger) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		anchorRepo: anchorRepo,
		streakRepo: streakRepo,
		bus:        bus,
		logger:     logger,
	}
}

type CreateTaskInput struct {
	UserID       string
	Title        string
	Description  string
	Priority     int
	DueDate      *time.Time
	DueTime      *string
	TimeEstimate *int
	AnchorIDs    []string
}

// UpdateTaskInput uses pointer fields for PATCH semantics: nil means leave
// the field alone. Clearable fields carry a separate flag because "set to
// null" and "absent" are different requests.
type UpdateTaskInput struct {
	ID     string
	UserID string

	Title        *string
	Description  *string
	Status       *string
	Priority     *int
	DueDate      *time.Time
	ClearDueDate bool
	DueTime      *string
	ClearDueTime bool
	TimeEstimate *int

	ScheduledStart *string
	ScheduledEnd   *string
	ClearSchedule  bool
	IsFixed        *bool

	AnchorIDs []string
}

func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(input.UserID, input.Title, input.Description, input.Priority)
	if err != nil {
		return nil, err
	}

	if input.DueDate != nil {
		d := dateutil.ToUTCMidnight(*input.DueDate)
		task.DueDate = &d
	}
	task.DueTime = input.DueTime
	task.TimeEstimate = input.TimeEstimate

	if err := task.Validate(); err != nil {
		return nil, err
	}

	anchors, err := s.resolveAnchors(ctx, input.UserID, input.AnchorIDs)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	if len(anchors) > 0 {
		if err := s.taskRepo.ReplaceAnchors(ctx, task.ID, input.AnchorIDs); err != nil {
			return nil, err
		}
		task.Anchors = anchors
	}

	// Ledger contract: a created task raises today's total.
	if err := s.streakRepo.IncrementTotal(ctx, input.UserID, dateutil.TodayUTC()); err != nil {
		s.logger.Error("ledger update failed after task create",
			zap.String("task_id", task.ID), zap.Error(err))
	}

	s.bus.Publish(events.Event{Type: events.TypeTasksChanged, UserID: input.UserID})

	return task, nil
}

func (s *TaskService) GetByID(ctx context.Context, id, userID string) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskService) ListByUserID(ctx context.Context, userID string) ([]*domain.Task, error) {
	return s.taskRepo.ListByUserID(ctx, userID)
}

// ListForDay feeds the daily timeline: tasks due on the given day plus any
// task carrying a schedule block.
func (s *TaskService) ListForDay(ctx context.Context, userID string, day time.Time) ([]*domain.Task, error) {
	return s.taskRepo.ListForDay(ctx, userID, dateutil.ToUTCMidnight(day))
}

func (s *TaskService) Update(ctx context.Context, input UpdateTaskInput) (*domain.Task, error) {
	task, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	previousStatus := task.Status

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}

	switch {
	case input.ClearDueDate:
		task.DueDate = nil
	case input.DueDate != nil:
		d := dateutil.ToUTCMidnight(*input.DueDate)
		task.DueDate = &d
	}
	switch {
	case input.ClearDueTime:
		task.DueTime = nil
	case input.DueTime != nil:
		task.DueTime = input.DueTime
	}
	if input.TimeEstimate != nil {
		task.TimeEstimate = input.TimeEstimate
	}

	if input.ClearSchedule {
		task.ScheduledStart = nil
		task.ScheduledEnd = nil
	} else {
		if input.ScheduledStart != nil {
			task.ScheduledStart = input.ScheduledStart
		}
		if input.ScheduledEnd != nil {
			task.ScheduledEnd = input.ScheduledEnd
		}
	}
	if input.IsFixed != nil {
		task.IsFixed = *input.IsFixed
	}

	if input.Status != nil && *input.Status != previousStatus {
		if err := task.SetStatus(*input.Status); err != nil {
			return nil, err
		}
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	var anchors []domain.AnchorInfo
	if input.AnchorIDs != nil {
		anchors, err = s.resolveAnchors(ctx, input.UserID, input.AnchorIDs)
		if err != nil {
			return nil, err
		}
	}

	task.UpdatedAt = time.Now().UTC()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	if input.AnchorIDs != nil {
		if err := s.taskRepo.ReplaceAnchors(ctx, task.ID, input.AnchorIDs); err != nil {
			return nil, err
		}
		task.Anchors = anchors
	}

	s.applyLedgerTransition(ctx, task.UserID, previousStatus, task.Status)
	s.bus.Publish(events.Event{Type: events.TypeTasksChanged, UserID: input.UserID})

	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.bus.Publish(events.Event{Type: events.TypeTasksChanged, UserID: userID})
	return nil
}

// applyLedgerTransition maps a status change onto the ledger write contract:
// completing a task raises today's completed count, un-completing lowers it
// (floored at zero in the store). Archiving is ledger-neutral unless it
// leaves the completed state.
func (s *TaskService) applyLedgerTransition(ctx context.Context, userID, from, to string) {
	if from == to {
		return
	}

	today := dateutil.TodayUTC()

	var err error
	switch {
	case to == domain.TaskStatusCompleted:
		err = s.streakRepo.IncrementCompleted(ctx, userID, today)
	case from == domain.TaskStatusCompleted:
		err = s.streakRepo.DecrementCompleted(ctx, userID, today)
	default:
		return
	}

	if err != nil {
		s.logger.Error("ledger update failed after status change",
			zap.String("user_id", userID),
			zap.String("from", from), zap.String("to", to),
			zap.Error(err))
		return
	}

	s.bus.Publish(events.Event{Type: events.TypeStreaksChanged, UserID: userID})
}

// resolveAnchors checks every requested anchor exists and belongs to the
// user, returning the join shapes in request order.
func (s *TaskService) resolveAnchors(ctx context.Context, userID string, anchorIDs []string) ([]domain.AnchorInfo, error) {
	if len(anchorIDs) == 0 {
		return nil, nil
	}

	infos := make([]domain.AnchorInfo, 0, len(anchorIDs))
	for _, id := range anchorIDs {
		anchor, err := s.anchorRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("resolving anchor %s: %w", id, err)
		}
		if anchor.UserID != userID {
			return nil, domain.ErrAnchorNotFound
		}
		infos = append(infos, anchor.Info())
	}
	return infos, nil
}
