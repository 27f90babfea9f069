package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dferrante/anchorline/internal/core/dateutil"
	"github.com/dferrante/anchorline/internal/core/domain"
)

// In-memory implementations of the persistence ports. They back handler
// tests and the no-database dev mode; semantics mirror the Postgres
// adapters, including the ledger upsert contract.

type InMemoryTaskRepository struct {
	mu      sync.RWMutex
	store   map[string]*domain.Task
	anchors map[string][]string

	resolve func(anchorID string) (*domain.Anchor, bool)
}

func NewInMemoryTaskRepository(anchorRepo *InMemoryAnchorRepository) *InMemoryTaskRepository {
	r := &InMemoryTaskRepository{
		store:   make(map[string]*domain.Task),
		anchors: make(map[string][]string),
	}
	if anchorRepo != nil {
		r.resolve = anchorRepo.lookup
	}
	return r
}

func (r *InMemoryTaskRepository) clone(t *domain.Task) *domain.Task {
	c := *t
	c.Anchors = []domain.AnchorInfo{}
	if r.resolve != nil {
		for _, id := range r.anchors[t.ID] {
			if a, ok := r.resolve(id); ok {
				c.Anchors = append(c.Anchors, a.Info())
			}
		}
	}
	return &c
}

func (r *InMemoryTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *task
	r.store[task.ID] = &clone
	return nil
}

func (r *InMemoryTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.store[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return r.clone(task), nil
}

func (r *InMemoryTaskRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tasks []*domain.Task
	for _, t := range r.store {
		if t.UserID == userID {
			tasks = append(tasks, r.clone(t))
		}
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r *InMemoryTaskRepository) ListForDay(ctx context.Context, userID string, day time.Time) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tasks []*domain.Task
	for _, t := range r.store {
		if t.UserID != userID || t.Status == domain.TaskStatusArchived {
			continue
		}
		dueOnDay := t.DueDate != nil && dateutil.SameDayUTC(*t.DueDate, day)
		if dueOnDay || t.ScheduledStart != nil {
			tasks = append(tasks, r.clone(t))
		}
	}

	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if (a.ScheduledStart == nil) != (b.ScheduledStart == nil) {
			return a.ScheduledStart != nil
		}
		if a.ScheduledStart != nil && *a.ScheduledStart != *b.ScheduledStart {
			return *a.ScheduledStart < *b.ScheduledStart
		}
		return a.Priority < b.Priority
	})
	return tasks, nil
}

func (r *InMemoryTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}

	clone := *task
	r.store[task.ID] = &clone
	return nil
}

func (r *InMemoryTaskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrTaskNotFound
	}

	delete(r.store, id)
	delete(r.anchors, id)
	return nil
}

func (r *InMemoryTaskRepository) ReplaceAnchors(ctx context.Context, taskID string, anchorIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.anchors[taskID] = append([]string(nil), anchorIDs...)
	return nil
}

type InMemoryAnchorRepository struct {
	mu    sync.RWMutex
	store map[string]*domain.Anchor
}

func NewInMemoryAnchorRepository() *InMemoryAnchorRepository {
	return &InMemoryAnchorRepository{store: make(map[string]*domain.Anchor)}
}

func (r *InMemoryAnchorRepository) lookup(id string) (*domain.Anchor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.store[id]
	return a, ok
}

func (r *InMemoryAnchorRepository) Create(ctx context.Context, anchor *domain.Anchor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *anchor
	r.store[anchor.ID] = &clone
	return nil
}

func (r *InMemoryAnchorRepository) CreateBatch(ctx context.Context, anchors []*domain.Anchor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, anchor := range anchors {
		clone := *anchor
		r.store[anchor.ID] = &clone
	}
	return nil
}

func (r *InMemoryAnchorRepository) GetByID(ctx context.Context, id string) (*domain.Anchor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	anchor, ok := r.store[id]
	if !ok {
		return nil, domain.ErrAnchorNotFound
	}
	clone := *anchor
	return &clone, nil
}

func (r *InMemoryAnchorRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Anchor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var anchors []*domain.Anchor
	for _, a := range r.store {
		if a.UserID == userID {
			clone := *a
			anchors = append(anchors, &clone)
		}
	}

	sort.Slice(anchors, func(i, j int) bool {
		return anchors[i].CreatedAt.Before(anchors[j].CreatedAt)
	})
	return anchors, nil
}

func (r *InMemoryAnchorRepository) Update(ctx context.Context, anchor *domain.Anchor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[anchor.ID]; !ok {
		return domain.ErrAnchorNotFound
	}

	clone := *anchor
	r.store[anchor.ID] = &clone
	return nil
}

func (r *InMemoryAnchorRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrAnchorNotFound
	}

	delete(r.store, id)
	return nil
}

type InMemoryStreakRepository struct {
	mu   sync.Mutex
	rows map[string]*domain.DailyRecord
}

func NewInMemoryStreakRepository() *InMemoryStreakRepository {
	return &InMemoryStreakRepository{rows: make(map[string]*domain.DailyRecord)}
}

func (r *InMemoryStreakRepository) key(userID string, day time.Time) string {
	return userID + "/" + dateutil.DayKey(day)
}

func (r *InMemoryStreakRepository) row(userID string, day time.Time) *domain.DailyRecord {
	key := r.key(userID, day)
	if rec, ok := r.rows[key]; ok {
		return rec
	}
	rec := domain.NewDailyRecord(userID, day)
	r.rows[key] = rec
	return rec
}

func (r *InMemoryStreakRepository) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]*domain.DailyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	since = dateutil.ToUTCMidnight(since)

	var records []*domain.DailyRecord
	for _, rec := range r.rows {
		if rec.UserID == userID && !rec.Date.Before(since) {
			clone := *rec
			records = append(records, &clone)
		}
	}
	return records, nil
}

func (r *InMemoryStreakRepository) IncrementTotal(ctx context.Context, userID string, day time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.row(userID, day).TotalTasks++
	return nil
}

func (r *InMemoryStreakRepository) IncrementCompleted(ctx context.Context, userID string, day time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.row(userID, day)
	rec.TasksCompleted++
	if rec.TasksCompleted > rec.TotalTasks {
		rec.TotalTasks = rec.TasksCompleted
	}
	rec.GoalMet = true
	return nil
}

func (r *InMemoryStreakRepository) DecrementCompleted(ctx context.Context, userID string, day time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.rows[r.key(userID, day)]
	if !ok {
		return nil
	}
	if rec.TasksCompleted > 0 {
		rec.TasksCompleted--
	}
	rec.GoalMet = rec.TasksCompleted > 0
	return nil
}

func (r *InMemoryStreakRepository) DeleteByUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.rows {
		if strings.HasPrefix(key, userID+"/") {
			delete(r.rows, key)
		}
	}
	return nil
}

type InMemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return domain.ErrEmailAlreadyExists
	}

	clone := *user
	r.byID[user.ID] = &clone
	r.byEmail[user.Email] = &clone
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

type InMemorySettingsRepository struct {
	mu    sync.RWMutex
	store map[string]*domain.UserSettings
}

func NewInMemorySettingsRepository() *InMemorySettingsRepository {
	return &InMemorySettingsRepository{store: make(map[string]*domain.UserSettings)}
}

func (r *InMemorySettingsRepository) Get(ctx context.Context, userID string) (*domain.UserSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	settings, ok := r.store[userID]
	if !ok {
		return nil, domain.ErrSettingsNotFound
	}
	clone := *settings
	return &clone, nil
}

func (r *InMemorySettingsRepository) Upsert(ctx context.Context, settings *domain.UserSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *settings
	r.store[settings.UserID] = &clone
	return nil
}
