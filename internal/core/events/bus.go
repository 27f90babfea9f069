// Package events carries "something changed, refetch" notifications between
// the task lifecycle and interested listeners. The bus is owned by the
// composition root and passed in explicitly; nothing in the core reaches for
// a process-wide singleton, and the streak engine itself never sees it.
package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

const (
	TypeTasksChanged   = "tasks_changed"
	TypeStreaksChanged = "streaks_changed"
)

type Event struct {
	Type   string
	UserID string
}

type Handler func(Event)

type Bus struct {
	logger *zap.Logger
	queue  chan Event

	mu       sync.RWMutex
	handlers []Handler
}

func NewBus(buffer int, logger *zap.Logger) *Bus {
	if buffer <= 0 {
		buffer = 100
	}
	return &Bus{
		logger: logger,
		queue:  make(chan Event, buffer),
	}
}

// Subscribe registers a handler. Handlers run sequentially on the dispatch
// goroutine, so they must not block; registration after Start is allowed.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Start launches the dispatch loop until ctx is cancelled.
func (b *Bus) Start(ctx context.Context) {
	go func() {
		b.logger.Info("event bus started")
		for {
			select {
			case evt := <-b.queue:
				b.dispatch(evt)
			case <-ctx.Done():
				b.logger.Info("event bus shutting down")
				return
			}
		}
	}()
}

// Publish enqueues without blocking. Notifications are advisory; when the
// queue is full the event is dropped and logged rather than stalling a
// request.
func (b *Bus) Publish(evt Event) {
	select {
	case b.queue <- evt:
	default:
		b.logger.Warn("event queue full, dropping event",
			zap.String("type", evt.Type),
			zap.String("user_id", evt.UserID))
	}
}

func (b *Bus) dispatch(evt Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(evt)
	}
}
