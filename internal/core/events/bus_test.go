package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus(10, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got1 := make(chan Event, 1)
	got2 := make(chan Event, 1)
	bus.Subscribe(func(e Event) { got1 <- e })
	bus.Subscribe(func(e Event) { got2 <- e })

	bus.Start(ctx)
	bus.Publish(Event{Type: TypeTasksChanged, UserID: "user-1"})

	for _, ch := range []chan Event{got1, got2} {
		select {
		case evt := <-ch:
			assert.Equal(t, TypeTasksChanged, evt.Type)
			assert.Equal(t, "user-1", evt.UserID)
		case <-time.After(2 * time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestBusDropsWhenQueueFull(t *testing.T) {
	// Bus never started: the queue fills and Publish must not block.
	bus := NewBus(1, zap.NewNop())

	done := make(chan struct{})
	go func() {
		bus.Publish(Event{Type: TypeTasksChanged, UserID: "user-1"})
		bus.Publish(Event{Type: TypeTasksChanged, UserID: "user-1"})
		bus.Publish(Event{Type: TypeTasksChanged, UserID: "user-1"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}

func TestBusStopsOnContextCancel(t *testing.T) {
	bus := NewBus(10, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())

	received := make(chan Event, 4)
	bus.Subscribe(func(e Event) { received <- e })

	bus.Start(ctx)
	bus.Publish(Event{Type: TypeStreaksChanged, UserID: "user-1"})

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered before cancel")
	}

	cancel()
	// Give the loop a moment to exit, then verify nothing more is drained.
	time.Sleep(50 * time.Millisecond)
	bus.Publish(Event{Type: TypeStreaksChanged, UserID: "user-1"})

	select {
	case <-received:
		t.Fatal("event delivered after shutdown")
	case <-time.After(100 * time.Millisecond):
	}
}
