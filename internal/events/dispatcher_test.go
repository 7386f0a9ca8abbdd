package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcher_PublishReachesSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var received []Event
	d.Subscribe(EventRequestCreated, func(_ context.Context, e Event) error {
		received = append(received, e)
		return nil
	})

	event := Event{ID: "evt-1", Type: EventRequestCreated, RequestID: 7, Actor: "testuser"}
	if err := d.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if len(received) != 1 {
		t.Fatalf("handler invocations = %d, want 1", len(received))
	}
	if received[0].RequestID != 7 || received[0].Actor != "testuser" {
		t.Errorf("event = %+v, want the published event", received[0])
	}
}

func TestDispatcher_UnrelatedTypeNotDelivered(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := false
	d.Subscribe(EventRequestDeleted, func(context.Context, Event) error {
		called = true
		return nil
	})

	_ = d.Publish(context.Background(), Event{Type: EventRequestCreated})
	if called {
		t.Error("handler for a different event type should not run")
	}
}

func TestDispatcher_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	d := NewInMemoryDispatcher()

	second := false
	d.Subscribe(EventRequestUpdated, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventRequestUpdated, func(context.Context, Event) error {
		second = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventRequestUpdated}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if !second {
		t.Error("second handler should run despite the first failing")
	}
}
