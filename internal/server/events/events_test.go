package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// recordingSubscriber captures delivered events.
type recordingSubscriber struct {
	mu     sync.Mutex
	events []Event
	closed bool
	err    error
}

func (r *recordingSubscriber) Send(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

func (r *recordingSubscriber) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recordingSubscriber) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestBrokerDeliversToSubscribers(t *testing.T) {
	logger := zerolog.Nop()
	broker := NewBroker(&logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go broker.Run(ctx)

	sub := &recordingSubscriber{}
	broker.Subscribe(sub)

	broker.Publish("ResourceCreateEvent", "geographicAddress", map[string]any{"id": "1"})
	waitFor(t, func() bool { return sub.count() == 1 })

	sub.mu.Lock()
	event := sub.events[0]
	sub.mu.Unlock()

	if event.Type != "ResourceCreateEvent" {
		t.Errorf("unexpected type %s", event.Type)
	}
	if event.Resource != "geographicAddress" {
		t.Errorf("unexpected resource %s", event.Resource)
	}
	if event.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestBrokerMultipleSubscribers(t *testing.T) {
	logger := zerolog.Nop()
	broker := NewBroker(&logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go broker.Run(ctx)

	subs := []*recordingSubscriber{{}, {}, {}}
	for _, sub := range subs {
		broker.Subscribe(sub)
	}

	broker.Publish("ResourceDeleteEvent", "geographicAddress", nil)
	for _, sub := range subs {
		s := sub
		waitFor(t, func() bool { return s.count() == 1 })
	}
}

func TestBrokerSurvivesSubscriberError(t *testing.T) {
	logger := zerolog.Nop()
	broker := NewBroker(&logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go broker.Run(ctx)

	failing := &recordingSubscriber{err: errors.New("transport down")}
	healthy := &recordingSubscriber{}
	broker.Subscribe(failing)
	broker.Subscribe(healthy)

	broker.Publish("ResourceAttributeValueChangeEvent", "geographicAddress", nil)
	waitFor(t, func() bool { return healthy.count() == 1 })
}

func TestBrokerClosesSubscribersOnShutdown(t *testing.T) {
	logger := zerolog.Nop()
	broker := NewBroker(&logger)

	ctx, cancel := context.WithCancel(context.Background())
	go broker.Run(ctx)

	sub := &recordingSubscriber{}
	broker.Subscribe(sub)
	waitFor(t, func() bool {
		broker.mu.RLock()
		defer broker.mu.RUnlock()
		return len(broker.subscribers) == 1
	})

	cancel()
	waitFor(t, func() bool {
		sub.mu.Lock()
		defer sub.mu.Unlock()
		return sub.closed
	})
}
