// Package events fans resource change notifications out to transport
// subscribers (WebSocket, SSE). The broker sits between the document store
// and the transports so neither knows about the other.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Type identifies a notification, following the TMF event naming style.
type Type string

// Event carries one resource change notification.
type Event struct {
	Type      Type      `json:"eventType"`
	Timestamp time.Time `json:"eventTime"`
	Resource  string    `json:"resourceType"`
	Data      any       `json:"event"`
}

// Subscriber is an event consumer. Implementations adapt the stream to a
// transport and must not block in Send.
type Subscriber interface {
	Send(Event) error
	Close() error
}

// Broker distributes events to all registered subscribers.
type Broker struct {
	subscribers []Subscriber
	events      chan Event
	register    chan Subscriber
	mu          sync.RWMutex
	logger      *zerolog.Logger
}

// NewBroker creates an event broker.
func NewBroker(logger *zerolog.Logger) *Broker {
	return &Broker{
		events:   make(chan Event, 256),
		register: make(chan Subscriber, 8),
		logger:   logger,
	}
}

// Run starts the broker loop. Call in a goroutine; the broker runs until
// the context is cancelled, then closes its subscribers.
func (b *Broker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			for _, sub := range b.subscribers {
				_ = sub.Close()
			}
			b.subscribers = nil
			b.mu.Unlock()
			b.logger.Info().Msg("Event broker shut down")
			return

		case sub := <-b.register:
			b.mu.Lock()
			b.subscribers = append(b.subscribers, sub)
			total := len(b.subscribers)
			b.mu.Unlock()
			b.logger.Debug().Int("total_subscribers", total).Msg("Subscriber registered")

		case event := <-b.events:
			b.mu.RLock()
			subs := make([]Subscriber, len(b.subscribers))
			copy(subs, b.subscribers)
			b.mu.RUnlock()

			for _, sub := range subs {
				if err := sub.Send(event); err != nil {
					b.logger.Warn().
						Err(err).
						Str("event_type", string(event.Type)).
						Msg("Failed to deliver event")
				}
			}
		}
	}
}

// Publish queues an event for distribution. Never blocks; when the queue
// is full the event is dropped with a warning.
func (b *Broker) Publish(eventType Type, resource string, data any) {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Resource:  resource,
		Data:      data,
	}

	select {
	case b.events <- event:
	default:
		b.logger.Warn().
			Str("event_type", string(eventType)).
			Msg("Event queue full, event dropped")
	}
}

// Subscribe registers a subscriber.
func (b *Broker) Subscribe(sub Subscriber) {
	b.register <- sub
}
