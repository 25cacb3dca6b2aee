// Package pubsub delivers subscription events (new article, new project) to
// connected clients. Delivery is at-most-once with no replay; subscribers
// that fall behind drop events.
package pubsub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/atomiccms/atomic-service/internal/security"
)

// Topics published by the service.
const (
	TopicNewArticle = "NEW_ARTICLE"
	TopicNewProject = "NEW_PROJECT"
	TopicNewComment = "NEW_COMMENT"
)

// Event is a published payload on a topic.
type Event struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}

// Broker fans events out to subscribers.
type Broker interface {
	Publish(ctx context.Context, topic string, payload any) error
	// Subscribe returns a channel of events for the topic. The channel is
	// closed when ctx is done.
	Subscribe(ctx context.Context, topic string) <-chan Event
	Close() error
}

const subscriberBuffer = 16

// memoryBroker is the in-process Broker used when no Redis URL is configured.
type memoryBroker struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
}

// NewMemoryBroker returns a process-local Broker.
func NewMemoryBroker() Broker {
	return &memoryBroker{subs: map[string]map[chan Event]struct{}{}}
}

func (b *memoryBroker) Publish(_ context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := Event{Topic: topic, Payload: data}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[topic] {
		select {
		case ch <- event:
		default:
			// Slow subscriber, drop the event.
		}
	}
	if security.EventsPublishedTotal != nil {
		security.EventsPublishedTotal.WithLabelValues(topic).Inc()
	}
	return nil
}

func (b *memoryBroker) Subscribe(ctx context.Context, topic string) <-chan Event {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = map[chan Event]struct{}{}
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[topic][ch]; ok {
			delete(b.subs[topic], ch)
			close(ch)
		}
	}()
	return ch
}

func (b *memoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for topic, subs := range b.subs {
		for ch := range subs {
			close(ch)
		}
		delete(b.subs, topic)
	}
	return nil
}
