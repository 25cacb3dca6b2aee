package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/atomiccms/atomic-service/internal/security"
)

// redisBroker fans events out through Redis pub/sub so subscriptions work
// across service replicas.
type redisBroker struct {
	client *goredis.Client
}

// NewRedisBroker connects to Redis and returns a cross-replica Broker.
func NewRedisBroker(ctx context.Context, redisURL string) (Broker, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("pubsub: invalid redis URL: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pubsub: redis ping failed: %w", err)
	}
	return &redisBroker{client: client}, nil
}

func channelName(topic string) string {
	return "atomic-events:" + topic
}

func (b *redisBroker) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, channelName(topic), data).Err(); err != nil {
		return fmt.Errorf("pubsub: publish failed: %w", err)
	}
	if security.EventsPublishedTotal != nil {
		security.EventsPublishedTotal.WithLabelValues(topic).Inc()
	}
	return nil
}

func (b *redisBroker) Subscribe(ctx context.Context, topic string) <-chan Event {
	sub := b.client.Subscribe(ctx, channelName(topic))
	ch := make(chan Event, subscriberBuffer)

	go func() {
		defer close(ch)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				select {
				case ch <- Event{Topic: topic, Payload: json.RawMessage(msg.Payload)}:
				default:
					// Slow subscriber, drop the event.
				}
			}
		}
	}()
	return ch
}

func (b *redisBroker) Close() error {
	return b.client.Close()
}
