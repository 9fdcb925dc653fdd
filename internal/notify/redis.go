package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const channel = "bomtracker:events"

// changeEvent is the wire form published to redis.
type changeEvent struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
}

// Notifier publishes collection-change events to the shared redis channel.
type Notifier struct {
	logger *slog.Logger
	client *redis.Client
}

func NewNotifier(logger *slog.Logger, client *redis.Client) *Notifier {
	return &Notifier{logger: logger, client: client}
}

// Publish announces that a record in collection changed. Failures are
// logged and swallowed: a missed live update must not fail the mutation
// that caused it.
func (n *Notifier) Publish(ctx context.Context, collection, id string) {
	payload, err := json.Marshal(changeEvent{Collection: collection, ID: id})
	if err != nil {
		return
	}
	if err := n.client.Publish(ctx, channel, payload).Err(); err != nil {
		n.logger.Warn("event publish failed", "collection", collection, "error", err)
	}
}

// Subscriber bridges the redis channel into a local hub.
type Subscriber struct {
	logger *slog.Logger
	client *redis.Client
	hub    *Hub
}

func NewSubscriber(logger *slog.Logger, client *redis.Client, hub *Hub) *Subscriber {
	return &Subscriber{logger: logger, client: client, hub: hub}
}

// Run consumes the redis channel until the context is canceled, forwarding
// each event to the hub as an SSE broadcast.
func (s *Subscriber) Run(ctx context.Context) error {
	sub := s.client.Subscribe(ctx, channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event changeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.logger.Warn("malformed change event", "payload", msg.Payload)
				continue
			}
			s.hub.Broadcast(Event{
				EventType: event.Collection + "_update",
				Data:      msg.Payload,
			})
		}
	}
}
