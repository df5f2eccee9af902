// Package pubsub broadcasts room events to realtime subscribers.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher sends an event to everyone listening on room.
type Publisher interface {
	Publish(ctx context.Context, room, event string, payload any) error
}

// Envelope is the JSON document placed on the wire.
type Envelope struct {
	ID      string          `json:"id"`
	Event   string          `json:"event"`
	Room    string          `json:"room"`
	SentAt  time.Time       `json:"sentAt"`
	Payload json.RawMessage `json:"payload"`
}

// Channel returns the Redis channel name for a room.
func Channel(room string) string {
	return "room:" + room
}

// NewEnvelope marshals payload and stamps the envelope with a fresh id.
func NewEnvelope(room, event string, payload any, now time.Time) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", event, err)
	}
	return Envelope{
		ID:      uuid.NewString(),
		Event:   event,
		Room:    room,
		SentAt:  now.UTC(),
		Payload: raw,
	}, nil
}

// RedisPublisher publishes envelopes with Redis PUBLISH.
type RedisPublisher struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewRedisPublisher(rdb *redis.Client, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, log: logger}
}

func (p *RedisPublisher) Publish(ctx context.Context, room, event string, payload any) error {
	env, err := NewEnvelope(room, event, payload, time.Now())
	if err != nil {
		return err
	}
	b, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	n, err := p.rdb.Publish(ctx, Channel(room), b).Result()
	if err != nil {
		return fmt.Errorf("redis publish %s: %w", Channel(room), err)
	}
	p.log.Debug("event published",
		zap.String("room", room),
		zap.String("event", event),
		zap.Int64("receivers", n))
	return nil
}

// Subscribe returns a channel of decoded envelopes for room. The returned
// close func releases the subscription.
func (p *RedisPublisher) Subscribe(ctx context.Context, room string) (<-chan Envelope, func() error, error) {
	sub := p.rdb.Subscribe(ctx, Channel(room))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis subscribe %s: %w", Channel(room), err)
	}
	out := make(chan Envelope)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				p.log.Warn("dropping malformed envelope", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			select {
			case out <- env:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, sub.Close, nil
}

// Nop discards every event. Used when Redis is not configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) error { return nil }
