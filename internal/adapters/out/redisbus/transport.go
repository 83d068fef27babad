// Package redisbus implements the realtime transport over Redis pub/sub so
// room members spread across application-server instances all receive every
// broadcast.
package redisbus

import (
	"context"
	"encoding/json"
	"log/slog"

	"fulfillment/internal/realtime"

	"github.com/redis/go-redis/v9"
)

// channel is the single Redis pub/sub channel carrying all room broadcasts.
// Redis preserves per-channel publication order, which keeps the per-order
// event ordering intact across instances.
const channel = "fulfillment:broadcast"

// envelope is the wire form of one room broadcast.
type envelope struct {
	Room    string          `json:"room"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Transport publishes room broadcasts through Redis and relays received
// broadcasts into the local registry.
//
// Publish does not touch the local registry directly: the instance's own
// subscription delivers its broadcasts back, so every instance, publisher
// included, delivers each event exactly once and in channel order.
type Transport struct {
	client   *redis.Client
	registry *realtime.Registry
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewTransport creates a Redis-backed transport feeding the given registry.
// Call Run to start relaying and Close to stop.
func NewTransport(client *redis.Client, registry *realtime.Registry, logger *slog.Logger) *Transport {
	return &Transport{
		client:   client,
		registry: registry,
		logger:   logger.With("component", "redis-transport"),
		done:     make(chan struct{}),
	}
}

// Publish sends the broadcast to Redis. Delivery to local members happens
// when the subscription relays it back.
func (t *Transport) Publish(ctx context.Context, room, event string, payload []byte) error {
	data, err := json.Marshal(envelope{
		Room:    room,
		Event:   event,
		Payload: payload,
	})
	if err != nil {
		return err
	}

	return t.client.Publish(ctx, channel, data).Err()
}

// Run subscribes to the broadcast channel and relays messages into the local
// registry until Close is called. Blocks; run it on its own goroutine.
func (t *Transport) Run(ctx context.Context) error {
	ctx, t.cancel = context.WithCancel(ctx)
	defer close(t.done)

	sub := t.client.Subscribe(ctx, channel)
	defer sub.Close()

	// Fail fast if the subscription could not be established.
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-sub.Channel():
			if !ok {
				return nil
			}

			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				t.logger.Error("decode broadcast envelope", "error", err)
				continue
			}

			t.registry.Broadcast(env.Room, env.Event, env.Payload)
		}
	}
}

// Close stops the relay loop and waits for it to drain.
func (t *Transport) Close() error {
	if t.cancel != nil {
		t.cancel()
		<-t.done
	}
	return nil
}
