package realtime

import "context"

// Transport carries room broadcasts to every process holding members of the
// room. The in-process implementation delivers straight to the local
// registry; the Redis implementation additionally relays through pub/sub so
// rooms can span application-server instances.
type Transport interface {
	// Publish delivers an event to the named room.
	// Publication order from a single caller is preserved per room.
	Publish(ctx context.Context, room, event string, payload []byte) error
}

// LocalTransport delivers broadcasts to the local registry only.
// Suitable for single-instance deployments and tests.
type LocalTransport struct {
	registry *Registry
}

// NewLocalTransport creates a transport bound to the given registry.
func NewLocalTransport(registry *Registry) *LocalTransport {
	return &LocalTransport{registry: registry}
}

// Publish broadcasts synchronously to local room members.
func (t *LocalTransport) Publish(_ context.Context, room, event string, payload []byte) error {
	t.registry.Broadcast(room, event, payload)
	return nil
}
