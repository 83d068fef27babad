// Package realtime implements the room-based fan-out layer.
//
// Connected clients join rooms; domain-side code publishes events to rooms
// through a Transport and never sees individual connections. Three kinds of
// rooms exist: one identity room per user, the admin oversight room, and the
// partner notification room. Role-gated rooms are joined by the gateway based
// on the verified role only, never on client request.
package realtime

import (
	"sync"

	"fulfillment/internal/core/domain/model/kernel"
)

// AdminRoom receives every order placement and every status change.
// Membership requires the admin role.
const AdminRoom = "admins"

// PartnerRoom receives backlog notifications for claimable orders.
// Membership requires the partner role.
const PartnerRoom = "partners"

// UserRoom names the identity room of a single user. All of a user's
// connections join it, so multi-device delivery falls out of room fan-out.
func UserRoom(id kernel.UUID) string {
	return "user:" + id.String()
}

// Member is one deliverable endpoint, typically a websocket connection.
// Deliver must not block: implementations buffer and drop slow consumers
// rather than stalling a broadcast.
type Member interface {
	Deliver(event string, payload []byte)
}

// Registry tracks which members are in which rooms on this process.
// Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[Member]struct{}
}

// NewRegistry creates an empty room registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]map[Member]struct{}),
	}
}

// Join adds a member to a room. Joining a room twice is a no-op.
func (r *Registry) Join(room string, m Member) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		members = make(map[Member]struct{})
		r.rooms[room] = members
	}
	members[m] = struct{}{}
}

// Leave removes a member from a room. Empty rooms are dropped.
func (r *Registry) Leave(room string, m Member) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		return
	}

	delete(members, m)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
}

// LeaveAll removes a member from every room it joined.
// Called on disconnect so no room retains dead endpoints.
func (r *Registry) LeaveAll(m Member) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for room, members := range r.rooms {
		delete(members, m)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
}

// Broadcast delivers an event to every member of a room.
// Members outside the room never see the event. Broadcasting to an
// empty or unknown room is a no-op.
func (r *Registry) Broadcast(room, event string, payload []byte) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for m := range r.rooms[room] {
		m.Deliver(event, payload)
	}
}

// Count returns the number of members currently in a room.
func (r *Registry) Count(room string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms[room])
}
