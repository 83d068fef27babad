package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// DomainEvent is implemented by events the Order aggregate records when its
// state changes. Events are collected on the aggregate and published only
// after the surrounding transaction commits, which keeps the state machine
// free of any transport concern and guarantees that emission order for one
// order equals its commit order.
type DomainEvent interface {
	// EventName returns the wire name of the event.
	EventName() string
}

// PlacedEvent is recorded when a new order enters the system in Pending
// status. Only the administrative audience is interested at this point:
// no partner is involved until assignment.
type PlacedEvent struct {
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	OccurredAt time.Time
}

// EventName returns "orderPlaced".
func (PlacedEvent) EventName() string { return "orderPlaced" }

// StatusChangedEvent is recorded on every successful status transition,
// including the acceptance that assigns a delivery partner.
//
// Previous and New carry the committed pair of statuses; ActorID identifies
// who triggered the change. The dispatcher shapes role-specific payloads from
// this one event: customers receive the change without the actor identity,
// administrators receive it with.
type StatusChangedEvent struct {
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	Previous   Status
	New        Status
	ActorID    kernel.UUID
	OccurredAt time.Time
}

// EventName returns "orderStatusChanged".
func (StatusChangedEvent) EventName() string { return "orderStatusChanged" }
