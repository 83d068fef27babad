// Package order provides domain entities and business logic for order
// management in the fulfillment platform. It implements the Order aggregate
// root with lifecycle management and state transitions.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, items, and lifecycle
//   - Item: An immutable order line with its price captured at order time
//   - Status: A state machine that enforces valid order status transitions
//   - DomainEvent: Events recorded by the aggregate for post-commit fan-out
//
// Key business rules:
//   - Orders must have a valid identifier, owning customer, address, and at least one item
//   - Item prices and the order total are fixed at creation time
//   - Status follows a forward-only workflow: pending -> accepted -> pickedup -> on_the_way -> delivered
//   - Cancellation is possible from pending or accepted only
//   - Exactly one delivery partner ever holds an order; assignment happens once, at acceptance
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
