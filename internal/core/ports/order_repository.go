package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities, plus
// the conditional write primitive the acceptance race depends on.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with its current status and assignment.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// UpdateIfStatus persists the aggregate's current state only if the
	// stored row still holds the expected status. The check-and-set is a
	// single conditional UPDATE at the store, never a read-then-write pair,
	// so concurrent writers racing on the same order resolve atomically
	// even across application-server instances.
	//
	// Returns false with a nil error when the predicate no longer holds -
	// a legitimate lost-race outcome, not a failure.
	UpdateIfStatus(ctx context.Context, aggregate *order.Order, expected order.Status) (bool, error)

	// GetAllPending retrieves every order still open to partner claims.
	GetAllPending(ctx context.Context) ([]*order.Order, error)

	// GetByCustomer retrieves all orders owned by the given customer.
	GetByCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error)

	// GetByPartner retrieves all orders assigned to the given delivery partner.
	GetByPartner(ctx context.Context, partnerID kernel.UUID) ([]*order.Order, error)
}
