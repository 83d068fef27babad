package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/cart"
	"fulfillment/internal/core/domain/model/kernel"
)

// CartRepository defines the persistence contract for cart aggregates.
// Carts are single-owner and mutated only through their owning customer's
// connection, so the contract needs no conditional-update primitive.
type CartRepository interface {
	// Add persists a new cart aggregate to storage.
	Add(ctx context.Context, aggregate *cart.Cart) error

	// Update replaces the stored lines with the aggregate's current lines.
	Update(ctx context.Context, aggregate *cart.Cart) error

	// Get retrieves a cart by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*cart.Cart, error)

	// GetByCustomer retrieves the cart owned by the given customer.
	// Returns an object-not-found error if the customer has no cart yet;
	// carts are created lazily on first mutation.
	GetByCustomer(ctx context.Context, customerID kernel.UUID) (*cart.Cart, error)
}
