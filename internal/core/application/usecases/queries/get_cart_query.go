// Package queries implements the read side of the application.
// Query handlers bypass the domain aggregates and read projections straight
// from the database, returning flat response structs shaped for the callers
// (the websocket gateway and the jobs).
package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetCartQueryIsNotConstructed = errors.New(
		"GetCartQuery must be created via NewGetCartQuery constructor",
	)
)

// GetCartQuery retrieves the authoritative cart snapshot for a customer.
// The gateway runs it after every cart mutation to build the updatedCartData
// payload, and on explicit request so a reconnecting client can re-sync.
//
// Example:
//
//	query, err := NewGetCartQuery(customerID)
//	if err != nil {
//	    return err
//	}
//	handler := NewGetCartQueryHandler(db)
//
//	cart, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get cart: %w", err)
//	}
//
//	fmt.Printf("Cart %s has %d items\n", cart.CartID, len(cart.Items))
type GetCartQuery struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCartQuery creates a query to retrieve a customer's cart.
// Validates the customer identifier.
func NewGetCartQuery(customerID kernel.UUID) (GetCartQuery, error) {
	query := GetCartQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setCustomerID(customerID); err != nil {
		return GetCartQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetCartQueryIsNotConstructed if validation fails.
func (q GetCartQuery) Validate() error {
	return q.guard.Validate(ErrGetCartQueryIsNotConstructed)
}

// CustomerID returns the cart owner's identifier.
func (q GetCartQuery) CustomerID() kernel.UUID {
	return q.customerID
}

func (q *GetCartQuery) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	q.customerID = customerID
	return nil
}

// GetCartQueryResponse represents a customer's cart contents.
// A customer without a cart gets an empty response with a zero CartID, which
// serializes to the same empty-cart payload as a cart with no items.
type GetCartQueryResponse struct {
	CartID kernel.UUID
	Items  []GetCartQueryItem
}

// GetCartQueryItem represents a single cart line in insertion order.
type GetCartQueryItem struct {
	ProductID kernel.UUID
	Quantity  int
}
