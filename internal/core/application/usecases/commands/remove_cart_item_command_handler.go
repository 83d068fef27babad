package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/cart"
)

// ErrCartDoesNotBelongToCustomer is returned when a cart mutation names a
// cart owned by a different customer. The acting identity comes from the
// verified connection, never from the payload, so this guards against a
// client replaying another customer's cart ID.
var ErrCartDoesNotBelongToCustomer = errors.New("cart does not belong to the acting customer")

// RemoveCartItemCommandHandler handles the business logic for cart removals.
// Verifies cart ownership before mutating and fails with an object-not-found
// error when the product line is absent.
type RemoveCartItemCommandHandler struct {
	uowFactory CartUoWFactory
}

// NewRemoveCartItemCommandHandler creates a handler for cart removal operations.
// Requires a CartUoWFactory for transactional persistence.
func NewRemoveCartItemCommandHandler(uowFactory CartUoWFactory) RemoveCartItemCommandHandler {
	return RemoveCartItemCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the cart removal command and returns the updated cart.
func (h RemoveCartItemCommandHandler) Handle(ctx context.Context, cmd RemoveCartItemCommand) (*cart.Cart, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cartRepo := uow.CartRepository()

	customerCart, err := cartRepo.Get(ctx, cmd.CartID())
	if err != nil {
		return nil, err
	}
	if !customerCart.CustomerID().IsEqual(cmd.CustomerID()) {
		return nil, ErrCartDoesNotBelongToCustomer
	}

	if err = customerCart.RemoveItem(cmd.ProductID()); err != nil {
		return nil, err
	}

	if err = cartRepo.Update(ctx, customerCart); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return customerCart, nil
}
