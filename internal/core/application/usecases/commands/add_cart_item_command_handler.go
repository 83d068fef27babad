package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/cart"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ErrProductIsUnavailable is returned when a cart mutation references a
// product the catalog does not currently offer.
var ErrProductIsUnavailable = errors.New("product is unavailable")

// AddCartItemCommandHandler handles the business logic for cart additions.
// Resolves the product against the catalog, creates the customer's cart
// lazily on first mutation, and merges quantities for repeat products.
//
// Example:
//
//	handler := NewAddCartItemCommandHandler(uowFactory, catalog)
//	cmd, _ := NewAddCartItemCommand(customerID, productID, 2)
//	updated, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("add to cart failed: %w", err)
//	}
type AddCartItemCommandHandler struct {
	uowFactory CartUoWFactory
	catalog    ports.ProductCatalog
}

// NewAddCartItemCommandHandler creates a handler for cart addition operations.
// Requires a CartUoWFactory for transactional persistence and a ProductCatalog
// for availability checks.
func NewAddCartItemCommandHandler(uowFactory CartUoWFactory, catalog ports.ProductCatalog) AddCartItemCommandHandler {
	return AddCartItemCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
	}
}

// Handle processes the cart addition command and returns the updated cart.
// The referenced product must exist and be available. A customer's cart is
// created lazily the first time they add an item.
func (h AddCartItemCommandHandler) Handle(ctx context.Context, cmd AddCartItemCommand) (*cart.Cart, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	product, err := h.catalog.GetProduct(ctx, cmd.ProductID())
	if err != nil {
		return nil, err
	}
	if !product.Available {
		return nil, ErrProductIsUnavailable
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cartRepo := uow.CartRepository()

	customerCart, err := cartRepo.GetByCustomer(ctx, cmd.CustomerID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		customerCart, err = cart.NewCart(kernel.NewUUID(), cmd.CustomerID())
		if err != nil {
			return nil, err
		}
		if err = customerCart.AddItem(cmd.ProductID(), cmd.Quantity()); err != nil {
			return nil, err
		}
		if err = cartRepo.Add(ctx, customerCart); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err = customerCart.AddItem(cmd.ProductID(), cmd.Quantity()); err != nil {
			return nil, err
		}
		if err = cartRepo.Update(ctx, customerCart); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return customerCart, nil
}
