package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/cart"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

var (
	// ErrCartIsEmpty is returned when checkout finds no lines to snapshot.
	ErrCartIsEmpty = errors.New("cart is empty")

	// ErrAddressIsUnknown is returned when the chosen delivery address does
	// not exist or does not belong to the acting customer.
	ErrAddressIsUnknown = errors.New("delivery address is unknown")
)

// CheckoutCommandHandler turns a customer's cart into a new pending order.
//
// Within one transaction it snapshots the cart lines with their current
// catalog prices into immutable order items, persists the order, and clears
// the cart. Prices are captured here and never change afterward, so later
// catalog updates cannot alter the order's recorded total. On any failure the
// whole attempt rolls back: no cleared cart without an order, no order from
// an uncleared cart.
//
// Example:
//
//	handler := NewCheckoutCommandHandler(uowFactory, catalog, addresses)
//	cmd, _ := NewCheckoutCommand(customerID, cartID, addressID)
//	placed, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("checkout failed: %w", err)
//	}
type CheckoutCommandHandler struct {
	uowFactory UoWFactory
	catalog    ports.ProductCatalog
	addresses  ports.AddressBook
}

// NewCheckoutCommandHandler creates a handler for checkout operations.
// Requires a cross-aggregate UoWFactory plus the catalog and address
// collaborator ports.
func NewCheckoutCommandHandler(
	uowFactory UoWFactory,
	catalog ports.ProductCatalog,
	addresses ports.AddressBook,
) CheckoutCommandHandler {
	return CheckoutCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		addresses:  addresses,
	}
}

// Handle processes the checkout command and returns the newly placed order.
// The returned aggregate carries its recorded PlacedEvent for post-commit
// fan-out to the administrative room.
func (h CheckoutCommandHandler) Handle(ctx context.Context, cmd CheckoutCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	exists, err := h.addresses.AddressExists(ctx, cmd.CustomerID(), cmd.AddressID())
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrAddressIsUnknown
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cartRepo := uow.CartRepository()
	orderRepo := uow.OrderRepository()

	customerCart, err := cartRepo.Get(ctx, cmd.CartID())
	if err != nil {
		return nil, err
	}
	if !customerCart.CustomerID().IsEqual(cmd.CustomerID()) {
		return nil, ErrCartDoesNotBelongToCustomer
	}
	if customerCart.IsEmpty() {
		return nil, ErrCartIsEmpty
	}

	items, err := h.snapshotItems(ctx, customerCart.Lines())
	if err != nil {
		return nil, err
	}

	placed, err := order.NewOrder(kernel.NewUUID(), cmd.CustomerID(), cmd.AddressID(), items, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err = orderRepo.Add(ctx, placed); err != nil {
		return nil, err
	}

	customerCart.Clear()
	if err = cartRepo.Update(ctx, customerCart); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return placed, nil
}

// snapshotItems resolves every cart line against the catalog and freezes the
// current price into an order item.
func (h CheckoutCommandHandler) snapshotItems(ctx context.Context, lines []cart.Line) ([]order.Item, error) {
	items := make([]order.Item, 0, len(lines))
	for _, line := range lines {
		product, err := h.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.Available {
			return nil, ErrProductIsUnavailable
		}

		item, err := order.NewItem(product.ID, product.Name, product.Price, line.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
