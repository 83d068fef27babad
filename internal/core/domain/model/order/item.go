package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when an Item instance was not created
// through the NewItem factory method.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is an immutable line of an order. The price is captured from the
// catalog at order-creation time and never changes afterward, so an order's
// recorded total is insulated from later catalog price changes.
type Item struct {
	productID kernel.UUID
	name      string
	price     kernel.Money
	quantity  int

	guard guard.ConstructorGuard
}

// NewItem creates an order line with the price snapshotted at creation time.
// Returns an error if the product ID or price is invalid, the name is empty,
// or the quantity is not positive.
func NewItem(productID kernel.UUID, name string, price kernel.Money, quantity int) (Item, error) {
	if err := productID.Validate(); err != nil {
		return Item{}, err
	}
	if name == "" {
		return Item{}, errs.NewValueIsRequiredError("name")
	}
	if err := price.Validate(); err != nil {
		return Item{}, err
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	return Item{
		productID: productID,
		name:      name,
		price:     price,
		quantity:  quantity,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// ProductID returns the catalog reference of the line.
func (i Item) ProductID() kernel.UUID {
	return i.productID
}

// Name returns the product name as it was at order time.
func (i Item) Name() string {
	return i.name
}

// Price returns the per-unit price captured at order-creation time.
func (i Item) Price() kernel.Money {
	return i.price
}

// Quantity returns the number of units ordered.
func (i Item) Quantity() int {
	return i.quantity
}

// Subtotal returns price multiplied by quantity.
func (i Item) Subtotal() kernel.Money {
	return i.price.MulQuantity(i.quantity)
}

// Validate ensures the Item was created via NewItem.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}
