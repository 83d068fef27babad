package cart

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrCartIsNotConstructed is returned when a Cart instance was not created through
	// the NewCart or RestoreCart factory methods.
	ErrCartIsNotConstructed = errors.New("Cart must be created via NewCart or RestoreCart constructor")
)

// Line is one product entry in a cart: a product reference and a quantity.
// Lines are unique per product; adding an existing product accumulates its
// quantity instead of growing a second line.
type Line struct {
	ProductID kernel.UUID
	Quantity  int
}

// Cart is the aggregate root for a customer's shopping cart. A cart is owned
// by exactly one customer and mutated only through that customer's own
// connections, so writes are naturally serialized and the aggregate needs no
// cross-actor arbitration - unlike Order assignment.
//
// Line order is preserved for display; it is irrelevant for totals.
// A cart is created lazily on first mutation and cleared on checkout.
type Cart struct {
	// id is the unique identifier for the cart
	id kernel.UUID

	// customerID identifies the owning customer
	customerID kernel.UUID

	// lines hold product quantities in insertion order
	lines []Line

	// index maps productID string to position in lines
	index map[string]int

	// isConstructed ensures the cart was created via a constructor
	isConstructed bool
}

// NewCart creates an empty cart for the given customer.
func NewCart(id kernel.UUID, customerID kernel.UUID) (*Cart, error) {
	if err := errors.Join(id.Validate(), customerID.Validate()); err != nil {
		return nil, err
	}

	return &Cart{
		id:            id,
		customerID:    customerID,
		index:         make(map[string]int),
		isConstructed: true,
	}, nil
}

// RestoreCart reconstructs a cart from persistence. Line quantities must be
// positive and products unique; corrupt rows surface as validation errors.
func RestoreCart(id kernel.UUID, customerID kernel.UUID, lines []Line) (*Cart, error) {
	c, err := NewCart(id, customerID)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		if err := line.ProductID.Validate(); err != nil {
			return nil, err
		}
		if line.Quantity <= 0 {
			return nil, errs.NewValueIsInvalidErrorWithCause("quantity",
				fmt.Errorf("%d is not greater than 0", line.Quantity))
		}
		if _, exists := c.index[line.ProductID.String()]; exists {
			return nil, errs.NewValueIsInvalidErrorWithCause("productId",
				fmt.Errorf("duplicate product %s", line.ProductID))
		}
		c.index[line.ProductID.String()] = len(c.lines)
		c.lines = append(c.lines, line)
	}

	return c, nil
}

// Validate ensures the Cart instance was properly constructed through a constructor.
func (c *Cart) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCartIsNotConstructed
	}
	return nil
}

// ID returns the cart's unique identifier.
func (c *Cart) ID() kernel.UUID {
	return c.id
}

// CustomerID returns the owning customer's identifier.
func (c *Cart) CustomerID() kernel.UUID {
	return c.customerID
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// AddItem merges a product into the cart. If the product is already present
// its quantity accumulates; otherwise a new line is appended.
// Returns a validation error if the product ID is invalid or quantity is not positive.
func (c *Cart) AddItem(productID kernel.UUID, quantity int) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	if pos, exists := c.index[productID.String()]; exists {
		c.lines[pos].Quantity += quantity
		return nil
	}

	c.index[productID.String()] = len(c.lines)
	c.lines = append(c.lines, Line{ProductID: productID, Quantity: quantity})
	return nil
}

// RemoveItem removes a product line entirely.
// Returns an object-not-found error if the product is absent from the cart.
func (c *Cart) RemoveItem(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}

	pos, exists := c.index[productID.String()]
	if !exists {
		return errs.NewObjectNotFoundError("productId", productID.String())
	}

	c.lines = append(c.lines[:pos], c.lines[pos+1:]...)
	delete(c.index, productID.String())
	for i := pos; i < len(c.lines); i++ {
		c.index[c.lines[i].ProductID.String()] = i
	}
	return nil
}

// Clear removes every line. Called when checkout snapshots the cart into an order.
func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[string]int)
}
