package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCheckoutCommandIsNotConstructed = errors.New(
	"CheckoutCommand must be created via NewCheckoutCommand constructor",
)

// CheckoutCommand represents a customer's request to turn their cart into a
// new pending order delivered to the chosen address.
//
// Example:
//
//	cmd, err := NewCheckoutCommand(customerID, cartID, addressID)
//	if err != nil {
//	    return fmt.Errorf("invalid checkout request: %w", err)
//	}
//	placed, err := handler.Handle(ctx, cmd)
type CheckoutCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	cartID     kernel.UUID
	addressID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewCheckoutCommand creates a command to check a cart out into a new order.
// All three identifiers must be valid.
func NewCheckoutCommand(customerID kernel.UUID, cartID kernel.UUID, addressID kernel.UUID) (CheckoutCommand, error) {
	cmd := CheckoutCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setCartID(cartID),
		cmd.setAddressID(addressID),
	); err != nil {
		return CheckoutCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCheckoutCommandIsNotConstructed if validation fails.
func (c CheckoutCommand) Validate() error {
	return c.guard.Validate(ErrCheckoutCommandIsNotConstructed)
}

// CustomerID returns the acting customer's identifier.
func (c CheckoutCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// CartID returns the cart being checked out.
func (c CheckoutCommand) CartID() kernel.UUID {
	return c.cartID
}

// AddressID returns the chosen delivery address reference.
func (c CheckoutCommand) AddressID() kernel.UUID {
	return c.addressID
}

func (c *CheckoutCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	c.customerID = customerID
	return nil
}

func (c *CheckoutCommand) setCartID(cartID kernel.UUID) error {
	if err := cartID.Validate(); err != nil {
		return err
	}
	c.cartID = cartID
	return nil
}

func (c *CheckoutCommand) setAddressID(addressID kernel.UUID) error {
	if err := addressID.Validate(); err != nil {
		return err
	}
	c.addressID = addressID
	return nil
}
