package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrClaimOrderCommandIsNotConstructed = errors.New(
	"ClaimOrderCommand must be created via NewClaimOrderCommand constructor",
)

// ClaimOrderCommand represents a delivery partner's atomic attempt to become
// the assigned deliverer of a pending order. Many partners may issue claims
// for the same order concurrently; exactly one wins.
//
// Example:
//
//	cmd, err := NewClaimOrderCommand(orderID, partnerID)
//	if err != nil {
//	    return fmt.Errorf("invalid claim: %w", err)
//	}
//	claimed, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrOrderAlreadyClaimed) {
//	    // lost the race - a normal outcome, not a failure
//	}
type ClaimOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	partnerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewClaimOrderCommand creates a command for a partner to claim a pending order.
// Both identifiers must be valid.
func NewClaimOrderCommand(orderID kernel.UUID, partnerID kernel.UUID) (ClaimOrderCommand, error) {
	cmd := ClaimOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPartnerID(partnerID),
	); err != nil {
		return ClaimOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrClaimOrderCommandIsNotConstructed if validation fails.
func (c ClaimOrderCommand) Validate() error {
	return c.guard.Validate(ErrClaimOrderCommandIsNotConstructed)
}

// OrderID returns the order being claimed.
func (c ClaimOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PartnerID returns the claiming partner's identifier.
func (c ClaimOrderCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

func (c *ClaimOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ClaimOrderCommand) setPartnerID(partnerID kernel.UUID) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}
	c.partnerID = partnerID
	return nil
}
