package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand represents a request to move an order to the next
// lifecycle stage. The actor's identity and role come from the verified
// connection, never from the inbound payload.
//
// Acceptance is not requested through this command - claiming goes through
// ClaimOrderCommand because it also assigns the delivery partner.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	requested order.Status
	actorID   kernel.UUID
	actorRole kernel.Role

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand creates a command to transition an order's status.
// Validates identifiers, the requested status, and the actor role.
func NewChangeOrderStatusCommand(
	orderID kernel.UUID,
	requested order.Status,
	actorID kernel.UUID,
	actorRole kernel.Role,
) (ChangeOrderStatusCommand, error) {
	cmd := ChangeOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRequested(requested),
		cmd.setActor(actorID, actorRole),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrChangeOrderStatusCommandIsNotConstructed if validation fails.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Requested returns the target status.
func (c ChangeOrderStatusCommand) Requested() order.Status {
	return c.requested
}

// ActorID returns the verified identity requesting the transition.
func (c ChangeOrderStatusCommand) ActorID() kernel.UUID {
	return c.actorID
}

// ActorRole returns the verified role of the requesting actor.
func (c ChangeOrderStatusCommand) ActorRole() kernel.Role {
	return c.actorRole
}

func (c *ChangeOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setRequested(requested order.Status) error {
	if err := requested.Validate(); err != nil {
		return err
	}
	c.requested = requested
	return nil
}

func (c *ChangeOrderStatusCommand) setActor(actorID kernel.UUID, actorRole kernel.Role) error {
	if err := errors.Join(actorID.Validate(), actorRole.Validate()); err != nil {
		return err
	}
	c.actorID = actorID
	c.actorRole = actorRole
	return nil
}
