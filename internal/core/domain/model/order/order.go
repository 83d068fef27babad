package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrActorIsNotOrderOwner is returned when a customer attempts to act on
	// an order that belongs to a different customer.
	ErrActorIsNotOrderOwner = errors.New("customer may only act on their own order")

	// ErrActorIsNotAssignedPartner is returned when a partner attempts to
	// advance an order assigned to a different partner.
	ErrActorIsNotAssignedPartner = errors.New("partner is not assigned to this order")

	// ErrPartnerAlreadyAssigned is returned when acceptance would overwrite an
	// existing assignment. Once set, the delivery partner is never reassigned
	// by the acceptance path.
	ErrPartnerAlreadyAssigned = errors.New("order already has an assigned delivery partner")
)

// Order represents a customer order in the system. It is the aggregate root
// that manages the order lifecycle from placement through assignment to
// delivery or cancellation.
//
// Order maintains these invariants:
//   - Must have valid order, customer, and delivery address identifiers
//   - Must contain at least one item; item prices are captured at creation and never change
//   - The total price is computed once at creation from the captured item prices
//   - The delivery partner is non-nil if and only if the status is
//     Accepted, PickedUp, OnTheWay, or Delivered
//   - Status transitions follow the forward-only state machine in Status
//   - Can only be created through NewOrder or RestoreOrder
//
// Every successful mutation records a DomainEvent on the aggregate; the
// application layer publishes those events after the transaction commits.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// customerID identifies the owning customer
	customerID kernel.UUID

	// partnerID is the assigned delivery partner's ID (nil until accepted)
	partnerID *kernel.UUID

	// addressID references the delivery address chosen at checkout
	addressID kernel.UUID

	// items are the order lines with prices captured at creation time
	items []Item

	// totalPrice is derived from items exactly once at creation
	totalPrice kernel.Money

	// status is the current state in the order lifecycle
	status Status

	createdAt time.Time
	updatedAt time.Time

	// events are the domain events recorded since the last ClearDomainEvents
	events []DomainEvent

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order in Pending status with no delivery partner.
// The total price is computed from the item subtotals and fixed for the
// lifetime of the order. A PlacedEvent is recorded on success.
//
// Returns a validation error if any identifier is invalid, items is empty,
// or any item was not built via NewItem.
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	addressID kernel.UUID,
	items []Item,
	now time.Time,
) (*Order, error) {
	if err := errors.Join(id.Validate(), customerID.Validate(), addressID.Validate()); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	total := kernel.ZeroMoney()
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		total = total.Add(item.Subtotal())
	}

	o := &Order{
		id:            id,
		customerID:    customerID,
		addressID:     addressID,
		items:         append([]Item(nil), items...),
		totalPrice:    total,
		status:        StatusPending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	o.recordEvent(PlacedEvent{
		OrderID:    id,
		CustomerID: customerID,
		OccurredAt: now,
	})

	return o, nil
}

// RestoreOrder reconstructs an Order from persistence without recording any
// events. It re-checks the status/partner coherence invariant so corrupt rows
// surface as errors instead of silently violating the state machine.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	partnerID *kernel.UUID,
	addressID kernel.UUID,
	items []Item,
	totalPrice kernel.Money,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		customerID.Validate(),
		addressID.Validate(),
		totalPrice.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}
	if err := validatePartnerCoherence(status, partnerID); err != nil {
		return nil, err
	}

	return &Order{
		id:            id,
		customerID:    customerID,
		partnerID:     partnerID,
		addressID:     addressID,
		items:         append([]Item(nil), items...),
		totalPrice:    totalPrice,
		status:        status,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}, nil
}

// validatePartnerCoherence enforces: partner assigned iff status is in the
// assigned segment of the lifecycle (Accepted, PickedUp, OnTheWay, Delivered).
func validatePartnerCoherence(status Status, partnerID *kernel.UUID) error {
	assigned := partnerID != nil
	requiresPartner := status == StatusAccepted || status == StatusPickedUp ||
		status == StatusOnTheWay || status == StatusDelivered

	if assigned && !requiresPartner {
		return errs.NewValueIsInvalidErrorWithCause("deliveryPartnerId",
			errors.New(status.String()+" order must not have a delivery partner"))
	}
	if !assigned && requiresPartner {
		return errs.NewValueIsInvalidErrorWithCause("deliveryPartnerId",
			errors.New(status.String()+" order must have a delivery partner"))
	}
	return nil
}

// Validate ensures the Order instance was properly constructed through a
// constructor. Call when reconstructing orders from persistence to ensure
// data integrity.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the owning customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// DeliveryPartner returns the assigned partner's ID, or nil before acceptance.
func (o *Order) DeliveryPartner() *kernel.UUID {
	return o.partnerID
}

// DeliveryAddressID returns the delivery address reference chosen at checkout.
func (o *Order) DeliveryAddressID() kernel.UUID {
	return o.addressID
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// TotalPrice returns the total computed at creation time.
func (o *Order) TotalPrice() kernel.Money {
	return o.totalPrice
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// CreatedAt returns when the order was placed.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns when the order last changed.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Accept assigns the order to a delivery partner and moves it to Accepted.
//
// Business rules enforced here:
//   - the partner ID must be valid
//   - the order must still be Pending
//   - an already assigned order is never reassigned by this path
//
// Note that in-memory enforcement is necessary but not sufficient for the
// concurrent claim race: the repository must apply the same Pending check as
// a conditional update so that concurrent claimers resolve to one winner at
// the store. Accept records a StatusChangedEvent with the partner as actor.
func (o *Order) Accept(partnerID kernel.UUID, now time.Time) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}
	if o.partnerID != nil {
		return ErrPartnerAlreadyAssigned
	}
	if !StatusAccepted.CanTransitionFrom(o.status) {
		return NewIllegalTransitionError(o.status, StatusAccepted)
	}

	previous := o.status
	o.status = StatusAccepted
	o.partnerID = &partnerID
	o.updatedAt = now

	o.recordEvent(StatusChangedEvent{
		OrderID:    o.id,
		CustomerID: o.customerID,
		Previous:   previous,
		New:        StatusAccepted,
		ActorID:    partnerID,
		OccurredAt: now,
	})
	return nil
}

// TransitionTo applies a status change requested by the given actor.
//
// The transition must be legal for the current status (forward-only, one
// stage at a time, cancellation from Pending or Accepted only) and permitted
// for the actor's role. Customers may only cancel their own pending order;
// partners may only advance orders assigned to them; admins may apply any
// legal transition as an operational override.
//
// Acceptance goes through Accept, not TransitionTo, because it also assigns
// the partner and must race through the store's conditional update.
//
// Cancelling an Accepted order releases the partner assignment to preserve
// the status/partner coherence invariant. A StatusChangedEvent is recorded
// on success.
func (o *Order) TransitionTo(next Status, actorID kernel.UUID, actorRole kernel.Role, now time.Time) error {
	if err := errors.Join(next.Validate(), actorID.Validate(), actorRole.Validate()); err != nil {
		return err
	}

	if !next.CanBeRequestedBy(actorRole) {
		return errs.NewValueIsInvalidErrorWithCause("status",
			errors.New(actorRole.String()+" may not request "+next.String()))
	}
	if actorRole == kernel.RoleCustomer && !actorID.IsEqual(o.customerID) {
		return ErrActorIsNotOrderOwner
	}
	if actorRole == kernel.RoleCustomer && o.status != StatusPending {
		return NewIllegalTransitionError(o.status, next)
	}
	if actorRole == kernel.RolePartner && (o.partnerID == nil || !actorID.IsEqual(*o.partnerID)) {
		return ErrActorIsNotAssignedPartner
	}
	if !next.CanTransitionFrom(o.status) {
		return NewIllegalTransitionError(o.status, next)
	}

	previous := o.status
	o.status = next
	if next == StatusCancelled {
		o.partnerID = nil
	}
	o.updatedAt = now

	o.recordEvent(StatusChangedEvent{
		OrderID:    o.id,
		CustomerID: o.customerID,
		Previous:   previous,
		New:        next,
		ActorID:    actorID,
		OccurredAt: now,
	})
	return nil
}

// DomainEvents returns the events recorded since the last ClearDomainEvents,
// in the order they occurred.
func (o *Order) DomainEvents() []DomainEvent {
	return append([]DomainEvent(nil), o.events...)
}

// ClearDomainEvents drops recorded events. The application layer calls this
// after publishing post-commit.
func (o *Order) ClearDomainEvents() {
	o.events = nil
}

func (o *Order) recordEvent(event DomainEvent) {
	o.events = append(o.events, event)
}
