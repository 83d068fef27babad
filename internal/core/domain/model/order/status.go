package order

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a forward-only state machine: an order progresses one stage at
// a time and never skips or reverses a stage.
//
// State transitions:
//
//	Pending ──> Accepted ──> PickedUp ──> OnTheWay ──> Delivered
//	   │            │
//	   └────────────┴──> Cancelled
//
// Delivered and Cancelled are terminal. Status is a value object that validates
// state transitions and provides wire representations for persistence and
// event payloads.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status when an order is placed.
	// Pending orders have no delivery partner and are open to claims.
	StatusPending

	// StatusAccepted indicates exactly one delivery partner has claimed the order.
	StatusAccepted

	// StatusPickedUp indicates the partner has collected the order.
	StatusPickedUp

	// StatusOnTheWay indicates the order is in transit to the customer.
	StatusOnTheWay

	// StatusDelivered indicates the order reached the customer. Terminal.
	StatusDelivered

	// StatusCancelled indicates the order was withdrawn before pickup. Terminal.
	StatusCancelled
)

// getStatusStrings returns the mapping of Status values to their wire names.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "unknown",
		StatusPending:   "pending",
		StatusAccepted:  "accepted",
		StatusPickedUp:  "pickedup",
		StatusOnTheWay:  "on_the_way",
		StatusDelivered: "delivered",
		StatusCancelled: "cancelled",
	}
}

// getValidStatusStrings returns the mapping of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		StatusPending:   "pending",
		StatusAccepted:  "accepted",
		StatusPickedUp:  "pickedup",
		StatusOnTheWay:  "on_the_way",
		StatusDelivered: "delivered",
		StatusCancelled: "cancelled",
	}
}

// StatusFromString parses a status from its wire representation.
// Returns an error for any string that does not name a valid status.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
// StatusUnknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, e.g. "on_the_way".
// Implements the fmt.Stringer interface and is safe to call on any
// Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// RequiredPredecessor returns the status an order must currently hold for a
// forward transition into s to be legal. The returned predecessor is the
// predicate of the store's conditional update: "set status to s iff status is
// still RequiredPredecessor(s)".
//
// Cancellation has two legal origins (Pending and Accepted), so it is not
// expressible as a single predecessor; CanTransitionFrom covers it.
func (s Status) RequiredPredecessor() (Status, error) {
	switch s {
	case StatusAccepted:
		return StatusPending, nil
	case StatusPickedUp:
		return StatusAccepted, nil
	case StatusOnTheWay:
		return StatusPickedUp, nil
	case StatusDelivered:
		return StatusOnTheWay, nil
	default:
		return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s has no forward predecessor", s))
	}
}

// CanTransitionFrom reports whether a transition from current to s is legal,
// ignoring who requests it. Forward progression moves exactly one stage;
// cancellation is reachable from Pending and Accepted only.
func (s Status) CanTransitionFrom(current Status) bool {
	if s == StatusCancelled {
		return current == StatusPending || current == StatusAccepted
	}

	predecessor, err := s.RequiredPredecessor()
	if err != nil {
		return false
	}
	return current == predecessor
}

// CanBeRequestedBy reports whether the given role may request a transition
// into s. Actor identity checks (order ownership, assigned partner) are the
// aggregate's concern; this gates by role only:
//
//   - partner drives the forward progression accepted -> ... -> delivered
//   - customer may only cancel
//   - admin may apply any transition as an operational override
func (s Status) CanBeRequestedBy(role kernel.Role) bool {
	switch role {
	case kernel.RoleAdmin:
		return true
	case kernel.RolePartner:
		return s == StatusAccepted || s == StatusPickedUp || s == StatusOnTheWay || s == StatusDelivered
	case kernel.RoleCustomer:
		return s == StatusCancelled
	default:
		return false
	}
}
