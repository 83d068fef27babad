package order

import (
	"errors"
	"fmt"
)

// ErrIllegalTransition is the sentinel for state-machine violations.
// Use errors.Is to classify; the concrete IllegalTransitionError carries the
// offending pair of statuses.
var ErrIllegalTransition = errors.New("illegal order status transition")

// IllegalTransitionError reports a rejected status transition, naming the
// status the order currently holds so callers can tell the user which stage
// is actually required. Unwraps to ErrIllegalTransition.
type IllegalTransitionError struct {
	From Status
	To   Status
}

// NewIllegalTransitionError creates an IllegalTransitionError for the given pair.
func NewIllegalTransitionError(from, to Status) *IllegalTransitionError {
	return &IllegalTransitionError{From: from, To: to}
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot move from %s to %s", ErrIllegalTransition, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}
