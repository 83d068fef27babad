package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// ErrOrderAlreadyClaimed is the lost-race outcome of a claim: another partner
// accepted the order first. It is a normal business result, distinguished
// from real errors so callers can tell the user "order already taken" instead
// of reporting a failure.
var ErrOrderAlreadyClaimed = errors.New("order already accepted by another partner")

// ClaimOrderCommandHandler resolves the race where multiple partners attempt
// to accept the same pending order.
//
// The decisive step is a single conditional write: "set status to accepted
// and assign this partner iff the stored status is still pending". The store
// applies it atomically, so of N concurrent claims - even across separate
// application-server instances - exactly one observes a successful write and
// every other observes the predicate fail. No read-then-write pair could give
// that guarantee.
//
// The write runs inside a unit of work so that any auxiliary bookkeeping
// added later commits or rolls back with it; on any internal failure the
// order remains pending.
//
// Example:
//
//	handler := NewClaimOrderCommandHandler(uowFactory)
//	cmd, _ := NewClaimOrderCommand(orderID, partnerID)
//	claimed, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrOrderAlreadyClaimed):
//	    ack(false, "order already accepted by someone else")
//	case err != nil:
//	    ack(false, "could not accept order")
//	default:
//	    ack(true, "order accepted")
//	}
type ClaimOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewClaimOrderCommandHandler creates a handler for order claim operations.
// Requires an OrderUoWFactory for the transactional conditional write.
func NewClaimOrderCommandHandler(uowFactory OrderUoWFactory) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the claim and returns the accepted order on victory.
//
// Returns ErrOrderAlreadyClaimed when the race is lost, an object-not-found
// error when the order does not exist, and the underlying store error
// otherwise. Store errors are surfaced, never silently retried: a retry is
// not safe to assume idempotent without re-checking state.
func (h ClaimOrderCommandHandler) Handle(ctx context.Context, cmd ClaimOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	claimed, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = claimed.Accept(cmd.PartnerID(), time.Now().UTC()); err != nil {
		if errors.Is(err, order.ErrIllegalTransition) || errors.Is(err, order.ErrPartnerAlreadyAssigned) {
			return nil, ErrOrderAlreadyClaimed
		}
		return nil, err
	}

	// The in-memory Accept above validated against a possibly stale read;
	// the conditional update is what actually decides the race.
	won, err := orderRepo.UpdateIfStatus(ctx, claimed, order.StatusPending)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, ErrOrderAlreadyClaimed
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return claimed, nil
}
