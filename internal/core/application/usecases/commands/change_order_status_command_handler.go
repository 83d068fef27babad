package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// ChangeOrderStatusCommandHandler advances an order along its lifecycle.
//
// The transition is validated twice. First in memory against the loaded
// aggregate, which checks role gating and ownership. Then by a conditional
// write guarded by the status the handler observed, so a concurrent
// transition that slipped in between the read and the write makes the
// predicate fail instead of silently overwriting it. On predicate failure
// the handler re-reads the order and reports the transition as illegal from
// the fresh status, which is the state the caller actually raced against.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewChangeOrderStatusCommandHandler creates a handler for order status
// transitions. Requires an OrderUoWFactory for the transactional write.
func NewChangeOrderStatusCommandHandler(uowFactory OrderUoWFactory) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the transition and returns the updated order, carrying
// its recorded status-change event for post-commit publication.
//
// Returns an IllegalTransitionError when the move is not allowed from the
// current status, a permission error when the actor's role or identity does
// not authorize the move, and an object-not-found error when the order does
// not exist.
func (h ChangeOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd ChangeOrderStatusCommand,
) (*order.Order, error) {
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

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	previous := o.Status()

	if err = o.TransitionTo(cmd.Requested(), cmd.ActorID(), cmd.ActorRole(), time.Now().UTC()); err != nil {
		return nil, err
	}

	applied, err := orderRepo.UpdateIfStatus(ctx, o, previous)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Someone else moved the order first. Report the conflict against
		// the status that is actually stored now.
		fresh, getErr := orderRepo.Get(ctx, cmd.OrderID())
		if getErr != nil {
			return nil, getErr
		}
		return nil, order.NewIllegalTransitionError(fresh.Status(), cmd.Requested())
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
