package ws

import (
	"context"
	"encoding/json"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/realtime"
)

// dispatch routes one inbound frame to its handler. Events are processed
// one at a time per connection, in arrival order; the read loop does not
// read the next frame until this returns.
//
// Role gating here is coarse: cart events belong to customers, acceptOrder
// to partners. changeOrderStatus passes through for every role because the
// fine-grained rules (customer may only cancel their own pending order,
// partner only advances assigned orders) live in the domain.
func (g *Gateway) dispatch(ctx context.Context, cl *client, frame inboundFrame) {
	switch frame.Event {
	case EventAddToCart:
		g.requireRole(ctx, cl, frame, kernel.RoleCustomer, g.handleAddToCart)
	case EventRemoveFromCart:
		g.requireRole(ctx, cl, frame, kernel.RoleCustomer, g.handleRemoveFromCart)
	case EventPlaceOrder:
		g.requireRole(ctx, cl, frame, kernel.RoleCustomer, g.handlePlaceOrder)
	case EventGetAllCartItems:
		g.requireRole(ctx, cl, frame, kernel.RoleCustomer, g.handleGetAllCartItems)
	case EventAcceptOrder:
		g.requireRole(ctx, cl, frame, kernel.RolePartner, g.handleAcceptOrder)
	case EventChangeOrderStatus:
		g.handleChangeOrderStatus(ctx, cl, frame)
	default:
		g.sendError(cl, frame.RequestID, "unknown event: "+frame.Event)
	}
}

type frameHandler func(ctx context.Context, cl *client, frame inboundFrame)

func (g *Gateway) requireRole(
	ctx context.Context,
	cl *client,
	frame inboundFrame,
	role kernel.Role,
	handler frameHandler,
) {
	if cl.identity.Role != role {
		g.sendError(cl, frame.RequestID, "event not allowed for role "+cl.identity.Role.String())
		return
	}
	handler(ctx, cl, frame)
}

func (g *Gateway) handleAddToCart(ctx context.Context, cl *client, frame inboundFrame) {
	var data addToCartData
	if err := json.Unmarshal(frame.Data, &data); err != nil {
		g.sendError(cl, frame.RequestID, "malformed addToCart payload")
		return
	}

	productID, err := kernel.UUIDFromString(data.ProductID)
	if err != nil {
		g.sendError(cl, frame.RequestID, "invalid product id")
		return
	}

	cmd, err := commands.NewAddCartItemCommand(cl.identity.UserID, productID, data.Quantity)
	if err != nil {
		g.sendError(cl, frame.RequestID, "invalid addToCart request")
		return
	}

	if _, err = g.addCartItemHandler.Handle(ctx, cmd); err != nil {
		g.sendError(cl, frame.RequestID, g.cartErrorMessage(cl, err))
		return
	}

	g.pushCartSnapshot(ctx, cl)
}

func (g *Gateway) handleRemoveFromCart(ctx context.Context, cl *client, frame inboundFrame) {
	var data removeFromCartData
	if err := json.Unmarshal(frame.Data, &data); err != nil {
		g.sendError(cl, frame.RequestID, "malformed removeFromCart payload")
		return
	}

	productID, err := kernel.UUIDFromString(data.ProductID)
	if err != nil {
		g.sendError(cl, frame.RequestID, "invalid product id")
		return
	}

	cartID, problem := g.ownCartID(ctx, cl, data.CartID)
	if problem != "" {
		g.sendError(cl, frame.RequestID, problem)
		return
	}

	cmd, err := commands.NewRemoveCartItemCommand(cl.identity.UserID, cartID, productID)
	if err != nil {
		g.sendError(cl, frame.RequestID, "invalid removeFromCart request")
		return
	}

	if _, err = g.removeCartItemHandler.Handle(ctx, cmd); err != nil {
		g.sendError(cl, frame.RequestID, g.cartErrorMessage(cl, err))
		return
	}

	g.pushCartSnapshot(ctx, cl)
}

func (g *Gateway) handlePlaceOrder(ctx context.Context, cl *client, frame inboundFrame) {
	var data placeOrderData
	if err := json.Unmarshal(frame.Data, &data); err != nil {
		g.sendAck(cl, frame.RequestID, ackData{Success: false, Message: "malformed placeOrder payload"})
		return
	}

	addressID, err := kernel.UUIDFromString(data.AddressID)
	if err != nil {
		g.sendAck(cl, frame.RequestID, ackData{Success: false, Message: "invalid address id"})
		return
	}

	cartID, problem := g.ownCartID(ctx, cl, data.CartID)
	if problem != "" {
		g.sendAck(cl, frame.RequestID, ackData{Success: false, Message: problem})
		return
	}

	cmd, err := commands.NewCheckoutCommand(cl.identity.UserID, cartID, addressID)
	if err != nil {
		g.sendAck(cl, frame.RequestID, ackData{Success: false, Message: "invalid placeOrder request"})
		return
	}

	placed, err := g.checkoutHandler.Handle(ctx, cmd)
	if err != nil {
		g.sendAck(cl, frame.RequestID, ackData{Success: false, Message: g.checkoutErrorMessage(cl, err)})
		return
	}

	g.sendAck(cl, frame.RequestID, ackData{Success: true, OrderID: placed.ID().String()})

	// Strictly post-commit: the handler only returns after the transaction
	// is durable.
	g.dispatcher.DispatchOrderEvents(ctx, placed)
	g.pushCartSnapshot(ctx, cl)
}

func (g *Gateway) handleGetAllCartItems(ctx context.Context, cl *client, frame inboundFrame) {
	g.pushCartSnapshot(ctx, cl)
}

func (g *Gateway) handleAcceptOrder(ctx context.Context, cl *client, frame inboundFrame) {
	var data acceptOrderData
	if err := json.Unmarshal(frame.Data, &data); err != nil {
		g.sendAck(cl, frame.RequestID, ackData{Success: false, Message: "malformed acceptOrder payload"})
		return
	}

	orderID, err := kernel.UUIDFromString(data.OrderID)
	if err != nil {
		g.sendAck(cl, frame.RequestID, ackData{Success: false, Message: "invalid order id"})
		return
	}

	cmd, err := commands.NewClaimOrderCommand(orderID, cl.identity.UserID)
	if err != nil {
		g.sendAck(cl, frame.RequestID, ackData{Success: false, Message: "invalid acceptOrder request"})
		return
	}

	claimed, err := g.claimOrderHandler.Handle(ctx, cmd)
	switch {
	case errorIs(err, commands.ErrOrderAlreadyClaimed):
		g.sendAck(cl, frame.RequestID, ackData{
			Success: false,
			Message: "order already accepted by another partner",
		})
		return
	case errorIs(err, errs.ErrObjectNotFound):
		g.sendAck(cl, frame.RequestID, ackData{Success: false, Message: "order not found"})
		return
	case err != nil:
		g.logger.Error("accept order failed",
			"user_id", cl.identity.UserID.String(), "error", err)
		g.sendAck(cl, frame.RequestID, ackData{Success: false, Message: "could not accept order"})
		return
	}

	g.sendAck(cl, frame.RequestID, ackData{Success: true, OrderID: claimed.ID().String()})
	g.dispatcher.DispatchOrderEvents(ctx, claimed)
}

func (g *Gateway) handleChangeOrderStatus(ctx context.Context, cl *client, frame inboundFrame) {
	var data changeOrderStatusData
	if err := json.Unmarshal(frame.Data, &data); err != nil {
		g.sendError(cl, frame.RequestID, "malformed changeOrderStatus payload")
		return
	}

	orderID, err := kernel.UUIDFromString(data.OrderID)
	if err != nil {
		g.sendError(cl, frame.RequestID, "invalid order id")
		return
	}

	requested, err := order.StatusFromString(data.Status)
	if err != nil {
		g.sendError(cl, frame.RequestID, "unknown status: "+data.Status)
		return
	}

	cmd, err := commands.NewChangeOrderStatusCommand(
		orderID, requested, cl.identity.UserID, cl.identity.Role)
	if err != nil {
		g.sendError(cl, frame.RequestID, "invalid changeOrderStatus request")
		return
	}

	changed, err := g.changeOrderStatusHandler.Handle(ctx, cmd)
	switch {
	case errorIs(err, order.ErrIllegalTransition):
		g.sendError(cl, frame.RequestID, err.Error())
		return
	case errorIs(err, order.ErrActorIsNotOrderOwner, order.ErrActorIsNotAssignedPartner):
		g.sendError(cl, frame.RequestID, "not allowed to change this order")
		return
	case errorIs(err, errs.ErrObjectNotFound):
		g.sendError(cl, frame.RequestID, "order not found")
		return
	case errorIs(err, errs.ErrValueIsInvalid):
		g.sendError(cl, frame.RequestID, "status change not allowed for role "+cl.identity.Role.String())
		return
	case err != nil:
		g.logger.Error("change order status failed",
			"user_id", cl.identity.UserID.String(), "error", err)
		g.sendError(cl, frame.RequestID, "could not change order status")
		return
	}

	g.dispatcher.DispatchOrderEvents(ctx, changed)
}

// ownCartID resolves the acting customer's cart and checks any cart id the
// client supplied against it. An id naming any other cart is reported as not
// found; connections never operate on carts they do not own. Returns a
// client-facing message instead of the id when resolution fails.
func (g *Gateway) ownCartID(ctx context.Context, cl *client, claimed string) (kernel.UUID, string) {
	snapshot, err := g.cartSnapshot(ctx, cl)
	if err != nil || snapshot.CartID.IsEqual(kernel.UUID{}) {
		return kernel.UUID{}, "cart is empty"
	}

	if claimed != "" {
		claimedID, idErr := kernel.UUIDFromString(claimed)
		if idErr != nil || !claimedID.IsEqual(snapshot.CartID) {
			return kernel.UUID{}, "cart not found"
		}
	}

	return snapshot.CartID, ""
}

// cartSnapshot reads the connection owner's authoritative cart state.
func (g *Gateway) cartSnapshot(ctx context.Context, cl *client) (queries.GetCartQueryResponse, error) {
	query, err := queries.NewGetCartQuery(cl.identity.UserID)
	if err != nil {
		return queries.GetCartQueryResponse{}, err
	}

	return g.getCartHandler.Handle(ctx, query)
}

// pushCartSnapshot broadcasts the owner's cart to their identity room, so
// every device of the customer converges on the same state.
func (g *Gateway) pushCartSnapshot(ctx context.Context, cl *client) {
	snapshot, err := g.cartSnapshot(ctx, cl)
	if err != nil {
		g.logger.Error("cart snapshot failed",
			"user_id", cl.identity.UserID.String(), "error", err)
		g.sendError(cl, "", "could not load cart")
		return
	}

	items := make([]realtime.CartItemPayload, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		items = append(items, realtime.CartItemPayload{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
		})
	}

	g.dispatcher.CartChanged(ctx, cl.identity.UserID, realtime.CartPayload{
		CartID: snapshot.CartID.String(),
		Items:  items,
	})
}

func (g *Gateway) cartErrorMessage(cl *client, err error) string {
	switch {
	case errorIs(err, commands.ErrProductIsUnavailable):
		return "product is unavailable"
	case errorIs(err, commands.ErrCartDoesNotBelongToCustomer):
		return "cart does not belong to you"
	case errorIs(err, errs.ErrObjectNotFound):
		return "item not found"
	case errorIs(err, errs.ErrValueIsInvalid, errs.ErrValueIsRequired, errs.ErrValueIsOutOfRange):
		return "invalid cart request"
	default:
		g.logger.Error("cart operation failed",
			"user_id", cl.identity.UserID.String(), "error", err)
		return "could not update cart"
	}
}

func (g *Gateway) checkoutErrorMessage(cl *client, err error) string {
	switch {
	case errorIs(err, commands.ErrCartIsEmpty):
		return "cart is empty"
	case errorIs(err, commands.ErrAddressIsUnknown):
		return "delivery address is unknown"
	case errorIs(err, commands.ErrProductIsUnavailable):
		return "product is unavailable"
	case errorIs(err, errs.ErrObjectNotFound):
		return "item not found"
	default:
		g.logger.Error("checkout failed",
			"user_id", cl.identity.UserID.String(), "error", err)
		return "could not place order"
	}
}

// sendAck answers an acknowledged request on the originating connection only.
func (g *Gateway) sendAck(cl *client, requestID string, data ackData) {
	cl.enqueue(outboundFrame{
		Event:     EventAck,
		RequestID: requestID,
		Data:      mustMarshal(data),
	})
}

// sendError reports a failed request to the originating connection only.
// Other room members never observe another client's failures.
func (g *Gateway) sendError(cl *client, requestID string, message string) {
	cl.enqueue(outboundFrame{
		Event:     EventError,
		RequestID: requestID,
		Data:      mustMarshal(errorData{Message: message}),
	})
}

// mustMarshal marshals payloads whose types cannot fail encoding.
func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
