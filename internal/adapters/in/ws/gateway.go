package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/realtime"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// CartReader serves the authoritative cart snapshot for a customer.
// Satisfied by queries.GetCartQueryHandler.
type CartReader interface {
	Handle(ctx context.Context, query queries.GetCartQuery) (queries.GetCartQueryResponse, error)
}

// Gateway upgrades HTTP requests to websocket connections, authenticates
// them, and bridges inbound events to command and query handlers.
//
// Authentication happens exactly once, at handshake. The verified identity
// and role are pinned to the connection and used for every subsequent event;
// identity fields inside event payloads are never read. A connection that
// fails verification receives a single unauthorized frame and is closed
// before any event is dispatched.
type Gateway struct {
	upgrader   websocket.Upgrader
	verifier   ports.TokenVerifier
	registry   *realtime.Registry
	dispatcher *realtime.Dispatcher

	addCartItemHandler       commands.AddCartItemCommandHandler
	removeCartItemHandler    commands.RemoveCartItemCommandHandler
	checkoutHandler          commands.CheckoutCommandHandler
	claimOrderHandler        commands.ClaimOrderCommandHandler
	changeOrderStatusHandler commands.ChangeOrderStatusCommandHandler
	getCartHandler           CartReader

	logger *slog.Logger
}

// NewGateway creates the websocket gateway with its collaborators.
func NewGateway(
	verifier ports.TokenVerifier,
	registry *realtime.Registry,
	dispatcher *realtime.Dispatcher,
	addCartItemHandler commands.AddCartItemCommandHandler,
	removeCartItemHandler commands.RemoveCartItemCommandHandler,
	checkoutHandler commands.CheckoutCommandHandler,
	claimOrderHandler commands.ClaimOrderCommandHandler,
	changeOrderStatusHandler commands.ChangeOrderStatusCommandHandler,
	getCartHandler CartReader,
	logger *slog.Logger,
) *Gateway {
	return &Gateway{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from separate app origins; access
			// control is the token's job, not the Origin header's.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		verifier:                 verifier,
		registry:                 registry,
		dispatcher:               dispatcher,
		addCartItemHandler:       addCartItemHandler,
		removeCartItemHandler:    removeCartItemHandler,
		checkoutHandler:          checkoutHandler,
		claimOrderHandler:        claimOrderHandler,
		changeOrderStatusHandler: changeOrderStatusHandler,
		getCartHandler:           getCartHandler,
		logger:                   logger.With("component", "ws-gateway"),
	}
}

// Handle serves one websocket connection for its whole lifetime.
// Mounted on the echo router at /ws.
func (g *Gateway) Handle(c echo.Context) error {
	conn, err := g.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	identity, err := g.verifier.Verify(ctx, bearerToken(c))
	if err != nil {
		g.rejectUnauthorized(conn)
		return nil
	}

	cl := newClient(conn, identity, g.logger)
	go cl.writePump()

	g.join(cl)
	g.dispatcher.PresenceChanged(ctx, identity.UserID, identity.Role, true)

	g.logger.Info("client connected",
		"user_id", identity.UserID.String(),
		"role", identity.Role.String(),
	)

	g.readLoop(c, cl)

	g.registry.LeaveAll(cl)
	g.dispatcher.PresenceChanged(ctx, identity.UserID, identity.Role, false)
	cl.close()

	g.logger.Info("client disconnected", "user_id", identity.UserID.String())
	return nil
}

// join subscribes the connection to its rooms. The identity room is
// unconditional; the admin and partner rooms are entered on verified role
// only, so no client can opt into an oversight audience it does not hold.
func (g *Gateway) join(cl *client) {
	g.registry.Join(realtime.UserRoom(cl.identity.UserID), cl)

	switch cl.identity.Role {
	case kernel.RoleAdmin:
		g.registry.Join(realtime.AdminRoom, cl)
	case kernel.RolePartner:
		g.registry.Join(realtime.PartnerRoom, cl)
	}
}

func (g *Gateway) readLoop(c echo.Context, cl *client) {
	conn := cl.conn
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.logger.Warn("read failed",
					"user_id", cl.identity.UserID.String(), "error", err)
			}
			return
		}

		g.dispatch(c.Request().Context(), cl, frame)
	}
}

// rejectUnauthorized tells the client why it is being dropped, then closes.
func (g *Gateway) rejectUnauthorized(conn *websocket.Conn) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteJSON(outboundFrame{
		Event: EventUnauthorized,
		Data:  mustMarshal(unauthorizedData{Message: "credential is invalid or expired"}),
	})
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthorized"))
	_ = conn.Close()
}

func bearerToken(c echo.Context) string {
	if token := c.QueryParam("token"); token != "" {
		return token
	}

	const prefix = "Bearer "
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

func errorIs(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
