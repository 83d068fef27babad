// Package ws implements the websocket gateway: the single client-facing
// surface of the service. Clients hold one persistent connection over which
// they send commands and receive room broadcasts.
//
// Wire framing. Every frame is a JSON object with an event name and a data
// object. Inbound frames may carry a requestId; when present on an
// acknowledged event (placeOrder, acceptOrder) the gateway answers with an
// "ack" frame echoing that requestId, so the client can correlate. Outbound
// broadcast frames carry only event and data.
package ws

import "encoding/json"

// Inbound event names.
const (
	EventAddToCart         = "addToCart"
	EventRemoveFromCart    = "removeFromCart"
	EventPlaceOrder        = "placeOrder"
	EventGetAllCartItems   = "getAllCartItems"
	EventChangeOrderStatus = "changeOrderStatus"
	EventAcceptOrder       = "acceptOrder"
)

// Outbound event names specific to the gateway. Broadcast event names live
// in the realtime package.
const (
	EventAck          = "ack"
	EventError        = "error"
	EventUnauthorized = "unauthorized"
)

// inboundFrame is one client-to-server message.
type inboundFrame struct {
	Event     string          `json:"event"`
	RequestID string          `json:"requestId,omitempty"`
	Data      json.RawMessage `json:"data"`
}

// outboundFrame is one server-to-client message.
type outboundFrame struct {
	Event     string          `json:"event"`
	RequestID string          `json:"requestId,omitempty"`
	Data      json.RawMessage `json:"data"`
}

// addToCartData is the payload of an addToCart frame.
type addToCartData struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// removeFromCartData is the payload of a removeFromCart frame. CartID may
// be omitted; when present it must name the customer's own cart.
type removeFromCartData struct {
	ProductID string `json:"productId"`
	CartID    string `json:"cartId,omitempty"`
}

// placeOrderData is the payload of a placeOrder frame. CartID may be
// omitted; when present it must name the customer's own cart.
type placeOrderData struct {
	CartID    string `json:"cartId,omitempty"`
	AddressID string `json:"addressId"`
}

// changeOrderStatusData is the payload of a changeOrderStatus frame.
// Who is asking comes from the verified connection identity, never from here.
type changeOrderStatusData struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// acceptOrderData is the payload of an acceptOrder frame.
type acceptOrderData struct {
	OrderID string `json:"orderId"`
}

// ackData answers an acknowledged request. OrderID is set on success of
// order-producing operations.
type ackData struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	OrderID string `json:"orderId,omitempty"`
}

// errorData is the payload of an error frame, delivered only to the
// connection whose request failed.
type errorData struct {
	Message string `json:"message"`
}

// unauthorizedData is sent once before closing a connection that failed
// credential verification.
type unauthorizedData struct {
	Message string `json:"message"`
}
