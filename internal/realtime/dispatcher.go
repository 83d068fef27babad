package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// Outbound event names. They match what connected clients subscribe to.
const (
	EventOrderPlaced        = "orderPlaced"
	EventOrderStatusChanged = "orderStatusChanged"
	EventUpdatedCartData    = "updatedCartData"
	EventPendingOrders      = "pendingOrdersNotification"
	EventPresenceChanged    = "presenceChanged"
)

// OrderPlacedPayload is the admin-room view of a newly placed order.
type OrderPlacedPayload struct {
	OrderID    string             `json:"orderId"`
	CustomerID string             `json:"customerId"`
	AddressID  string             `json:"addressId"`
	Items      []OrderItemPayload `json:"items"`
	TotalPrice string             `json:"totalPrice"`
	Status     string             `json:"status"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// OrderItemPayload is one priced line inside OrderPlacedPayload.
type OrderItemPayload struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

// StatusChangePayload is the customer-room view of a status change.
// It deliberately omits who performed the change.
type StatusChangePayload struct {
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AdminStatusChangePayload is the admin-room view of a status change,
// extending the customer view with the acting user.
type AdminStatusChangePayload struct {
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	UpdatedBy string    `json:"updatedBy"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CartPayload is the full cart snapshot sent to the owning customer.
type CartPayload struct {
	CartID string            `json:"cartId"`
	Items  []CartItemPayload `json:"items"`
}

// CartItemPayload is one line inside CartPayload.
type CartItemPayload struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// PendingOrdersPayload is the partner-room backlog notification.
type PendingOrdersPayload struct {
	Count      int       `json:"count"`
	NotifiedAt time.Time `json:"notifiedAt"`
}

// PresencePayload tells the admin room that a user connected or disconnected.
type PresencePayload struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	Online bool   `json:"online"`
}

// Dispatcher turns committed domain events into role-scoped room broadcasts.
//
// It is called strictly after the transaction that produced the events has
// committed, so clients never observe a state that may still roll back. One
// domain event can fan out to several rooms with differently shaped payloads;
// audiences only receive fields meant for their role.
type Dispatcher struct {
	transport Transport
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher publishing through the given transport.
func NewDispatcher(transport Transport, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		transport: transport,
		logger:    logger.With("component", "dispatcher"),
	}
}

// DispatchOrderEvents publishes the aggregate's recorded events and clears
// them. Call after commit with the aggregate the command handler returned.
func (d *Dispatcher) DispatchOrderEvents(ctx context.Context, o *order.Order) {
	for _, event := range o.DomainEvents() {
		switch e := event.(type) {
		case order.PlacedEvent:
			d.orderPlaced(ctx, o)
		case order.StatusChangedEvent:
			d.orderStatusChanged(ctx, e)
		default:
			d.logger.Warn("unknown domain event", "event", event.EventName())
		}
	}
	o.ClearDomainEvents()
}

// CartChanged broadcasts the authoritative cart snapshot to the owning
// customer's identity room.
func (d *Dispatcher) CartChanged(ctx context.Context, customerID kernel.UUID, payload CartPayload) {
	d.publish(ctx, UserRoom(customerID), EventUpdatedCartData, payload)
}

// PendingOrders notifies the partner room about the current claimable backlog.
func (d *Dispatcher) PendingOrders(ctx context.Context, count int, now time.Time) {
	d.publish(ctx, PartnerRoom, EventPendingOrders, PendingOrdersPayload{
		Count:      count,
		NotifiedAt: now,
	})
}

// PresenceChanged notifies the admin room that a user went online or offline.
func (d *Dispatcher) PresenceChanged(ctx context.Context, userID kernel.UUID, role kernel.Role, online bool) {
	d.publish(ctx, AdminRoom, EventPresenceChanged, PresencePayload{
		UserID: userID.String(),
		Role:   role.String(),
		Online: online,
	})
}

func (d *Dispatcher) orderPlaced(ctx context.Context, o *order.Order) {
	items := make([]OrderItemPayload, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItemPayload{
			ProductID: item.ProductID().String(),
			Name:      item.Name(),
			Price:     item.Price().String(),
			Quantity:  item.Quantity(),
		})
	}

	d.publish(ctx, AdminRoom, EventOrderPlaced, OrderPlacedPayload{
		OrderID:    o.ID().String(),
		CustomerID: o.CustomerID().String(),
		AddressID:  o.DeliveryAddressID().String(),
		Items:      items,
		TotalPrice: o.TotalPrice().String(),
		Status:     o.Status().String(),
		CreatedAt:  o.CreatedAt(),
	})
}

func (d *Dispatcher) orderStatusChanged(ctx context.Context, e order.StatusChangedEvent) {
	d.publish(ctx, UserRoom(e.CustomerID), EventOrderStatusChanged, StatusChangePayload{
		OrderID:   e.OrderID.String(),
		Status:    e.New.String(),
		UpdatedAt: e.OccurredAt,
	})

	d.publish(ctx, AdminRoom, EventOrderStatusChanged, AdminStatusChangePayload{
		OrderID:   e.OrderID.String(),
		Status:    e.New.String(),
		UpdatedBy: e.ActorID.String(),
		UpdatedAt: e.OccurredAt,
	})
}

func (d *Dispatcher) publish(ctx context.Context, room, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		d.logger.Error("marshal broadcast payload", "event", event, "error", err)
		return
	}

	if err := d.transport.Publish(ctx, room, event, data); err != nil {
		// Realtime delivery is best effort. Clients recover missed
		// updates by re-fetching on reconnect.
		d.logger.Error("publish broadcast", "room", room, "event", event, "error", err)
	}
}
