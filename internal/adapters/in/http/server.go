// Package http exposes the request/response surface clients use to restore
// authoritative state after a reconnect. The websocket gateway provides no
// replay, so a returning client re-fetches its order list here before
// resubscribing to live events.
package http

import (
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/labstack/echo/v4"
)

// Server handles the HTTP re-fetch endpoints. The same bearer credential
// that authenticates a websocket connection authenticates these requests;
// what a caller sees is decided by the verified role, never by the request.
type Server struct {
	verifier ports.TokenVerifier

	getCustomerOrdersHandler queries.GetCustomerOrdersQueryHandler
	getPartnerOrdersHandler  queries.GetPartnerOrdersQueryHandler
}

// NewServer creates an HTTP server with the required query handlers.
func NewServer(
	verifier ports.TokenVerifier,
	getCustomerOrdersHandler queries.GetCustomerOrdersQueryHandler,
	getPartnerOrdersHandler queries.GetPartnerOrdersQueryHandler,
) *Server {
	return &Server{
		verifier:                 verifier,
		getCustomerOrdersHandler: getCustomerOrdersHandler,
		getPartnerOrdersHandler:  getPartnerOrdersHandler,
	}
}

// RegisterRoutes mounts the server's endpoints on the echo router.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/orders", s.GetOrders)
}

// Error is the JSON body of a failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CustomerOrder is one order in a customer's history.
type CustomerOrder struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	TotalPrice string    `json:"totalPrice"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PartnerOrder is one in-flight assignment of a partner.
type PartnerOrder struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	AddressID string    `json:"addressId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GetOrders handles GET /api/v1/orders - retrieves the caller's orders.
// Customers get their order history newest first; partners get their active
// assignments. The admin surface is the live order feed, not a list here.
func (s *Server) GetOrders(ctx echo.Context) error {
	identity, err := s.verifier.Verify(ctx.Request().Context(), bearerToken(ctx))
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, Error{
			Code:    http.StatusUnauthorized,
			Message: "Credential is invalid or expired",
		})
	}

	switch identity.Role {
	case kernel.RoleCustomer:
		return s.customerOrders(ctx, identity.UserID)
	case kernel.RolePartner:
		return s.partnerOrders(ctx, identity.UserID)
	default:
		return ctx.JSON(http.StatusForbidden, Error{
			Code:    http.StatusForbidden,
			Message: "No order list for role " + identity.Role.String(),
		})
	}
}

func (s *Server) customerOrders(ctx echo.Context, customerID kernel.UUID) error {
	query, err := queries.NewGetCustomerOrdersQuery(customerID)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve orders",
		})
	}

	orders, err := s.getCustomerOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve orders",
		})
	}

	response := make([]CustomerOrder, len(orders))
	for i, o := range orders {
		response[i] = CustomerOrder{
			ID:         o.ID.String(),
			Status:     o.Status.String(),
			TotalPrice: o.TotalPrice.String(),
			CreatedAt:  o.CreatedAt,
			UpdatedAt:  o.UpdatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

func (s *Server) partnerOrders(ctx echo.Context, partnerID kernel.UUID) error {
	query, err := queries.NewGetPartnerOrdersQuery(partnerID)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve orders",
		})
	}

	orders, err := s.getPartnerOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve orders",
		})
	}

	response := make([]PartnerOrder, len(orders))
	for i, o := range orders {
		response[i] = PartnerOrder{
			ID:        o.ID.String(),
			Status:    o.Status.String(),
			AddressID: o.AddressID.String(),
			UpdatedAt: o.UpdatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

func bearerToken(ctx echo.Context) string {
	const prefix = "Bearer "
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
