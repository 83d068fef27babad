package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetPendingOrdersQueryHandler retrieves claimable orders from the database.
// Oldest first, so the backlog drains in placement order.
type GetPendingOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetPendingOrdersQueryHandler creates a handler for pending order queries.
// Requires a GORM database connection for query execution.
func NewGetPendingOrdersQueryHandler(db *gorm.DB) GetPendingOrdersQueryHandler {
	return GetPendingOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve all pending orders.
// The list reflects a point-in-time read: an order may be claimed between
// listing and a claim attempt, which the claim path reports as already taken.
func (h GetPendingOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetPendingOrdersQuery,
) ([]GetPendingOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetPendingOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			address_id,
			total_price,
			created_at
		FROM orders
		WHERE status = ?
		ORDER BY created_at
	`, order.StatusPending.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, addressID uuid.UUID
		var totalPrice decimal.Decimal
		var createdAt time.Time

		if err = rows.Scan(&id, &addressID, &totalPrice, &createdAt); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		orderAddressID, addrErr := kernel.UUIDFromBytes(addressID[:])
		if addrErr != nil {
			return nil, addrErr
		}

		price, priceErr := kernel.MoneyFromDecimal(totalPrice)
		if priceErr != nil {
			return nil, priceErr
		}

		orders = append(orders, GetPendingOrdersQueryResponse{
			ID:         orderID,
			AddressID:  orderAddressID,
			TotalPrice: price,
			CreatedAt:  createdAt,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
