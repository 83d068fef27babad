package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetPartnerOrdersQueryHandler retrieves a partner's in-flight assignments
// from the database. Delivered and cancelled orders are excluded.
type GetPartnerOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetPartnerOrdersQueryHandler creates a handler for partner order queries.
// Requires a GORM database connection for query execution.
func NewGetPartnerOrdersQueryHandler(db *gorm.DB) GetPartnerOrdersQueryHandler {
	return GetPartnerOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve the partner's active orders.
func (h GetPartnerOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetPartnerOrdersQuery,
) ([]GetPartnerOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetPartnerOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			address_id,
			updated_at
		FROM orders
		WHERE partner_id = ? AND status NOT IN (?, ?)
		ORDER BY updated_at
	`,
		query.PartnerID().Bytes(),
		order.StatusDelivered.String(),
		order.StatusCancelled.String(),
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, addressID uuid.UUID
		var status string
		var updatedAt time.Time

		if err = rows.Scan(&id, &status, &addressID, &updatedAt); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		orderStatus, statusErr := order.StatusFromString(status)
		if statusErr != nil {
			return nil, statusErr
		}

		orderAddressID, addrErr := kernel.UUIDFromBytes(addressID[:])
		if addrErr != nil {
			return nil, addrErr
		}

		orders = append(orders, GetPartnerOrdersQueryResponse{
			ID:        orderID,
			Status:    orderStatus,
			AddressID: orderAddressID,
			UpdatedAt: updatedAt,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
