package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCartQueryHandler reads a customer's cart from the database.
// Returns the lines in insertion order, which is the order clients render.
type GetCartQueryHandler struct {
	db *gorm.DB
}

// NewGetCartQueryHandler creates a handler for cart snapshot queries.
// Requires a GORM database connection for query execution.
func NewGetCartQueryHandler(db *gorm.DB) GetCartQueryHandler {
	return GetCartQueryHandler{db: db}
}

// Handle executes the query and returns the cart snapshot.
// A customer with no cart yet gets an empty snapshot, not an error.
func (h GetCartQueryHandler) Handle(
	ctx context.Context,
	query GetCartQuery,
) (GetCartQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCartQueryResponse{}, err
	}

	response := GetCartQueryResponse{
		Items: make([]GetCartQueryItem, 0),
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			c.id,
			i.product_id,
			i.quantity
		FROM carts c
		LEFT JOIN cart_items i ON i.cart_id = c.id
		WHERE c.customer_id = ?
		ORDER BY i.position
	`, query.CustomerID().Bytes()).Rows()
	if err != nil {
		return GetCartQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var cartID uuid.UUID
		var productID *uuid.UUID
		var quantity *int

		if err = rows.Scan(&cartID, &productID, &quantity); err != nil {
			return GetCartQueryResponse{}, err
		}

		id, idErr := kernel.UUIDFromBytes(cartID[:])
		if idErr != nil {
			return GetCartQueryResponse{}, idErr
		}
		response.CartID = id

		// The left join yields a NULL item row for an empty cart.
		if productID == nil || quantity == nil {
			continue
		}

		pID, pErr := kernel.UUIDFromBytes((*productID)[:])
		if pErr != nil {
			return GetCartQueryResponse{}, pErr
		}

		response.Items = append(response.Items, GetCartQueryItem{
			ProductID: pID,
			Quantity:  *quantity,
		})
	}

	if err = rows.Err(); err != nil {
		return GetCartQueryResponse{}, err
	}

	return response, nil
}
