// Package cartrepo provides data transfer objects and mapping functions for
// cart persistence.
package cartrepo

import (
	"fulfillment/internal/core/domain/model/cart"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CartDTO represents the database structure for persisting cart aggregates.
// One cart per customer, enforced by the unique index.
type CartDTO struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID     `gorm:"type:uuid;uniqueIndex"`
	Items      []CartItemDTO `gorm:"foreignKey:CartID;references:ID"`
}

// TableName specifies the database table name for cart entities.
func (CartDTO) TableName() string {
	return "carts"
}

// CartItemDTO represents one line of a cart. Position preserves insertion
// order across reloads.
type CartItemDTO struct {
	CartID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity  int
	Position  int
}

// TableName specifies the database table name for cart line entities.
func (CartItemDTO) TableName() string {
	return "cart_items"
}

// fromDomain converts a cart domain aggregate to its database representation.
func fromDomain(aggregate *cart.Cart) CartDTO {
	items := make([]CartItemDTO, 0, len(aggregate.Lines()))
	for position, line := range aggregate.Lines() {
		items = append(items, CartItemDTO{
			CartID:    aggregate.ID().Bytes(),
			ProductID: line.ProductID.Bytes(),
			Quantity:  line.Quantity,
			Position:  position,
		})
	}

	return CartDTO{
		ID:         aggregate.ID().Bytes(),
		CustomerID: aggregate.CustomerID().Bytes(),
		Items:      items,
	}
}

// toDomain converts a database DTO to a cart domain aggregate using RestoreCart.
func toDomain(dto CartDTO) (*cart.Cart, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	lines := make([]cart.Line, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		productID, lineErr := kernel.UUIDFromBytes(itemDTO.ProductID[:])
		if lineErr != nil {
			return nil, lineErr
		}

		lines = append(lines, cart.Line{
			ProductID: productID,
			Quantity:  itemDTO.Quantity,
		})
	}

	return cart.RestoreCart(id, customerID, lines)
}
