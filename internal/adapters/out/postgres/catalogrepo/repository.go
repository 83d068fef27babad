// Package catalogrepo provides read-only access to the product catalog and
// the customer address book. Both are owned by other services; this side
// reads their replicated tables to validate cart mutations and checkouts.
package catalogrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductDTO represents a catalog product row.
type ProductDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"type:varchar(255)"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2)"`
	Available bool
}

// TableName specifies the database table name for product entities.
func (ProductDTO) TableName() string {
	return "products"
}

// AddressDTO represents a customer delivery address row.
type AddressDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"type:uuid;index"`
}

// TableName specifies the database table name for address entities.
func (AddressDTO) TableName() string {
	return "addresses"
}

// GormCatalogRepository implements ports.ProductCatalog and ports.AddressBook
// using GORM.
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM catalog repository.
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// GetProduct retrieves a catalog product by ID.
func (r *GormCatalogRepository) GetProduct(ctx context.Context, id kernel.UUID) (ports.Product, error) {
	if err := id.Validate(); err != nil {
		return ports.Product{}, err
	}

	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Product{}, errs.NewObjectNotFoundError("product", id.String())
		}
		return ports.Product{}, err
	}

	productID, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.Product{}, err
	}

	price, err := kernel.MoneyFromDecimal(dto.Price)
	if err != nil {
		return ports.Product{}, err
	}

	return ports.Product{
		ID:        productID,
		Name:      dto.Name,
		Price:     price,
		Available: dto.Available,
	}, nil
}

// AddressExists reports whether the address exists and belongs to the customer.
func (r *GormCatalogRepository) AddressExists(
	ctx context.Context,
	customerID kernel.UUID,
	addressID kernel.UUID,
) (bool, error) {
	if err := errors.Join(customerID.Validate(), addressID.Validate()); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&AddressDTO{}).
		Where("id = ? AND customer_id = ?", addressID.Bytes(), customerID.Bytes()).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
