package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// Product is the read-only catalog view the core needs: enough to validate
// cart mutations and snapshot prices at checkout. Catalog management itself
// is an external collaborator.
type Product struct {
	ID        kernel.UUID
	Name      string
	Price     kernel.Money
	Available bool
}

// ProductCatalog resolves product references during cart mutation and
// checkout. Implementations return an object-not-found error for unknown
// products.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id kernel.UUID) (Product, error)
}

// AddressBook resolves delivery address references at checkout.
// Address CRUD is an external collaborator; the core only needs to know
// whether the referenced address belongs to the customer.
type AddressBook interface {
	AddressExists(ctx context.Context, customerID kernel.UUID, addressID kernel.UUID) (bool, error)
}
