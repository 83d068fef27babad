package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetPartnerOrdersQueryIsNotConstructed = errors.New(
		"GetPartnerOrdersQuery must be created via NewGetPartnerOrdersQuery constructor",
	)
)

// GetPartnerOrdersQuery retrieves the orders assigned to a delivery partner
// that are still in flight. Drives the partner's active-deliveries screen.
type GetPartnerOrdersQuery struct { //nolint:recvcheck //using for validation
	partnerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetPartnerOrdersQuery creates a query for a partner's active orders.
// Validates the partner identifier.
func NewGetPartnerOrdersQuery(partnerID kernel.UUID) (GetPartnerOrdersQuery, error) {
	query := GetPartnerOrdersQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setPartnerID(partnerID); err != nil {
		return GetPartnerOrdersQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetPartnerOrdersQueryIsNotConstructed if validation fails.
func (q GetPartnerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetPartnerOrdersQueryIsNotConstructed)
}

// PartnerID returns the delivery partner whose assignments to list.
func (q GetPartnerOrdersQuery) PartnerID() kernel.UUID {
	return q.partnerID
}

func (q *GetPartnerOrdersQuery) setPartnerID(partnerID kernel.UUID) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}
	q.partnerID = partnerID
	return nil
}

// GetPartnerOrdersQueryResponse represents one in-flight assignment of a
// delivery partner.
type GetPartnerOrdersQueryResponse struct {
	ID        kernel.UUID
	Status    order.Status
	AddressID kernel.UUID
	UpdatedAt time.Time
}
