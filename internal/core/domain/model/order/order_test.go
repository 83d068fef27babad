package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, units int64, cents int64) kernel.Money {
	t.Helper()

	m, err := kernel.NewMoney(units, cents)
	require.NoError(t, err)
	return m
}

func mustItem(t *testing.T, name string, price kernel.Money, quantity int) order.Item {
	t.Helper()

	item, err := order.NewItem(kernel.NewUUID(), name, price, quantity)
	require.NoError(t, err)
	return item
}

func TestNewOrder(t *testing.T) {
	validID := kernel.NewUUID()
	customerID := kernel.NewUUID()
	addressID := kernel.NewUUID()
	now := time.Now().UTC()

	t.Run("should create pending order with computed total", func(t *testing.T) {
		items := []order.Item{
			mustItem(t, "spring rolls", mustMoney(t, 3, 25), 2),
			mustItem(t, "pad thai", mustMoney(t, 9, 99), 1),
		}

		o, err := order.NewOrder(validID, customerID, addressID, items, now)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(validID))
		assert.True(t, o.CustomerID().IsEqual(customerID))
		assert.True(t, o.DeliveryAddressID().IsEqual(addressID))
		assert.Equal(t, order.StatusPending, o.Status())
		assert.Nil(t, o.DeliveryPartner())
		assert.Len(t, o.Items(), 2)
		assert.Equal(t, now, o.CreatedAt())
		assert.Equal(t, now, o.UpdatedAt())

		// 2 * 3.25 + 1 * 9.99
		assert.True(t, mustMoney(t, 16, 49).IsEqual(o.TotalPrice()))
	})

	t.Run("should record a placed event", func(t *testing.T) {
		items := []order.Item{mustItem(t, "pad thai", mustMoney(t, 9, 99), 1)}

		o, err := order.NewOrder(validID, customerID, addressID, items, now)

		require.NoError(t, err)
		events := o.DomainEvents()
		require.Len(t, events, 1)
		placed, ok := events[0].(order.PlacedEvent)
		require.True(t, ok)
		assert.Equal(t, "orderPlaced", placed.EventName())
		assert.True(t, placed.OrderID.IsEqual(validID))
		assert.True(t, placed.CustomerID.IsEqual(customerID))
		assert.Equal(t, now, placed.OccurredAt)
	})

	t.Run("should fail with invalid UUID", func(t *testing.T) {
		var invalidID kernel.UUID
		items := []order.Item{mustItem(t, "pad thai", mustMoney(t, 9, 99), 1)}

		o, err := order.NewOrder(invalidID, customerID, addressID, items, now)

		require.Error(t, err)
		assert.Nil(t, o)
	})

	t.Run("should fail with no items", func(t *testing.T) {
		o, err := order.NewOrder(validID, customerID, addressID, nil, now)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should fail with an unconstructed item", func(t *testing.T) {
		items := []order.Item{{}}

		o, err := order.NewOrder(validID, customerID, addressID, items, now)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, order.ErrItemIsNotConstructed)
	})

	t.Run("should copy the item slice", func(t *testing.T) {
		items := []order.Item{mustItem(t, "pad thai", mustMoney(t, 9, 99), 1)}

		o, err := order.NewOrder(validID, customerID, addressID, items, now)
		require.NoError(t, err)

		items[0] = order.Item{}
		require.NoError(t, o.Items()[0].Validate())
	})
}

func TestOrder_Validate(t *testing.T) {
	t.Run("should fail validation for nil order", func(t *testing.T) {
		var o *order.Order

		err := o.Validate()

		require.Error(t, err)
		assert.Equal(t, order.ErrOrderIsNotConstructed, err)
	})

	t.Run("should fail validation for zero value order", func(t *testing.T) {
		var o order.Order

		err := o.Validate()

		require.Error(t, err)
		assert.Equal(t, order.ErrOrderIsNotConstructed, err)
	})
}

func TestOrder_Accept(t *testing.T) {
	now := time.Now().UTC()

	newPendingOrder := func(t *testing.T) *order.Order {
		t.Helper()
		items := []order.Item{mustItem(t, "pad thai", mustMoney(t, 9, 99), 1)}
		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), items, now)
		require.NoError(t, err)
		o.ClearDomainEvents()
		return o
	}

	t.Run("should assign partner and move to accepted", func(t *testing.T) {
		o := newPendingOrder(t)
		partnerID := kernel.NewUUID()
		acceptedAt := now.Add(time.Minute)

		err := o.Accept(partnerID, acceptedAt)

		require.NoError(t, err)
		assert.Equal(t, order.StatusAccepted, o.Status())
		require.NotNil(t, o.DeliveryPartner())
		assert.True(t, o.DeliveryPartner().IsEqual(partnerID))
		assert.Equal(t, acceptedAt, o.UpdatedAt())
	})

	t.Run("should record a status changed event with the partner as actor", func(t *testing.T) {
		o := newPendingOrder(t)
		partnerID := kernel.NewUUID()

		require.NoError(t, o.Accept(partnerID, now))

		events := o.DomainEvents()
		require.Len(t, events, 1)
		changed, ok := events[0].(order.StatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, "orderStatusChanged", changed.EventName())
		assert.Equal(t, order.StatusPending, changed.Previous)
		assert.Equal(t, order.StatusAccepted, changed.New)
		assert.True(t, changed.ActorID.IsEqual(partnerID))
	})

	t.Run("should never reassign an assigned order", func(t *testing.T) {
		o := newPendingOrder(t)
		firstPartner := kernel.NewUUID()
		require.NoError(t, o.Accept(firstPartner, now))

		err := o.Accept(kernel.NewUUID(), now)

		require.ErrorIs(t, err, order.ErrPartnerAlreadyAssigned)
		assert.True(t, o.DeliveryPartner().IsEqual(firstPartner))
	})

	t.Run("should reject accepting a cancelled order", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.TransitionTo(order.StatusCancelled, o.CustomerID(), kernel.RoleCustomer, now))

		err := o.Accept(kernel.NewUUID(), now)

		require.ErrorIs(t, err, order.ErrIllegalTransition)
	})

	t.Run("should reject invalid partner ID", func(t *testing.T) {
		o := newPendingOrder(t)
		var invalidID kernel.UUID

		err := o.Accept(invalidID, now)

		require.Error(t, err)
		assert.Equal(t, order.StatusPending, o.Status())
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	now := time.Now().UTC()

	newAcceptedOrder := func(t *testing.T, partnerID kernel.UUID) *order.Order {
		t.Helper()
		items := []order.Item{mustItem(t, "pad thai", mustMoney(t, 9, 99), 1)}
		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), items, now)
		require.NoError(t, err)
		require.NoError(t, o.Accept(partnerID, now))
		o.ClearDomainEvents()
		return o
	}

	t.Run("should let the assigned partner walk the full progression", func(t *testing.T) {
		partnerID := kernel.NewUUID()
		o := newAcceptedOrder(t, partnerID)

		require.NoError(t, o.TransitionTo(order.StatusPickedUp, partnerID, kernel.RolePartner, now))
		require.NoError(t, o.TransitionTo(order.StatusOnTheWay, partnerID, kernel.RolePartner, now))
		require.NoError(t, o.TransitionTo(order.StatusDelivered, partnerID, kernel.RolePartner, now))

		assert.Equal(t, order.StatusDelivered, o.Status())
		assert.Len(t, o.DomainEvents(), 3)
	})

	t.Run("should reject another partner advancing the order", func(t *testing.T) {
		o := newAcceptedOrder(t, kernel.NewUUID())

		err := o.TransitionTo(order.StatusPickedUp, kernel.NewUUID(), kernel.RolePartner, now)

		require.ErrorIs(t, err, order.ErrActorIsNotAssignedPartner)
		assert.Equal(t, order.StatusAccepted, o.Status())
	})

	t.Run("should reject skipping a stage", func(t *testing.T) {
		partnerID := kernel.NewUUID()
		o := newAcceptedOrder(t, partnerID)

		err := o.TransitionTo(order.StatusDelivered, partnerID, kernel.RolePartner, now)

		require.ErrorIs(t, err, order.ErrIllegalTransition)

		var illegal *order.IllegalTransitionError
		require.ErrorAs(t, err, &illegal)
		assert.Equal(t, order.StatusAccepted, illegal.From)
		assert.Equal(t, order.StatusDelivered, illegal.To)
	})

	t.Run("should let the owner cancel a pending order", func(t *testing.T) {
		items := []order.Item{mustItem(t, "pad thai", mustMoney(t, 9, 99), 1)}
		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), items, now)
		require.NoError(t, err)

		err = o.TransitionTo(order.StatusCancelled, o.CustomerID(), kernel.RoleCustomer, now)

		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, o.Status())
	})

	t.Run("should reject a stranger cancelling someone else's order", func(t *testing.T) {
		items := []order.Item{mustItem(t, "pad thai", mustMoney(t, 9, 99), 1)}
		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), items, now)
		require.NoError(t, err)

		err = o.TransitionTo(order.StatusCancelled, kernel.NewUUID(), kernel.RoleCustomer, now)

		require.ErrorIs(t, err, order.ErrActorIsNotOrderOwner)
	})

	t.Run("should reject the owner cancelling after acceptance", func(t *testing.T) {
		partnerID := kernel.NewUUID()
		o := newAcceptedOrder(t, partnerID)

		err := o.TransitionTo(order.StatusCancelled, o.CustomerID(), kernel.RoleCustomer, now)

		require.ErrorIs(t, err, order.ErrIllegalTransition)
	})

	t.Run("should reject a customer requesting forward progression", func(t *testing.T) {
		items := []order.Item{mustItem(t, "pad thai", mustMoney(t, 9, 99), 1)}
		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), items, now)
		require.NoError(t, err)

		err = o.TransitionTo(order.StatusPickedUp, o.CustomerID(), kernel.RoleCustomer, now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should release the partner when an admin cancels an accepted order", func(t *testing.T) {
		o := newAcceptedOrder(t, kernel.NewUUID())
		adminID := kernel.NewUUID()

		err := o.TransitionTo(order.StatusCancelled, adminID, kernel.RoleAdmin, now)

		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, o.Status())
		assert.Nil(t, o.DeliveryPartner())
	})

	t.Run("should let an admin advance any order", func(t *testing.T) {
		o := newAcceptedOrder(t, kernel.NewUUID())
		adminID := kernel.NewUUID()

		err := o.TransitionTo(order.StatusPickedUp, adminID, kernel.RoleAdmin, now)

		require.NoError(t, err)
		assert.Equal(t, order.StatusPickedUp, o.Status())
	})

	t.Run("should reject leaving a terminal status", func(t *testing.T) {
		partnerID := kernel.NewUUID()
		o := newAcceptedOrder(t, partnerID)
		require.NoError(t, o.TransitionTo(order.StatusPickedUp, partnerID, kernel.RolePartner, now))
		require.NoError(t, o.TransitionTo(order.StatusOnTheWay, partnerID, kernel.RolePartner, now))
		require.NoError(t, o.TransitionTo(order.StatusDelivered, partnerID, kernel.RolePartner, now))

		err := o.TransitionTo(order.StatusCancelled, kernel.NewUUID(), kernel.RoleAdmin, now)

		require.ErrorIs(t, err, order.ErrIllegalTransition)
	})
}

func TestOrder_DomainEvents(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should return events in recording order and clear on demand", func(t *testing.T) {
		items := []order.Item{mustItem(t, "pad thai", mustMoney(t, 9, 99), 1)}
		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), items, now)
		require.NoError(t, err)
		require.NoError(t, o.Accept(kernel.NewUUID(), now))

		events := o.DomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, "orderPlaced", events[0].EventName())
		assert.Equal(t, "orderStatusChanged", events[1].EventName())

		o.ClearDomainEvents()
		assert.Empty(t, o.DomainEvents())
	})

	t.Run("should return a copy of the event slice", func(t *testing.T) {
		items := []order.Item{mustItem(t, "pad thai", mustMoney(t, 9, 99), 1)}
		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), items, now)
		require.NoError(t, err)

		events := o.DomainEvents()
		events[0] = nil

		require.Len(t, o.DomainEvents(), 1)
		assert.NotNil(t, o.DomainEvents()[0])
	})
}

func TestRestoreOrder(t *testing.T) {
	now := time.Now().UTC()
	items := []order.Item{mustItem(t, "pad thai", mustMoney(t, 9, 99), 1)}
	total := mustMoney(t, 9, 99)

	t.Run("should restore an assigned order without recording events", func(t *testing.T) {
		partnerID := kernel.NewUUID()

		o, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), &partnerID, kernel.NewUUID(),
			items, total, order.StatusOnTheWay, now, now,
		)

		require.NoError(t, err)
		assert.Equal(t, order.StatusOnTheWay, o.Status())
		assert.True(t, o.DeliveryPartner().IsEqual(partnerID))
		assert.Empty(t, o.DomainEvents())
	})

	t.Run("should restore a pending order without a partner", func(t *testing.T) {
		o, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), nil, kernel.NewUUID(),
			items, total, order.StatusPending, now, now,
		)

		require.NoError(t, err)
		assert.Nil(t, o.DeliveryPartner())
	})

	t.Run("should reject a pending order carrying a partner", func(t *testing.T) {
		partnerID := kernel.NewUUID()

		o, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), &partnerID, kernel.NewUUID(),
			items, total, order.StatusPending, now, now,
		)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject an accepted order without a partner", func(t *testing.T) {
		o, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), nil, kernel.NewUUID(),
			items, total, order.StatusAccepted, now, now,
		)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject an invalid status", func(t *testing.T) {
		o, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), nil, kernel.NewUUID(),
			items, total, order.StatusUnknown, now, now,
		)

		require.Error(t, err)
		assert.Nil(t, o)
	})
}

func TestNewItem(t *testing.T) {
	price := kernel.ZeroMoney()

	t.Run("should create item and compute subtotal", func(t *testing.T) {
		item, err := order.NewItem(kernel.NewUUID(), "green curry", mustMoney(t, 4, 50), 3)

		require.NoError(t, err)
		require.NoError(t, item.Validate())
		assert.Equal(t, "green curry", item.Name())
		assert.Equal(t, 3, item.Quantity())
		assert.True(t, mustMoney(t, 13, 50).IsEqual(item.Subtotal()))
	})

	t.Run("should fail with empty name", func(t *testing.T) {
		_, err := order.NewItem(kernel.NewUUID(), "", price, 1)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should fail with zero quantity", func(t *testing.T) {
		_, err := order.NewItem(kernel.NewUUID(), "green curry", price, 0)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should fail with negative quantity", func(t *testing.T) {
		_, err := order.NewItem(kernel.NewUUID(), "green curry", price, -2)

		require.Error(t, err)
	})

	t.Run("should fail validation when not constructed", func(t *testing.T) {
		var item order.Item

		err := item.Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrItemIsNotConstructed)
	})
}
