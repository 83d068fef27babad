package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestChangeOrderStatusCommandHandler_Handle_PartnerAdvances(t *testing.T) {
	ctx := t.Context()
	partnerID := kernel.NewUUID()
	stored := acceptedOrder(t, partnerID)
	cmd, err := commands.NewChangeOrderStatusCommand(
		stored.ID(), order.StatusPickedUp, partnerID, kernel.RolePartner,
	)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		repo.On("UpdateIfStatus", ctx, stored, order.StatusAccepted).Return(true, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewChangeOrderStatusCommandHandler(factory)
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, order.StatusPickedUp, updated.Status())

	events := updated.DomainEvents()
	require.Len(t, events, 1)
	changed, ok := events[0].(order.StatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, order.StatusAccepted, changed.Previous)
	assert.Equal(t, order.StatusPickedUp, changed.New)
	assert.True(t, partnerID.IsEqual(changed.ActorID))

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_CustomerCancels(t *testing.T) {
	ctx := t.Context()
	stored := pendingOrder(t)
	cmd, err := commands.NewChangeOrderStatusCommand(
		stored.ID(), order.StatusCancelled, stored.CustomerID(), kernel.RoleCustomer,
	)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		repo.On("UpdateIfStatus", ctx, stored, order.StatusPending).Return(true, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewChangeOrderStatusCommandHandler(factory)
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, updated.Status())
	assert.Nil(t, updated.DeliveryPartner())
}

func TestChangeOrderStatusCommandHandler_Handle_CustomerCannotAdvance(t *testing.T) {
	ctx := t.Context()
	stored := pendingOrder(t)
	cmd, err := commands.NewChangeOrderStatusCommand(
		stored.ID(), order.StatusPickedUp, stored.CustomerID(), kernel.RoleCustomer,
	)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewChangeOrderStatusCommandHandler(factory)
	updated, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Nil(t, updated)
	repo.AssertNotCalled(t, "UpdateIfStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeOrderStatusCommandHandler_Handle_ActorIsNotOwner(t *testing.T) {
	ctx := t.Context()
	stored := pendingOrder(t)
	stranger := kernel.NewUUID()
	cmd, err := commands.NewChangeOrderStatusCommand(
		stored.ID(), order.StatusCancelled, stranger, kernel.RoleCustomer,
	)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewChangeOrderStatusCommandHandler(factory)
	updated, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrActorIsNotOrderOwner)
	assert.Nil(t, updated)
	repo.AssertNotCalled(t, "UpdateIfStatus", mock.Anything, mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestChangeOrderStatusCommandHandler_Handle_PartnerNotAssigned(t *testing.T) {
	ctx := t.Context()
	stored := acceptedOrder(t, kernel.NewUUID())
	otherPartner := kernel.NewUUID()
	cmd, err := commands.NewChangeOrderStatusCommand(
		stored.ID(), order.StatusPickedUp, otherPartner, kernel.RolePartner,
	)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewChangeOrderStatusCommandHandler(factory)
	updated, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrActorIsNotAssignedPartner)
	assert.Nil(t, updated)
}

func TestChangeOrderStatusCommandHandler_Handle_IllegalSkip(t *testing.T) {
	ctx := t.Context()
	partnerID := kernel.NewUUID()
	stored := acceptedOrder(t, partnerID)
	cmd, err := commands.NewChangeOrderStatusCommand(
		stored.ID(), order.StatusDelivered, partnerID, kernel.RolePartner,
	)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewChangeOrderStatusCommandHandler(factory)
	updated, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrIllegalTransition)
	assert.Nil(t, updated)
	repo.AssertNotCalled(t, "UpdateIfStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeOrderStatusCommandHandler_Handle_LostConcurrentTransition(t *testing.T) {
	ctx := t.Context()
	partnerID := kernel.NewUUID()
	stored := acceptedOrder(t, partnerID)

	// By the time the conditional write lands, an admin override has already
	// cancelled the order.
	fresh := pendingOrder(t)
	require.NoError(t, fresh.TransitionTo(
		order.StatusCancelled, kernel.NewUUID(), kernel.RoleAdmin, stored.UpdatedAt(),
	))

	cmd, err := commands.NewChangeOrderStatusCommand(
		stored.ID(), order.StatusPickedUp, partnerID, kernel.RolePartner,
	)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		repo.On("UpdateIfStatus", ctx, stored, order.StatusAccepted).Return(false, nil).Once(),
		repo.On("Get", ctx, stored.ID()).Return(fresh, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewChangeOrderStatusCommandHandler(factory)
	updated, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrIllegalTransition)
	assert.Nil(t, updated)

	var illegal *order.IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, order.StatusCancelled, illegal.From)
	assert.Equal(t, order.StatusPickedUp, illegal.To)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestChangeOrderStatusCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd, err := commands.NewChangeOrderStatusCommand(
		orderID, order.StatusCancelled, kernel.NewUUID(), kernel.RoleAdmin,
	)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, orderID).Return(nil, errs.NewObjectNotFoundError("order", orderID.String())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewChangeOrderStatusCommandHandler(factory)
	updated, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Nil(t, updated)
}

func TestChangeOrderStatusCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	factory := new(MockOrderUoWFactory)
	h := commands.NewChangeOrderStatusCommandHandler(factory)

	updated, err := h.Handle(ctx, commands.ChangeOrderStatusCommand{})
	require.ErrorIs(t, err, commands.ErrChangeOrderStatusCommandIsNotConstructed)
	assert.Nil(t, updated)
	factory.AssertNotCalled(t, "Create")
}
