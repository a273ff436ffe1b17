package commands_test

import (
	"testing"
	"time"

	"labflow/internal/core/application/usecases/commands"
	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewCancelOrderCommand_RequiresReason(t *testing.T) {
	_, err := commands.NewCancelOrderCommand(kernel.NewUUID(), nil, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestCancelOrderCommandHandler_Handle_WholeOrder(t *testing.T) {
	ctx := t.Context()
	first := storedItem(t)
	second := storedItem(t)
	aggregate := storedOrder(t, first, second)
	cmd, err := commands.NewCancelOrderCommand(aggregate.ID(), nil, "patient request")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("Update", mock.Anything, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelOrderCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.StatusCancelled, aggregate.Status())
	assert.Equal(t, "patient request", aggregate.CancelReason())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_SingleItem(t *testing.T) {
	ctx := t.Context()
	first := storedItem(t)
	second := storedItem(t)
	aggregate := storedOrder(t, first, second)
	itemID := second.ID()
	cmd, err := commands.NewCancelOrderCommand(aggregate.ID(), &itemID, "sample hemolyzed")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	repo.On("Update", mock.Anything, aggregate).Return(nil).Once()
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(repo)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)

	h := commands.NewCancelOrderCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.AwaitingCollection, first.Status())
	assert.Equal(t, order.ItemCancelled, second.Status())
	assert.Equal(t, "sample hemolyzed", second.CancelReason())
}

func TestCancelOrderCommandHandler_Handle_SignedItemBlocks(t *testing.T) {
	ctx := t.Context()
	aggregate, item := signableOrder(t)
	_, err := aggregate.SignItemResult(item.ID(), kernel.NewUUID(), time.Now())
	require.NoError(t, err)
	cmd, err := commands.NewCancelOrderCommand(aggregate.ID(), nil, "late request")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(repo)
	uow.On("Rollback", ctx).Return(nil)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)

	h := commands.NewCancelOrderCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
