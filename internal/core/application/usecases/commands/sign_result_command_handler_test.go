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

func TestNewSignResultCommand_ValidInput(t *testing.T) {
	orderID := kernel.NewUUID()
	itemID := kernel.NewUUID()
	signerID := kernel.NewUUID()

	cmd, err := commands.NewSignResultCommand(orderID, itemID, signerID, time.Time{})

	require.NoError(t, err)
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, itemID, cmd.ItemID())
	assert.Equal(t, signerID, cmd.SignerID())
	assert.False(t, cmd.SignedAt().IsZero())
}

func TestNewSignResultCommand_InvalidSigner(t *testing.T) {
	_, err := commands.NewSignResultCommand(kernel.NewUUID(), kernel.NewUUID(), kernel.UUID{}, time.Time{})

	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func signableOrder(t *testing.T) (*order.Order, *order.Item) {
	t.Helper()

	item := storedItem(t)
	aggregate := storedOrder(t, item)
	require.NoError(t, aggregate.CollectItem(item.ID(), nil, time.Now()))
	_, err := aggregate.EnterItemResult(item.ID(), nil, "negative", nil, true, kernel.NewUUID(), time.Now())
	require.NoError(t, err)
	return aggregate, item
}

func TestSignResultCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate, item := signableOrder(t)
	signer := kernel.NewUUID()
	cmd, err := commands.NewSignResultCommand(aggregate.ID(), item.ID(), signer, time.Now())
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

	h := commands.NewSignResultCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Signed, item.Status())
	require.NotNil(t, item.Result().SignedBy())
	assert.True(t, item.Result().SignedBy().IsEqual(signer))
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestSignResultCommandHandler_Handle_UnreleasedResult(t *testing.T) {
	ctx := t.Context()
	item := storedItem(t)
	aggregate := storedOrder(t, item)
	require.NoError(t, aggregate.CollectItem(item.ID(), nil, time.Now()))
	cmd, err := commands.NewSignResultCommand(aggregate.ID(), item.ID(), kernel.NewUUID(), time.Now())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(repo)
	uow.On("Rollback", ctx).Return(nil)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)

	h := commands.NewSignResultCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSignResultCommandHandler_Handle_ConcurrentModification(t *testing.T) {
	ctx := t.Context()
	aggregate, item := signableOrder(t)
	cmd, err := commands.NewSignResultCommand(aggregate.ID(), item.ID(), kernel.NewUUID(), time.Now())
	require.NoError(t, err)

	staleErr := errs.NewConcurrentModificationError("orderItem", item.ID().String(), item.Version())
	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	repo.On("Update", mock.Anything, aggregate).Return(staleErr).Once()
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(repo)
	uow.On("Rollback", ctx).Return(nil)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)

	h := commands.NewSignResultCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConcurrentModification)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
