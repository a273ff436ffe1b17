package commands_test

import (
	"testing"
	"time"

	"labflow/internal/core/application/usecases/commands"
	"labflow/internal/core/domain/model/facility"
	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewRegisterDeliveryCommand_ValidInput(t *testing.T) {
	cmd, err := commands.NewRegisterDeliveryCommand(
		kernel.NewUUID(), nil, "Maria Souza", "123.456.789-00", "self",
		true, false, kernel.NewUUID(), time.Time{}, "")

	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", cmd.RecipientName())
	assert.True(t, cmd.DocumentVerified())
	assert.False(t, cmd.DeliveredAt().IsZero())
	assert.Empty(t, cmd.ItemIDs())
}

func TestNewRegisterDeliveryCommand_MissingRecipient(t *testing.T) {
	_, err := commands.NewRegisterDeliveryCommand(
		kernel.NewUUID(), nil, "", "", "",
		true, false, kernel.NewUUID(), time.Time{}, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func deliverableOrder(t *testing.T) (*order.Order, *order.Item) {
	t.Helper()

	aggregate, item := signableOrder(t)
	_, err := aggregate.SignItemResult(item.ID(), kernel.NewUUID(), time.Now())
	require.NoError(t, err)
	return aggregate, item
}

func deliveryUoW(aggregate *order.Order) (*MockOrderRepository, *MockOrderUoWFactory) {
	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil)
	repo.On("Update", mock.Anything, aggregate).Return(nil)
	uow := new(MockOrderUoW)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("OrderRepository").Return(repo)
	uow.On("Commit", mock.Anything).Return(nil)
	uow.On("Rollback", mock.Anything).Return(nil)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)
	return repo, factory
}

func TestRegisterDeliveryCommandHandler_Handle_AllSignedItems(t *testing.T) {
	ctx := t.Context()
	aggregate, item := deliverableOrder(t)
	_, factory := deliveryUoW(aggregate)

	configs := new(MockFacilityConfigs)
	configs.On("GetConfig", mock.Anything, aggregate.FacilityID()).
		Return(facility.DefaultConfig(), nil)

	cmd, err := commands.NewRegisterDeliveryCommand(
		aggregate.ID(), nil, "Maria Souza", "123.456.789-00", "self",
		true, false, kernel.NewUUID(), time.Now(), "")
	require.NoError(t, err)

	h := commands.NewRegisterDeliveryCommandHandler(factory, configs)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Delivered, item.Status())
	require.Len(t, aggregate.Deliveries(), 1)
	assert.Equal(t, "Maria Souza", aggregate.Deliveries()[0].Recipient().Name)
}

func TestRegisterDeliveryCommandHandler_Handle_DocumentNotVerified(t *testing.T) {
	ctx := t.Context()
	aggregate, item := deliverableOrder(t)
	repo, factory := deliveryUoW(aggregate)

	configs := new(MockFacilityConfigs)
	configs.On("GetConfig", mock.Anything, aggregate.FacilityID()).
		Return(facility.DefaultConfig(), nil)

	cmd, err := commands.NewRegisterDeliveryCommand(
		aggregate.ID(), nil, "Maria Souza", "", "self",
		false, false, kernel.NewUUID(), time.Now(), "")
	require.NoError(t, err)

	h := commands.NewRegisterDeliveryCommandHandler(factory, configs)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrVerificationRequired)
	assert.Equal(t, order.Signed, item.Status())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRegisterDeliveryCommandHandler_Handle_NothingSigned(t *testing.T) {
	ctx := t.Context()
	item := storedItem(t)
	aggregate := storedOrder(t, item)
	_, factory := deliveryUoW(aggregate)

	configs := new(MockFacilityConfigs)
	configs.On("GetConfig", mock.Anything, aggregate.FacilityID()).
		Return(facility.DefaultConfig(), nil)

	cmd, err := commands.NewRegisterDeliveryCommand(
		aggregate.ID(), nil, "Maria Souza", "", "self",
		true, false, kernel.NewUUID(), time.Now(), "")
	require.NoError(t, err)

	h := commands.NewRegisterDeliveryCommandHandler(factory, configs)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestRegisterDeliveryCommandHandler_Handle_PartialForbidden(t *testing.T) {
	ctx := t.Context()
	first := storedItem(t)
	second := storedItem(t)
	aggregate := storedOrder(t, first, second)
	for _, item := range []*order.Item{first, second} {
		require.NoError(t, aggregate.CollectItem(item.ID(), nil, time.Now()))
		_, err := aggregate.EnterItemResult(item.ID(), nil, "ok", nil, true, kernel.NewUUID(), time.Now())
		require.NoError(t, err)
		_, err = aggregate.SignItemResult(item.ID(), kernel.NewUUID(), time.Now())
		require.NoError(t, err)
	}
	_, factory := deliveryUoW(aggregate)

	strict := facility.DefaultConfig()
	strict.AllowPartialDelivery = false
	configs := new(MockFacilityConfigs)
	configs.On("GetConfig", mock.Anything, aggregate.FacilityID()).Return(strict, nil)

	cmd, err := commands.NewRegisterDeliveryCommand(
		aggregate.ID(), []kernel.UUID{first.ID()}, "Maria Souza", "", "self",
		true, false, kernel.NewUUID(), time.Now(), "")
	require.NoError(t, err)

	h := commands.NewRegisterDeliveryCommandHandler(factory, configs)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
