package commands_test

import (
	"testing"

	"labflow/internal/core/application/usecases/commands"
	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	patientID := kernel.NewUUID()
	facilityID := kernel.NewUUID()
	requesterID := kernel.NewUUID()
	examID := kernel.NewUUID()

	cmd, err := commands.NewCreateOrderCommand(
		patientID, facilityID, requesterID, nil, true, order.BillingInsurance, "", "fasting 8h",
		[]commands.OrderItemRequest{{ExamID: examID, Quantity: 1}},
	)

	require.NoError(t, err)
	assert.Equal(t, patientID, cmd.PatientID())
	assert.Equal(t, facilityID, cmd.FacilityID())
	assert.Equal(t, requesterID, cmd.RequesterID())
	assert.Nil(t, cmd.ScheduleID())
	assert.True(t, cmd.Urgent())
	assert.Equal(t, order.BillingInsurance, cmd.Billing())
	assert.Equal(t, "fasting 8h", cmd.Notes())
	require.Len(t, cmd.Items(), 1)
	assert.Equal(t, examID, cmd.Items()[0].ExamID)
}

func TestNewCreateOrderCommand_InvalidPatientID(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.UUID{}, kernel.NewUUID(), kernel.NewUUID(), nil, false, order.BillingPrivate, "", "",
		[]commands.OrderItemRequest{{ExamID: kernel.NewUUID(), Quantity: 1}},
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCreateOrderCommand_NoItems(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), nil, false, order.BillingPrivate, "", "", nil,
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrOrderItemsAreRequired)
}

func TestNewCreateOrderCommand_InvalidBilling(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), nil, false, order.BillingUnknown, "", "",
		[]commands.OrderItemRequest{{ExamID: kernel.NewUUID(), Quantity: 1}},
	)

	require.Error(t, err)
}

func TestCreateOrderCommand_ValidateNotConstructed(t *testing.T) {
	var cmd commands.CreateOrderCommand

	err := cmd.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}
