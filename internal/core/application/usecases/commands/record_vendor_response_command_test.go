package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordVendorResponseCommand_ValidInput(t *testing.T) {
	orderID := kernel.NewUUID()
	vendorID := kernel.NewUUID()

	cmd, err := commands.NewRecordVendorResponseCommand(orderID, vendorID, true)
	require.NoError(t, err)
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, vendorID, cmd.VendorID())
	assert.True(t, cmd.IsAccepted())
}

func TestNewRecordVendorResponseCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewRecordVendorResponseCommand(kernel.UUID{}, kernel.NewUUID(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewRecordVendorResponseCommand_InvalidVendorID(t *testing.T) {
	_, err := commands.NewRecordVendorResponseCommand(kernel.NewUUID(), kernel.UUID{}, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestRecordVendorResponseCommand_Validate_NotConstructed(t *testing.T) {
	cmd := commands.RecordVendorResponseCommand{}
	err := cmd.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrRecordVendorResponseCommandIsNotConstructed)
}
