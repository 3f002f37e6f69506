package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransitionOrderCommand_ValidInput(t *testing.T) {
	orderID := kernel.NewUUID()
	cmd, err := commands.NewTransitionOrderCommand(orderID, order.Delivered, "vendor:abc", kernel.NewMoney(5000))
	require.NoError(t, err)
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, order.Delivered, cmd.Target())
	assert.Equal(t, "vendor:abc", cmd.Actor())
	assert.Equal(t, int64(5000), cmd.CollectedAmount().Cents())
}

func TestNewTransitionOrderCommand_UnsupportedTarget(t *testing.T) {
	targets := []order.Status{order.Draft, order.Confirmed, order.VendorAssigned, order.Accepted, order.Failed}
	for _, target := range targets {
		_, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), target, "system", kernel.Zero())
		require.Error(t, err, "target %s", target)
		assert.ErrorIs(t, err, commands.ErrUnsupportedTransitionTarget)
	}
}

func TestNewTransitionOrderCommand_MissingActor(t *testing.T) {
	_, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), order.Dispatched, "", kernel.Zero())
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrActorIsRequired)
}

func TestNewTransitionOrderCommand_NegativeCollectedAmount(t *testing.T) {
	_, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), order.Delivered, "vendor:abc", kernel.NewMoney(-1))
	require.Error(t, err)
}

func TestTransitionOrderCommand_Validate_NotConstructed(t *testing.T) {
	cmd := commands.TransitionOrderCommand{}
	err := cmd.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrTransitionOrderCommandIsNotConstructed)
}
