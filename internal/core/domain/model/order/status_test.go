package order_test

import (
	"fmt"
	"testing"

	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Constants(t *testing.T) {
	t.Run("should have correct enum values", func(t *testing.T) {
		assert.Equal(t, 0, int(order.Unknown))
		assert.Equal(t, 1, int(order.Draft))
		assert.Equal(t, 2, int(order.Confirmed))
		assert.Equal(t, 3, int(order.VendorAssigned))
		assert.Equal(t, 4, int(order.Accepted))
		assert.Equal(t, 5, int(order.Dispatched))
		assert.Equal(t, 6, int(order.Delivered))
		assert.Equal(t, 7, int(order.Completed))
		assert.Equal(t, 8, int(order.Cancelled))
		assert.Equal(t, 9, int(order.Failed))
	})
}

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate all defined statuses", func(t *testing.T) {
		valid := []order.Status{
			order.Draft, order.Confirmed, order.VendorAssigned, order.Accepted,
			order.Dispatched, order.Delivered, order.Completed, order.Cancelled, order.Failed,
		}
		for _, status := range valid {
			t.Run(status.String(), func(t *testing.T) {
				require.NoError(t, status.Validate())
			})
		}
	})

	t.Run("should reject Unknown and out-of-range values", func(t *testing.T) {
		for _, status := range []order.Status{order.Unknown, order.Status(-1), order.Status(10), order.Status(100)} {
			t.Run(fmt.Sprintf("value %d", int(status)), func(t *testing.T) {
				err := status.Validate()
				require.Error(t, err)
				assert.Contains(t, err.Error(), "not a valid status")
			})
		}
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.Completed.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
	assert.True(t, order.Failed.IsTerminal())
	assert.False(t, order.Draft.IsTerminal())
	assert.False(t, order.Delivered.IsTerminal())
}

func TestStatus_CanTransitionTo(t *testing.T) {
	t.Run("should allow the forward chain", func(t *testing.T) {
		chain := []order.Status{
			order.Draft, order.Confirmed, order.VendorAssigned, order.Accepted,
			order.Dispatched, order.Delivered, order.Completed,
		}
		for i := 0; i < len(chain)-1; i++ {
			assert.True(t, chain[i].CanTransitionTo(chain[i+1]),
				"%s -> %s should be allowed", chain[i], chain[i+1])
		}
	})

	t.Run("should allow vendor reassignment self-edge", func(t *testing.T) {
		assert.True(t, order.VendorAssigned.CanTransitionTo(order.VendorAssigned))
	})

	t.Run("should allow cancellation and failure from any non-terminal status", func(t *testing.T) {
		nonTerminal := []order.Status{
			order.Draft, order.Confirmed, order.VendorAssigned,
			order.Accepted, order.Dispatched, order.Delivered,
		}
		for _, status := range nonTerminal {
			assert.True(t, status.CanTransitionTo(order.Cancelled), "%s -> Cancelled", status)
			assert.True(t, status.CanTransitionTo(order.Failed), "%s -> Failed", status)
		}
	})

	t.Run("should reject skipping states", func(t *testing.T) {
		assert.False(t, order.Draft.CanTransitionTo(order.VendorAssigned))
		assert.False(t, order.Confirmed.CanTransitionTo(order.Accepted))
		assert.False(t, order.Accepted.CanTransitionTo(order.Delivered))
		assert.False(t, order.Dispatched.CanTransitionTo(order.Completed))
	})

	t.Run("should reject backward transitions", func(t *testing.T) {
		assert.False(t, order.Accepted.CanTransitionTo(order.Confirmed))
		assert.False(t, order.Delivered.CanTransitionTo(order.Dispatched))
	})

	t.Run("terminal statuses have no outgoing transitions", func(t *testing.T) {
		for _, status := range []order.Status{order.Completed, order.Cancelled, order.Failed} {
			for target := order.Draft; target <= order.Failed; target++ {
				assert.False(t, status.CanTransitionTo(target), "%s -> %s", status, target)
			}
		}
	})
}

func TestStatus_TransitionTo(t *testing.T) {
	t.Run("should return target on valid edge", func(t *testing.T) {
		next, err := order.Confirmed.TransitionTo(order.VendorAssigned)
		require.NoError(t, err)
		assert.Equal(t, order.VendorAssigned, next)
	})

	t.Run("should wrap ErrInvalidTransition on rejected edge", func(t *testing.T) {
		_, err := order.Draft.TransitionTo(order.Delivered)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})
}

func TestStatus_VendorRequirements(t *testing.T) {
	assert.True(t, order.VendorAssigned.RequiresVendor())
	assert.True(t, order.Completed.RequiresVendor())
	assert.False(t, order.Cancelled.RequiresVendor())
	assert.True(t, order.Draft.ForbidsVendor())
	assert.True(t, order.Confirmed.ForbidsVendor())
	assert.False(t, order.Failed.ForbidsVendor())
}
