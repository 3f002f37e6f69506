package retailer_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/retailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// restoreRetailer builds a retailer with the given limit and debt in cents.
func restoreRetailer(t *testing.T, limit, debt int64, tier retailer.Tier) *retailer.Retailer {
	t.Helper()
	r, err := retailer.RestoreRetailer(
		kernel.NewUUID(), "Corner Shop", "Austin", "TX", kernel.NewMoney(limit), kernel.NewMoney(debt), tier, false,
	)
	require.NoError(t, err)
	return r
}

func TestNewRetailer(t *testing.T) {
	t.Run("should create retailer with zero debt", func(t *testing.T) {
		r, err := retailer.NewRetailer(kernel.NewUUID(), "Corner Shop", "Austin", "TX", kernel.NewMoney(500000), retailer.TierB)
		require.NoError(t, err)
		assert.True(t, r.OutstandingDebt().IsZero())
		assert.False(t, r.IsLedgerFrozen())
	})

	t.Run("should reject empty name", func(t *testing.T) {
		_, err := retailer.NewRetailer(kernel.NewUUID(), "", "Austin", "TX", kernel.NewMoney(500000), retailer.TierB)
		require.Error(t, err)
	})

	t.Run("should reject unknown tier", func(t *testing.T) {
		_, err := retailer.NewRetailer(kernel.NewUUID(), "Corner Shop", "Austin", "TX", kernel.NewMoney(500000), retailer.Tier("Z"))
		require.Error(t, err)
	})
}

func TestRetailer_CheckAvailability(t *testing.T) {
	// creditLimit=5000.00, outstandingDebt=4500.00 -> availableCredit=500.00
	t.Run("should reject order above available credit", func(t *testing.T) {
		r := restoreRetailer(t, 500000, 450000, retailer.TierB)

		err := r.CheckAvailability(kernel.NewMoney(200000), retailer.CreditPolicy{})

		require.ErrorIs(t, err, retailer.ErrCreditLimitExceeded)
	})

	t.Run("should accept order within available credit", func(t *testing.T) {
		r := restoreRetailer(t, 500000, 450000, retailer.TierB)

		require.NoError(t, r.CheckAvailability(kernel.NewMoney(40000), retailer.CreditPolicy{}))
		assert.Equal(t, int64(50000), r.AvailableCredit().Cents())
	})

	t.Run("should reject order above the tier ceiling", func(t *testing.T) {
		r := restoreRetailer(t, 10000000, 0, retailer.TierC)
		policy := retailer.CreditPolicy{TierCeilings: map[retailer.Tier]kernel.Money{
			retailer.TierC: kernel.NewMoney(100000),
		}}

		err := r.CheckAvailability(kernel.NewMoney(100001), policy)

		require.ErrorIs(t, err, retailer.ErrCreditTierRestricted)
	})

	t.Run("should ignore ceiling for unrestricted tiers", func(t *testing.T) {
		r := restoreRetailer(t, 10000000, 0, retailer.TierA)
		policy := retailer.CreditPolicy{TierCeilings: map[retailer.Tier]kernel.Money{
			retailer.TierC: kernel.NewMoney(100000),
		}}

		require.NoError(t, r.CheckAvailability(kernel.NewMoney(5000000), policy))
	})

	t.Run("should hard-stop a frozen ledger", func(t *testing.T) {
		r := restoreRetailer(t, 500000, 0, retailer.TierA)
		r.FreezeLedger()

		require.ErrorIs(t, r.CheckAvailability(kernel.NewMoney(1), retailer.CreditPolicy{}), retailer.ErrLedgerFrozen)
	})
}

func TestRetailer_DebtMutations(t *testing.T) {
	t.Run("debit then credit round-trips the debt", func(t *testing.T) {
		r := restoreRetailer(t, 500000, 450000, retailer.TierB)

		require.NoError(t, r.ApplyDebit(kernel.NewMoney(40000)))
		assert.Equal(t, int64(490000), r.OutstandingDebt().Cents())

		require.NoError(t, r.ApplyCredit(kernel.NewMoney(40000)))
		assert.Equal(t, int64(450000), r.OutstandingDebt().Cents())
	})

	t.Run("should reject credit pushing debt negative", func(t *testing.T) {
		r := restoreRetailer(t, 500000, 100, retailer.TierB)
		require.ErrorIs(t, r.ApplyCredit(kernel.NewMoney(101)), retailer.ErrDebtUnderflow)
	})

	t.Run("should reject writes while frozen", func(t *testing.T) {
		r := restoreRetailer(t, 500000, 100, retailer.TierB)
		r.FreezeLedger()

		require.ErrorIs(t, r.ApplyDebit(kernel.NewMoney(1)), retailer.ErrLedgerFrozen)
		require.ErrorIs(t, r.ApplyCredit(kernel.NewMoney(1)), retailer.ErrLedgerFrozen)

		r.UnfreezeLedger()
		require.NoError(t, r.ApplyDebit(kernel.NewMoney(1)))
	})
}
