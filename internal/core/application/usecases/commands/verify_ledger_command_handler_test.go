package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/ledger"
	"fulfillment/internal/core/domain/model/retailer"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLedgerUoW struct{ mock.Mock }

func (m *MockLedgerUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLedgerUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLedgerUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLedgerUoW) RetailerRepository() ports.RetailerRepository {
	args := m.Called()
	return args.Get(0).(ports.RetailerRepository)
}

func (m *MockLedgerUoW) LedgerRepository() ports.LedgerRepository {
	args := m.Called()
	return args.Get(0).(ports.LedgerRepository)
}

type MockLedgerUoWFactory struct{ mock.Mock }

func (m *MockLedgerUoWFactory) Create() commands.LedgerUoW {
	args := m.Called()
	return args.Get(0).(commands.LedgerUoW)
}

func chainEntry(t *testing.T, retailerID kernel.UUID, txType ledger.TransactionType, amount, previous int64) *ledger.Entry {
	t.Helper()
	entry, err := ledger.NewEntry(
		kernel.NewUUID(), retailerID, txType, kernel.NewMoney(amount), kernel.NewMoney(previous), time.Now().UTC())
	require.NoError(t, err)
	return entry
}

func TestVerifyLedgerCommandHandler_Handle_CleanChain(t *testing.T) {
	ctx := t.Context()

	retailerID := kernel.NewUUID()
	cmd, err := commands.NewVerifyLedgerCommand(retailerID)
	require.NoError(t, err)

	chain := []*ledger.Entry{
		chainEntry(t, retailerID, ledger.OrderDebit, 10_000, 0),
		chainEntry(t, retailerID, ledger.PaymentCredit, 3_000, 10_000),
	}

	ledgerRepo := new(MockCreateOrderLedgerRepository)
	uow := new(MockLedgerUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("LedgerRepository").Return(ledgerRepo).Once(),
		ledgerRepo.On("GetChain", ctx, retailerID).Return(chain, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	admin := new(MockAdminNotifier)
	handler := commands.NewVerifyLedgerCommandHandler(factory, admin, slog.Default())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	admin.AssertNotCalled(t, "Alert")
	uow.AssertExpectations(t)
	ledgerRepo.AssertExpectations(t)
}

func TestVerifyLedgerCommandHandler_Handle_BrokenChainFreezes(t *testing.T) {
	ctx := t.Context()

	retailerID := kernel.NewUUID()
	cmd, err := commands.NewVerifyLedgerCommand(retailerID)
	require.NoError(t, err)

	// Second entry claims a previous balance its predecessor never produced.
	chain := []*ledger.Entry{
		chainEntry(t, retailerID, ledger.OrderDebit, 10_000, 0),
		chainEntry(t, retailerID, ledger.PaymentCredit, 3_000, 5_000),
	}

	testRetailer, err := retailer.NewRetailer(retailerID, "Acme Retail", "Austin", "TX", kernel.NewMoney(100_000), retailer.TierA)
	require.NoError(t, err)

	ledgerRepo := new(MockCreateOrderLedgerRepository)
	retailerRepo := new(MockCreateOrderRetailerRepository)
	uow := new(MockLedgerUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("LedgerRepository").Return(ledgerRepo).Once(),
		ledgerRepo.On("GetChain", ctx, retailerID).Return(chain, nil).Once(),
		uow.On("RetailerRepository").Return(retailerRepo).Once(),
		retailerRepo.On("GetForUpdate", ctx, retailerID).Return(testRetailer, nil).Once(),
		uow.On("RetailerRepository").Return(retailerRepo).Once(),
		retailerRepo.On("Update", ctx, testRetailer).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	admin := new(MockAdminNotifier)
	admin.On("Alert", ctx, "ledger chain corrupted", mock.AnythingOfType("string")).Return(nil).Once()

	handler := commands.NewVerifyLedgerCommandHandler(factory, admin, slog.Default())
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, ledger.ErrChainMismatch)
	assert.True(t, testRetailer.IsLedgerFrozen())
	admin.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestVerifyLedgerCommandHandler_Handle_EmptyChain(t *testing.T) {
	ctx := t.Context()

	retailerID := kernel.NewUUID()
	cmd, err := commands.NewVerifyLedgerCommand(retailerID)
	require.NoError(t, err)

	ledgerRepo := new(MockCreateOrderLedgerRepository)
	uow := new(MockLedgerUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("LedgerRepository").Return(ledgerRepo).Once(),
		ledgerRepo.On("GetChain", ctx, retailerID).Return([]*ledger.Entry{}, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewVerifyLedgerCommandHandler(factory, new(MockAdminNotifier), slog.Default())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	uow.AssertExpectations(t)
}
