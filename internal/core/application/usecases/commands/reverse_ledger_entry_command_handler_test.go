package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReverseLedgerEntryCommandHandler_Handle_ReversesDebit(t *testing.T) {
	ctx := t.Context()

	retailerID := kernel.NewUUID()
	original := chainEntry(t, retailerID, ledger.OrderDebit, 2_000, 0)
	cmd, err := commands.NewReverseLedgerEntryCommand(original.ID(), "duplicate billing")
	require.NoError(t, err)

	testRetailer := indebtedRetailer(t, retailerID, 2_000)

	retailerRepo := new(MockCreateOrderRetailerRepository)
	ledgerRepo := new(MockCreateOrderLedgerRepository)
	uow := new(MockLedgerUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("LedgerRepository").Return(ledgerRepo).Once(),
		ledgerRepo.On("Get", ctx, original.ID()).Return(original, nil).Once(),
		uow.On("RetailerRepository").Return(retailerRepo).Once(),
		retailerRepo.On("GetForUpdate", ctx, retailerID).Return(testRetailer, nil).Once(),
		ledgerRepo.On("HasReversal", ctx, original.ID()).Return(false, nil).Once(),
		ledgerRepo.On("GetTailForUpdate", ctx, retailerID).Return(original, nil).Once(),
		ledgerRepo.On("Append", ctx, mock.AnythingOfType("*ledger.Entry")).Return(nil).Once(),
		uow.On("RetailerRepository").Return(retailerRepo).Once(),
		retailerRepo.On("Update", ctx, testRetailer).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReverseLedgerEntryCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)

	appended := ledgerRepo.Calls[3].Arguments[1].(*ledger.Entry)
	assert.Equal(t, ledger.ReversalCredit, appended.TransactionType())
	require.NotNil(t, appended.ReversalOfID())
	assert.Equal(t, original.ID(), *appended.ReversalOfID())
	assert.Equal(t, "duplicate billing", appended.PaymentRef())
	assert.True(t, appended.RunningBalance().IsZero())
	assert.True(t, testRetailer.OutstandingDebt().IsZero())

	ledgerRepo.AssertExpectations(t)
	retailerRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestReverseLedgerEntryCommandHandler_Handle_AlreadyReversed(t *testing.T) {
	ctx := t.Context()

	retailerID := kernel.NewUUID()
	original := chainEntry(t, retailerID, ledger.OrderDebit, 2_000, 0)
	cmd, err := commands.NewReverseLedgerEntryCommand(original.ID(), "duplicate billing")
	require.NoError(t, err)

	testRetailer := indebtedRetailer(t, retailerID, 0)

	retailerRepo := new(MockCreateOrderRetailerRepository)
	ledgerRepo := new(MockCreateOrderLedgerRepository)
	uow := new(MockLedgerUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("LedgerRepository").Return(ledgerRepo).Once(),
		ledgerRepo.On("Get", ctx, original.ID()).Return(original, nil).Once(),
		uow.On("RetailerRepository").Return(retailerRepo).Once(),
		retailerRepo.On("GetForUpdate", ctx, retailerID).Return(testRetailer, nil).Once(),
		ledgerRepo.On("HasReversal", ctx, original.ID()).Return(true, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockLedgerUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReverseLedgerEntryCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	// Repeating the call must not credit the retailer a second time.
	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrEntryAlreadyReversed)
	ledgerRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	assert.True(t, testRetailer.OutstandingDebt().IsZero())
	uow.AssertExpectations(t)
	ledgerRepo.AssertExpectations(t)
}
