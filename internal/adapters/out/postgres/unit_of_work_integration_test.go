package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/healingrepo"
	"fulfillment/internal/adapters/out/postgres/ledgerrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/retailerrepo"
	"fulfillment/internal/adapters/out/postgres/settingsrepo"
	"fulfillment/internal/adapters/out/postgres/vendorrepo"
	"fulfillment/internal/adapters/out/postgres/windowrepo"
	"fulfillment/internal/core/domain/model/assignment"
	"fulfillment/internal/core/domain/model/healing"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/ledger"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/retailer"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/core/ports"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/stretchr/testify/suite"
)

// UnitOfWorkIntegrationTestSuite provides integration testing for the
// GORM-based Unit of Work implementation with a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite initializes the PostgreSQL container and database connection
// for all tests, and prepares the schema.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.StatusLogDTO{},
		&retailerrepo.RetailerDTO{},
		&ledgerrepo.EntryDTO{},
		&vendorrepo.VendorDTO{},
		&vendorrepo.ScoreDTO{},
		&vendorrepo.StockDTO{},
		&windowrepo.WindowDTO{},
		&healingrepo.ActionDTO{},
		&settingsrepo.SettingsDTO{},
	)
	suite.Require().NoError(err)

	// AutoMigrate cannot express a partial index; the claim semantics of
	// healing_actions depend on it.
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_healing_actions_open
		ON healing_actions (order_id) WHERE status = 'IN_PROGRESS'`).Error
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest ensures a clean database state before each test.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(`TRUNCATE TABLE orders, order_items, order_status_log,
		retailers, ledger_entries, vendors, vendor_scores, vendor_stock,
		assignment_windows, healing_actions, settings`).Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up the PostgreSQL container.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// TestUnitOfWorkFactory_Create verifies the factory creates isolated
// instances that each expose the full repository set.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.RetailerRepository())
	suite.NotNil(uow1.LedgerRepository())
	suite.NotNil(uow2.VendorRepository())
	suite.NotNil(uow2.WindowRepository())
	suite.NotNil(uow2.HealingRepository())
	suite.NotNil(uow2.SettingsRepository())
}

// TestUnitOfWork_TransactionLifecycle verifies begin, commit, and rollback.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err, "Should begin transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Multiple begin calls should be safe")

	err = uow.Commit(ctx)
	suite.Require().NoError(err, "Should commit transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err, "Should rollback transaction successfully")
}

// TestUnitOfWork_TransactionErrors verifies error handling for invalid
// transaction operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

// TestUnitOfWork_OrderRoundTrip verifies an order with its lines and
// status log survives a commit and restores intact.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_OrderRoundTrip() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testRetailer := suite.createTestRetailer()
	testOrder := suite.createTestOrder(testRetailer.ID())

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.RetailerRepository().Add(ctx, testRetailer)
	suite.Require().NoError(err)
	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	restored, err := newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), restored.ID())
	suite.Equal(testOrder.RetailerID(), restored.RetailerID())
	suite.Equal(order.Draft, restored.Status())
	suite.Len(restored.Items(), 2)
	suite.True(restored.Total().IsEqual(testOrder.Total()))
	suite.True(restored.CreditUsed().IsEqual(testOrder.CreditUsed()))
}

// TestUnitOfWork_OrderWorkflowWithStatusLog drives an order through
// confirmation and vendor assignment and verifies the audit rows land.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_OrderWorkflowWithStatusLog() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testRetailer := suite.createTestRetailer()
	testOrder := suite.createTestOrder(testRetailer.ID())
	testVendor := suite.createTestVendor()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	suite.Require().NoError(uow.RetailerRepository().Add(ctx, testRetailer))
	suite.Require().NoError(uow.VendorRepository().Add(ctx, testVendor))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	now := time.Now().UTC()
	suite.Require().NoError(testOrder.TransitionTo(order.Confirmed, "test", now))
	suite.Require().NoError(testOrder.AssignVendor(testVendor.ID(), "router", now))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, testOrder))

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	restored, err := newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.VendorAssigned, restored.Status())
	suite.Require().NotNil(restored.VendorID())
	suite.True(restored.VendorID().IsEqual(testVendor.ID()))

	var logCount int64
	err = suite.db.Model(&orderrepo.StatusLogDTO{}).
		Where("order_id = ?", testOrder.ID().Bytes()).
		Count(&logCount).Error
	suite.Require().NoError(err)
	suite.EqualValues(2, logCount, "Both transitions should be logged")
}

// TestUnitOfWork_LedgerChainAppend verifies that the chain survives a
// round trip and that GetTailForUpdate returns the latest entry.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_LedgerChainAppend() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testRetailer := suite.createTestRetailer()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.RetailerRepository().Add(ctx, testRetailer))

	debit, err := ledger.NewEntry(kernel.NewUUID(), testRetailer.ID(),
		ledger.OrderDebit, kernel.NewMoney(10_000), kernel.Zero(), time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.LedgerRepository().Append(ctx, debit))

	tail, err := uow.LedgerRepository().GetTailForUpdate(ctx, testRetailer.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(tail)
	suite.True(tail.RunningBalance().IsEqual(kernel.NewMoney(10_000)))

	credit, err := ledger.NewEntry(kernel.NewUUID(), testRetailer.ID(),
		ledger.PaymentCredit, kernel.NewMoney(4_000), tail.RunningBalance(),
		time.Now().UTC().Add(time.Second))
	suite.Require().NoError(err)
	suite.Require().NoError(uow.LedgerRepository().Append(ctx, credit.WithPaymentRef("PAY-1")))

	suite.Require().NoError(uow.Commit(ctx))

	newUow := suite.factory.Create()
	chain, err := newUow.LedgerRepository().GetChain(ctx, testRetailer.ID())
	suite.Require().NoError(err)
	suite.Require().Len(chain, 2)
	suite.Require().NoError(ledger.VerifyChain(chain))
	suite.Equal("PAY-1", chain[1].PaymentRef())
	suite.True(chain[1].RunningBalance().IsEqual(kernel.NewMoney(6_000)))
}

// TestUnitOfWork_LedgerTailEmpty verifies a retailer without entries gets
// a nil tail without error.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_LedgerTailEmpty() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)
	defer func() { _ = uow.Rollback(ctx) }()

	tail, err := uow.LedgerRepository().GetTailForUpdate(ctx, kernel.NewUUID())
	suite.Require().NoError(err)
	suite.Nil(tail)
}

// TestUnitOfWork_WindowClaims verifies the compare-and-swap claim
// semantics: only one closer wins a PENDING window.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WindowClaims() {
	ctx := context.Background()
	uow := suite.factory.Create()

	window, err := assignment.NewWindow(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		1, time.Now().UTC().Add(-time.Hour), 30*time.Minute)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.WindowRepository().Add(ctx, window))

	claimed, err := uow.WindowRepository().ClaimTimedOut(ctx, window.ID())
	suite.Require().NoError(err)
	suite.True(claimed, "First claim should win")

	claimed, err = uow.WindowRepository().ClaimTimedOut(ctx, window.ID())
	suite.Require().NoError(err)
	suite.False(claimed, "Second timeout claim should lose")

	claimed, err = uow.WindowRepository().ClaimResponded(ctx, window.ID(), true, time.Now().UTC())
	suite.Require().NoError(err)
	suite.False(claimed, "Response claim against a closed window should lose")

	restored, err := uow.WindowRepository().Get(ctx, window.ID())
	suite.Require().NoError(err)
	suite.Equal(assignment.StatusTimedOut, restored.Status())
}

// TestUnitOfWork_PendingWindowLookup verifies GetPendingByOrder and
// GetExpiredPending scanning.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_PendingWindowLookup() {
	ctx := context.Background()
	uow := suite.factory.Create()

	orderID := kernel.NewUUID()
	expired, err := assignment.NewWindow(kernel.NewUUID(), orderID, kernel.NewUUID(),
		1, time.Now().UTC().Add(-2*time.Hour), 30*time.Minute)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.WindowRepository().Add(ctx, expired))

	fresh, err := assignment.NewWindow(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		1, time.Now().UTC(), 30*time.Minute)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.WindowRepository().Add(ctx, fresh))

	pending, err := uow.WindowRepository().GetPendingByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Equal(expired.ID(), pending.ID())

	candidates, err := uow.WindowRepository().GetExpiredPending(ctx, time.Now().UTC(), 10)
	suite.Require().NoError(err)
	suite.Require().Len(candidates, 1, "Only the overdue window should be picked up")
	suite.Equal(expired.ID(), candidates[0].ID())
}

// TestUnitOfWork_StockReservation verifies quoting, reservation, and
// release against the vendor_stock rows.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_StockReservation() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testVendor := suite.createTestVendor()
	suite.Require().NoError(uow.VendorRepository().Add(ctx, testVendor))

	productID := kernel.NewUUID()
	err := suite.db.Create(&vendorrepo.StockDTO{
		VendorID:  testVendor.ID().Bytes(),
		ProductID: productID.Bytes(),
		Quantity:  10,
		UnitPrice: 2_500,
	}).Error
	suite.Require().NoError(err)

	item, err := order.NewItem(productID, 4, kernel.NewMoney(2_500))
	suite.Require().NoError(err)
	items := []order.Item{item}

	quote, ok, err := uow.VendorRepository().Quote(ctx, testVendor.ID(), items)
	suite.Require().NoError(err)
	suite.True(ok)
	suite.True(quote.IsEqual(kernel.NewMoney(10_000)))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.VendorRepository().ReserveStock(ctx, testVendor.ID(), items))
	suite.Require().NoError(uow.Commit(ctx))

	bigItem, err := order.NewItem(productID, 7, kernel.NewMoney(2_500))
	suite.Require().NoError(err)

	_, ok, err = uow.VendorRepository().Quote(ctx, testVendor.ID(), []order.Item{bigItem})
	suite.Require().NoError(err)
	suite.False(ok, "Remaining stock of 6 cannot cover 7")

	suite.Require().NoError(uow.Begin(ctx))
	err = uow.VendorRepository().ReserveStock(ctx, testVendor.ID(), []order.Item{bigItem})
	suite.Require().ErrorIs(err, vendorrepo.ErrInsufficientStock)
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Require().NoError(uow.VendorRepository().ReleaseStock(ctx, testVendor.ID(), items))

	_, ok, err = uow.VendorRepository().Quote(ctx, testVendor.ID(), []order.Item{bigItem})
	suite.Require().NoError(err)
	suite.True(ok, "Released stock should be quotable again")
}

// TestUnitOfWork_StockReservationDuplicateLines verifies that an order
// carrying several lines for the same product is checked against the
// summed quantity, not line by line.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_StockReservationDuplicateLines() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testVendor := suite.createTestVendor()
	suite.Require().NoError(uow.VendorRepository().Add(ctx, testVendor))

	productID := kernel.NewUUID()
	err := suite.db.Create(&vendorrepo.StockDTO{
		VendorID:  testVendor.ID().Bytes(),
		ProductID: productID.Bytes(),
		Quantity:  8,
		UnitPrice: 2_500,
	}).Error
	suite.Require().NoError(err)

	line, err := order.NewItem(productID, 5, kernel.NewMoney(2_500))
	suite.Require().NoError(err)
	duplicated := []order.Item{line, line}

	// Each line fits the stock of 8 on its own; together they need 10.
	_, ok, err := uow.VendorRepository().Quote(ctx, testVendor.ID(), duplicated)
	suite.Require().NoError(err)
	suite.False(ok, "Two lines of 5 need 10, stock holds 8")

	suite.Require().NoError(uow.Begin(ctx))
	err = uow.VendorRepository().ReserveStock(ctx, testVendor.ID(), duplicated)
	suite.Require().ErrorIs(err, vendorrepo.ErrInsufficientStock)
	suite.Require().NoError(uow.Rollback(ctx))

	smallLine, err := order.NewItem(productID, 4, kernel.NewMoney(2_500))
	suite.Require().NoError(err)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.VendorRepository().ReserveStock(ctx, testVendor.ID(), []order.Item{smallLine, smallLine}))
	suite.Require().NoError(uow.Commit(ctx))

	// Exactly the summed 8 were decremented, leaving nothing behind.
	oneMore, err := order.NewItem(productID, 1, kernel.NewMoney(2_500))
	suite.Require().NoError(err)
	_, ok, err = uow.VendorRepository().Quote(ctx, testVendor.ID(), []order.Item{oneMore})
	suite.Require().NoError(err)
	suite.False(ok, "All stock should be reserved")
}

// TestUnitOfWork_VendorScoreLifecycle verifies the score row created with
// the vendor and its idle-scan query.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_VendorScoreLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testVendor := suite.createTestVendor()
	suite.Require().NoError(uow.VendorRepository().Add(ctx, testVendor))

	score, err := uow.VendorRepository().GetScore(ctx, testVendor.ID())
	suite.Require().NoError(err)
	suite.InDelta(50.0, score.Overall(), 1e-9, "New vendors start neutral")

	score.RecordAssigned()
	score.RecordAccepted()
	score.SetComponents(80, 70, 60, 50, 90, 75, time.Now().UTC().Add(-48*time.Hour))
	suite.Require().NoError(uow.VendorRepository().UpdateScore(ctx, score))

	idle, err := uow.VendorRepository().GetScoresIdleSince(ctx, time.Now().UTC().Add(-24*time.Hour), 10)
	suite.Require().NoError(err)
	suite.Require().Len(idle, 1)
	suite.Equal(1, idle[0].Assigned())
	suite.Equal(1, idle[0].Accepted())
	suite.InDelta(75.0, idle[0].Overall(), 1e-9)
}

// TestUnitOfWork_HealingClaim verifies the partial unique index allows
// only one IN_PROGRESS action per order.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_HealingClaim() {
	ctx := context.Background()
	uow := suite.factory.Create()

	orderID := kernel.NewUUID()
	first, err := healing.NewAction(kernel.NewUUID(), orderID,
		healing.IssueRoutingStall, healing.RecoverReassignVendor, 1, time.Now().UTC())
	suite.Require().NoError(err)

	claimed, err := uow.HealingRepository().TryClaim(ctx, first)
	suite.Require().NoError(err)
	suite.True(claimed, "First worker should claim the order")

	second, err := healing.NewAction(kernel.NewUUID(), orderID,
		healing.IssueRoutingStall, healing.RecoverReassignVendor, 1, time.Now().UTC())
	suite.Require().NoError(err)

	claimed, err = uow.HealingRepository().TryClaim(ctx, second)
	suite.Require().NoError(err)
	suite.False(claimed, "Second worker should lose the claim without error")

	first.MarkSucceeded("order rerouted", time.Now().UTC())
	suite.Require().NoError(uow.HealingRepository().Update(ctx, first))

	third, err := healing.NewAction(kernel.NewUUID(), orderID,
		healing.IssueWorkflowStall, healing.RecoverRetryWorkflow, 2, time.Now().UTC())
	suite.Require().NoError(err)

	claimed, err = uow.HealingRepository().TryClaim(ctx, third)
	suite.Require().NoError(err)
	suite.True(claimed, "A resolved action frees the order for the next claim")

	count, err := uow.HealingRepository().CountByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Equal(2, count)

	actions, err := uow.HealingRepository().GetByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(actions, 2)
	suite.Equal(healing.ActionInProgress, actions[0].Status(), "Newest first")
}

// TestUnitOfWork_RetailerRowLock verifies GetForUpdate inside a
// transaction and credit state round-tripping.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RetailerRowLock() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testRetailer := suite.createTestRetailer()
	suite.Require().NoError(uow.RetailerRepository().Add(ctx, testRetailer))

	suite.Require().NoError(uow.Begin(ctx))

	locked, err := uow.RetailerRepository().GetForUpdate(ctx, testRetailer.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(locked.ApplyDebit(kernel.NewMoney(30_000)))
	locked.FreezeLedger()
	suite.Require().NoError(uow.RetailerRepository().Update(ctx, locked))

	suite.Require().NoError(uow.Commit(ctx))

	restored, err := suite.factory.Create().RetailerRepository().Get(ctx, testRetailer.ID())
	suite.Require().NoError(err)
	suite.True(restored.OutstandingDebt().IsEqual(kernel.NewMoney(30_000)))
	suite.True(restored.IsLedgerFrozen())

	restored.UnfreezeLedger()
	suite.Require().NoError(restored.ApplyCredit(kernel.NewMoney(30_000)))
	suite.Require().NoError(uow.RetailerRepository().Update(ctx, restored))

	cleared, err := uow.RetailerRepository().Get(ctx, testRetailer.ID())
	suite.Require().NoError(err)
	suite.True(cleared.OutstandingDebt().IsZero(), "Zero debt must persist")
	suite.False(cleared.IsLedgerFrozen(), "Unfreeze must persist")
}

// TestUnitOfWork_TransactionRollback verifies rollback discards changes
// across repositories.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testRetailer := suite.createTestRetailer()
	testOrder := suite.createTestOrder(testRetailer.ID())

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	suite.Require().NoError(uow.RetailerRepository().Add(ctx, testRetailer))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	_, err = uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err, "Transaction should see its own writes")

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	_, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err, "Order should not exist after rollback")
	_, err = newUow.RetailerRepository().Get(ctx, testRetailer.ID())
	suite.Require().Error(err, "Retailer should not exist after rollback")
}

// TestUnitOfWork_SafeModeToggle verifies the settings row upsert.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_SafeModeToggle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	enabled, err := uow.SettingsRepository().IsSafeMode(ctx)
	suite.Require().NoError(err)
	suite.False(enabled, "Safe mode defaults to off without a settings row")

	suite.Require().NoError(uow.SettingsRepository().SetSafeMode(ctx, true))

	enabled, err = uow.SettingsRepository().IsSafeMode(ctx)
	suite.Require().NoError(err)
	suite.True(enabled)

	suite.Require().NoError(uow.SettingsRepository().SetSafeMode(ctx, false))

	enabled, err = uow.SettingsRepository().IsSafeMode(ctx)
	suite.Require().NoError(err)
	suite.False(enabled)
}

// TestUnitOfWork_StallScan verifies GetStalledSince picks up only
// non-terminal, stale orders.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_StallScan() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testRetailer := suite.createTestRetailer()
	suite.Require().NoError(uow.RetailerRepository().Add(ctx, testRetailer))

	old := time.Now().UTC().Add(-3 * time.Hour)
	staleOrder, err := order.NewOrder(kernel.NewUUID(), testRetailer.ID(),
		suite.testItems(), kernel.Zero(), old)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.OrderRepository().Add(ctx, staleOrder))

	freshOrder := suite.createTestOrder(testRetailer.ID())
	suite.Require().NoError(uow.OrderRepository().Add(ctx, freshOrder))

	cancelledOrder, err := order.NewOrder(kernel.NewUUID(), testRetailer.ID(),
		suite.testItems(), kernel.Zero(), old)
	suite.Require().NoError(err)
	suite.Require().NoError(cancelledOrder.TransitionTo(order.Cancelled, "test", old))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, cancelledOrder))

	stalled, err := uow.OrderRepository().GetStalledSince(ctx, time.Now().UTC().Add(-time.Hour), 10)
	suite.Require().NoError(err)
	suite.Require().Len(stalled, 1)
	suite.Equal(staleOrder.ID(), stalled[0].ID())
}

// createTestRetailer creates a valid retailer for testing purposes.
func (suite *UnitOfWorkIntegrationTestSuite) createTestRetailer() *retailer.Retailer {
	r, err := retailer.NewRetailer(kernel.NewUUID(), "Test Retailer", "Austin", "TX",
		kernel.NewMoney(100_000), retailer.TierB)
	suite.Require().NoError(err)
	return r
}

// createTestVendor creates an approved, active vendor for testing purposes.
func (suite *UnitOfWorkIntegrationTestSuite) createTestVendor() *vendor.Vendor {
	v, err := vendor.NewVendor(kernel.NewUUID(), "Test Vendor", "Austin", "TX", 0, 23)
	suite.Require().NoError(err)
	v.Approve()
	return v
}

// testItems creates two valid order lines.
func (suite *UnitOfWorkIntegrationTestSuite) testItems() []order.Item {
	item1, err := order.NewItem(kernel.NewUUID(), 2, kernel.NewMoney(1_500))
	suite.Require().NoError(err)
	item2, err := order.NewItem(kernel.NewUUID(), 1, kernel.NewMoney(4_000))
	suite.Require().NoError(err)
	return []order.Item{item1, item2}
}

// createTestOrder creates a valid draft order for testing purposes.
func (suite *UnitOfWorkIntegrationTestSuite) createTestOrder(retailerID kernel.UUID) *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(), retailerID, suite.testItems(),
		kernel.Zero(), time.Now().UTC())
	suite.Require().NoError(err)
	return o
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
