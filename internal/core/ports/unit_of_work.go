package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each
// request/command. This ensures proper isolation between concurrent
// operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. It provides
// transaction control and repositories bound to the same transaction.
// Client code must explicitly manage transaction lifecycle, and any
// notification goes out only after Commit returns.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current
	// transaction.
	OrderRepository() OrderRepository

	// RetailerRepository returns a RetailerRepository bound to the
	// current transaction.
	RetailerRepository() RetailerRepository

	// LedgerRepository returns a LedgerRepository bound to the current
	// transaction.
	LedgerRepository() LedgerRepository

	// VendorRepository returns a VendorRepository bound to the current
	// transaction.
	VendorRepository() VendorRepository

	// WindowRepository returns a WindowRepository bound to the current
	// transaction.
	WindowRepository() WindowRepository

	// HealingRepository returns a HealingRepository bound to the current
	// transaction.
	HealingRepository() HealingRepository

	// SettingsRepository returns a SettingsRepository bound to the
	// current transaction.
	SettingsRepository() SettingsRepository
}
