// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// transaction management, and persistence, with notifications and event
// publication strictly after commit.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command
// handlers. These abstractions ensure data consistency across aggregate
// boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a
	// transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// RetailerRepoFactory provides access to the retailer repository
	// within a transaction.
	RetailerRepoFactory interface {
		RetailerRepository() ports.RetailerRepository
	}

	// LedgerRepoFactory provides access to the ledger repository within a
	// transaction.
	LedgerRepoFactory interface {
		LedgerRepository() ports.LedgerRepository
	}

	// VendorRepoFactory provides access to the vendor repository within a
	// transaction.
	VendorRepoFactory interface {
		VendorRepository() ports.VendorRepository
	}

	// WindowRepoFactory provides access to the acceptance-window
	// repository within a transaction.
	WindowRepoFactory interface {
		WindowRepository() ports.WindowRepository
	}

	// HealingRepoFactory provides access to the healing-action repository
	// within a transaction.
	HealingRepoFactory interface {
		HealingRepository() ports.HealingRepository
	}

	// SettingsRepoFactory provides access to the runtime settings
	// repository within a transaction.
	SettingsRepoFactory interface {
		SettingsRepository() ports.SettingsRepository
	}

	// OrderingUoW manages transactions for order intake: the order row,
	// the retailer's credit position, and the opening ledger debit.
	OrderingUoW interface {
		TxManager
		OrderRepoFactory
		RetailerRepoFactory
		LedgerRepoFactory
		SettingsRepoFactory
	}

	// OrderingUoWFactory creates new ordering unit of work instances.
	OrderingUoWFactory interface {
		Create() OrderingUoW
	}

	// RoutingUoW manages transactions for vendor routing, acceptance
	// windows, and the financial unwind when routing exhausts.
	RoutingUoW interface {
		TxManager
		OrderRepoFactory
		RetailerRepoFactory
		LedgerRepoFactory
		VendorRepoFactory
		WindowRepoFactory
	}

	// RoutingUoWFactory creates new routing unit of work instances.
	RoutingUoWFactory interface {
		Create() RoutingUoW
	}

	// HealingUoW manages transactions for watchdog interventions, which
	// may touch any part of a stuck order.
	HealingUoW interface {
		TxManager
		OrderRepoFactory
		RetailerRepoFactory
		LedgerRepoFactory
		VendorRepoFactory
		WindowRepoFactory
		HealingRepoFactory
	}

	// HealingUoWFactory creates new healing unit of work instances.
	HealingUoWFactory interface {
		Create() HealingUoW
	}

	// LedgerUoW manages transactions for payments, reversals, and chain
	// verification.
	LedgerUoW interface {
		TxManager
		RetailerRepoFactory
		LedgerRepoFactory
	}

	// LedgerUoWFactory creates new ledger unit of work instances.
	LedgerUoWFactory interface {
		Create() LedgerUoW
	}

	// ScoreUoW manages transactions for vendor score maintenance.
	ScoreUoW interface {
		TxManager
		VendorRepoFactory
	}

	// ScoreUoWFactory creates new score unit of work instances.
	ScoreUoWFactory interface {
		Create() ScoreUoW
	}

	// SettingsUoW manages transactions for runtime settings toggles.
	SettingsUoW interface {
		TxManager
		SettingsRepoFactory
	}

	// SettingsUoWFactory creates new settings unit of work instances.
	SettingsUoWFactory interface {
		Create() SettingsUoW
	}
)
