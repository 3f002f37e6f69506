package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/ledger"
)

// LedgerRepository defines the persistence contract for the append-only
// credit ledger. Entries are never updated or deleted; corrections are
// appended as offsetting entries.
type LedgerRepository interface {
	// Append persists a new ledger entry.
	Append(ctx context.Context, entry *ledger.Entry) error

	// Get retrieves a single entry by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*ledger.Entry, error)

	// GetTailForUpdate retrieves the retailer's most recent entry with a
	// row lock, serializing concurrent appends to the same chain. Returns
	// nil without error for a retailer with no entries yet. Must be
	// called inside an open transaction.
	GetTailForUpdate(ctx context.Context, retailerID kernel.UUID) (*ledger.Entry, error)

	// GetChain retrieves all of a retailer's entries oldest-first for
	// chain verification and statement queries.
	GetChain(ctx context.Context, retailerID kernel.UUID) ([]*ledger.Entry, error)

	// GetByOrder retrieves all entries referencing an order, used to find
	// the original debit when a failed order is reversed.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*ledger.Entry, error)

	// HasReversal reports whether any entry offsets the given one. Guards
	// manual reversals against being applied twice.
	HasReversal(ctx context.Context, entryID kernel.UUID) (bool, error)
}
