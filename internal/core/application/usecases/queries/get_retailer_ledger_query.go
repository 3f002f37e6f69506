// Package queries contains read operations implementing the query side of
// the CQRS architecture. Handlers read directly from the database with raw
// SQL, bypassing the domain model for efficient data retrieval.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetRetailerLedgerQueryIsNotConstructed = errors.New(
	"GetRetailerLedgerQuery must be created via NewGetRetailerLedgerQuery constructor",
)

// GetRetailerLedgerQuery retrieves a retailer's full ledger statement:
// every entry oldest-first, plus the account's current position.
//
// Example:
//
//	query, err := NewGetRetailerLedgerQuery(retailerID)
//	if err != nil {
//	    return fmt.Errorf("invalid retailer id: %w", err)
//	}
//	statement, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to load statement: %w", err)
//	}
//	fmt.Printf("outstanding debt: %d cents\n", statement.OutstandingDebt)
type GetRetailerLedgerQuery struct {
	retailerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetRetailerLedgerQuery creates a query for a retailer's statement.
func NewGetRetailerLedgerQuery(retailerID kernel.UUID) (GetRetailerLedgerQuery, error) {
	if err := retailerID.Validate(); err != nil {
		return GetRetailerLedgerQuery{}, err
	}
	return GetRetailerLedgerQuery{
		retailerID: retailerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRetailerLedgerQuery) Validate() error {
	return q.guard.Validate(ErrGetRetailerLedgerQueryIsNotConstructed)
}

// RetailerID returns the retailer whose statement to load.
func (q GetRetailerLedgerQuery) RetailerID() kernel.UUID {
	return q.retailerID
}

// LedgerEntryResponse is one statement line. Amounts are in cents.
type LedgerEntryResponse struct {
	ID              kernel.UUID
	TransactionType string
	Amount          int64
	PreviousBalance int64
	RunningBalance  int64
	OrderID         *kernel.UUID
	PaymentRef      string
	ReversalOfID    *kernel.UUID
	CreatedAt       time.Time
}

// GetRetailerLedgerQueryResponse is the full statement with the account
// position the chain currently produces.
type GetRetailerLedgerQueryResponse struct {
	RetailerID      kernel.UUID
	OutstandingDebt int64
	CreditLimit     int64
	LedgerFrozen    bool
	Entries         []LedgerEntryResponse
}
