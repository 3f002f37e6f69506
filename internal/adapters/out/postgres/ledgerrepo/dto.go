// Package ledgerrepo provides data transfer objects and mapping functions
// for the append-only credit ledger. Entry rows are inserted and read,
// never updated or deleted.
package ledgerrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/ledger"

	"github.com/google/uuid"
)

// EntryDTO represents the database structure for persisting ledger
// entries. Amounts and balances are integer cents.
type EntryDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	RetailerID      uuid.UUID `gorm:"type:uuid;index"`
	TransactionType string
	Amount          int64
	PreviousBalance int64
	RunningBalance  int64
	OrderID         *uuid.UUID `gorm:"type:uuid;index"`
	PaymentRef      string
	ReversalOfID    *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time  `gorm:"index"`
}

// TableName specifies the database table name for ledger entries.
func (EntryDTO) TableName() string {
	return "ledger_entries"
}

// fromDomain converts a ledger entry to its database representation.
func fromDomain(entry *ledger.Entry) EntryDTO {
	var orderID *uuid.UUID
	if id := entry.OrderID(); id != nil {
		raw := id.Bytes()
		orderID = &raw
	}

	var reversalOfID *uuid.UUID
	if id := entry.ReversalOfID(); id != nil {
		raw := id.Bytes()
		reversalOfID = &raw
	}

	return EntryDTO{
		ID:              entry.ID().Bytes(),
		RetailerID:      entry.RetailerID().Bytes(),
		TransactionType: string(entry.TransactionType()),
		Amount:          entry.Amount().Cents(),
		PreviousBalance: entry.PreviousBalance().Cents(),
		RunningBalance:  entry.RunningBalance().Cents(),
		OrderID:         orderID,
		PaymentRef:      entry.PaymentRef(),
		ReversalOfID:    reversalOfID,
		CreatedAt:       entry.CreatedAt(),
	}
}

// toDomain converts a database DTO to a ledger entry. RestoreEntry
// re-derives the running balance, so rows whose balances do not add up
// are rejected at the boundary.
func toDomain(dto EntryDTO) (*ledger.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	retailerID, err := kernel.UUIDFromBytes(dto.RetailerID[:])
	if err != nil {
		return nil, err
	}

	var orderID *kernel.UUID
	if dto.OrderID != nil {
		oID, orderErr := kernel.UUIDFromBytes((*dto.OrderID)[:])
		if orderErr != nil {
			return nil, orderErr
		}
		orderID = &oID
	}

	var reversalOfID *kernel.UUID
	if dto.ReversalOfID != nil {
		rID, reversalErr := kernel.UUIDFromBytes((*dto.ReversalOfID)[:])
		if reversalErr != nil {
			return nil, reversalErr
		}
		reversalOfID = &rID
	}

	return ledger.RestoreEntry(
		id,
		retailerID,
		ledger.TransactionType(dto.TransactionType),
		kernel.NewMoney(dto.Amount),
		kernel.NewMoney(dto.PreviousBalance),
		kernel.NewMoney(dto.RunningBalance),
		orderID,
		dto.PaymentRef,
		reversalOfID,
		dto.CreatedAt,
	)
}
