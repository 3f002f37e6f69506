package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetRetailerLedgerQueryHandler reads a retailer's statement straight from
// the ledger tables.
type GetRetailerLedgerQueryHandler struct {
	db *gorm.DB
}

// NewGetRetailerLedgerQueryHandler creates a handler for statement queries.
func NewGetRetailerLedgerQueryHandler(db *gorm.DB) GetRetailerLedgerQueryHandler {
	return GetRetailerLedgerQueryHandler{db: db}
}

// Handle loads the retailer's position and every ledger entry oldest-first.
func (h GetRetailerLedgerQueryHandler) Handle(
	ctx context.Context,
	query GetRetailerLedgerQuery,
) (GetRetailerLedgerQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetRetailerLedgerQueryResponse{}, err
	}

	response := GetRetailerLedgerQueryResponse{
		RetailerID: query.RetailerID(),
		Entries:    make([]LedgerEntryResponse, 0),
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			outstanding_debt,
			credit_limit,
			ledger_frozen
		FROM retailers
		WHERE id = ?
	`, query.RetailerID().Bytes()).Row()
	if err := row.Scan(&response.OutstandingDebt, &response.CreditLimit, &response.LedgerFrozen); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetRetailerLedgerQueryResponse{}, errs.NewObjectNotFoundError("retailer", query.RetailerID())
		}
		return GetRetailerLedgerQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			transaction_type,
			amount,
			previous_balance,
			running_balance,
			order_id,
			payment_ref,
			reversal_of_id,
			created_at
		FROM ledger_entries
		WHERE retailer_id = ?
		ORDER BY created_at, id
	`, query.RetailerID().Bytes()).Rows()
	if err != nil {
		return GetRetailerLedgerQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry LedgerEntryResponse
		var id uuid.UUID
		var orderID, reversalOfID uuid.NullUUID
		var paymentRef sql.NullString
		var createdAt time.Time

		err = rows.Scan(
			&id,
			&entry.TransactionType,
			&entry.Amount,
			&entry.PreviousBalance,
			&entry.RunningBalance,
			&orderID,
			&paymentRef,
			&reversalOfID,
			&createdAt,
		)
		if err != nil {
			return GetRetailerLedgerQueryResponse{}, err
		}

		entryID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return GetRetailerLedgerQueryResponse{}, idErr
		}
		entry.ID = entryID
		entry.CreatedAt = createdAt
		entry.PaymentRef = paymentRef.String

		if orderID.Valid {
			ref, refErr := kernel.UUIDFromBytes(orderID.UUID[:])
			if refErr != nil {
				return GetRetailerLedgerQueryResponse{}, refErr
			}
			entry.OrderID = &ref
		}
		if reversalOfID.Valid {
			ref, refErr := kernel.UUIDFromBytes(reversalOfID.UUID[:])
			if refErr != nil {
				return GetRetailerLedgerQueryResponse{}, refErr
			}
			entry.ReversalOfID = &ref
		}

		response.Entries = append(response.Entries, entry)
	}

	if err = rows.Err(); err != nil {
		return GetRetailerLedgerQueryResponse{}, err
	}

	return response, nil
}
