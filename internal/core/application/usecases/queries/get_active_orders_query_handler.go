package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler retrieves in-flight orders from the
// database. Terminal orders (Completed, Cancelled, Failed) are excluded.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for active order
// queries.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle executes the query, oldest update first so stalling orders
// surface at the top.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			retailer_id,
			vendor_id,
			status,
			total,
			credit_used,
			updated_at
		FROM orders
		WHERE status NOT IN (?, ?, ?)
		ORDER BY updated_at
	`, order.Completed, order.Cancelled, order.Failed).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetActiveOrdersQueryResponse
		var id, retailerID uuid.UUID
		var vendorID uuid.NullUUID
		var status int
		var updatedAt time.Time

		err = rows.Scan(
			&id,
			&retailerID,
			&vendorID,
			&status,
			&resp.Total,
			&resp.CreditUsed,
			&updatedAt,
		)
		if err != nil {
			return nil, err
		}
		resp.Status = order.Status(status).String()

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID

		rID, idErr := kernel.UUIDFromBytes(retailerID[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.RetailerID = rID

		if vendorID.Valid {
			vID, idErr := kernel.UUIDFromBytes(vendorID.UUID[:])
			if idErr != nil {
				return nil, idErr
			}
			resp.VendorID = &vID
		}

		resp.UpdatedAt = updatedAt
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
