package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetVendorRankingQueryHandler reads the current vendor ranking from the
// score table. Only approved, active vendors appear; the ordering matches
// what the router would pick from.
type GetVendorRankingQueryHandler struct {
	db *gorm.DB
}

// NewGetVendorRankingQueryHandler creates a handler for ranking queries.
func NewGetVendorRankingQueryHandler(db *gorm.DB) GetVendorRankingQueryHandler {
	return GetVendorRankingQueryHandler{db: db}
}

// Handle executes the ranking query, best vendor first.
func (h GetVendorRankingQueryHandler) Handle(
	ctx context.Context,
	query GetVendorRankingQuery,
) ([]GetVendorRankingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	ranking := make([]GetVendorRankingQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			v.id,
			v.name,
			v.city,
			v.state,
			s.overall,
			s.availability,
			s.proximity,
			s.workload,
			s.price,
			s.reliability,
			s.assigned,
			s.accepted,
			s.rejected,
			s.delivered,
			s.cancelled,
			s.last_calculated_at
		FROM vendors v
		JOIN vendor_scores s ON s.vendor_id = v.id
		WHERE v.approved AND v.active
		ORDER BY s.overall DESC, s.reliability DESC, v.id
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetVendorRankingQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&resp.Name,
			&resp.City,
			&resp.State,
			&resp.Overall,
			&resp.Availability,
			&resp.Proximity,
			&resp.Workload,
			&resp.Price,
			&resp.Reliability,
			&resp.Assigned,
			&resp.Accepted,
			&resp.Rejected,
			&resp.Delivered,
			&resp.Cancelled,
			&resp.LastCalculatedAt,
		)
		if err != nil {
			return nil, err
		}

		vendorID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.VendorID = vendorID
		ranking = append(ranking, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return ranking, nil
}
