package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetVendorRankingQueryIsNotConstructed = errors.New(
	"GetVendorRankingQuery must be created via NewGetVendorRankingQuery constructor",
)

// GetVendorRankingQuery retrieves all routable vendors ordered by overall
// score, the same ordering the routing engine uses for assignment.
type GetVendorRankingQuery struct {
	guard guard.ConstructorGuard
}

// NewGetVendorRankingQuery creates a parameterless ranking query.
func NewGetVendorRankingQuery() GetVendorRankingQuery {
	return GetVendorRankingQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetVendorRankingQuery) Validate() error {
	return q.guard.Validate(ErrGetVendorRankingQueryIsNotConstructed)
}

// GetVendorRankingQueryResponse is one ranked vendor with its score
// breakdown and response history counters.
type GetVendorRankingQueryResponse struct {
	VendorID         kernel.UUID
	Name             string
	City             string
	State            string
	Overall          float64
	Availability     float64
	Proximity        float64
	Workload         float64
	Price            float64
	Reliability      float64
	Assigned         int
	Accepted         int
	Rejected         int
	Delivered        int
	Cancelled        int
	LastCalculatedAt time.Time
}
