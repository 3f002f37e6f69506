// Package vendorrepo provides data transfer objects and mapping functions
// for vendor persistence: the vendor row, its score row, and its
// per-product stock rows.
package vendorrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/vendor"

	"github.com/google/uuid"
)

// VendorDTO represents the database structure for persisting vendor
// aggregates.
type VendorDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string
	City            string
	State           string
	Approved        bool
	Active          bool
	WorkingFromHour int
	WorkingToHour   int
}

// TableName specifies the database table name for vendor entities.
func (VendorDTO) TableName() string {
	return "vendors"
}

// ScoreDTO represents the vendor's ranking state: component scores, the
// blended overall score, and the raw lifecycle counters.
type ScoreDTO struct {
	VendorID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Availability     float64
	Proximity        float64
	Workload         float64
	Price            float64
	Reliability      float64
	Overall          float64 `gorm:"index"`
	Assigned         int
	Accepted         int
	Rejected         int
	Delivered        int
	Cancelled        int
	LastCalculatedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for vendor scores.
func (ScoreDTO) TableName() string {
	return "vendor_scores"
}

// StockDTO represents one product the vendor stocks: the available
// quantity and the vendor's unit price in cents.
type StockDTO struct {
	VendorID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity  int
	UnitPrice int64
}

// TableName specifies the database table name for vendor stock.
func (StockDTO) TableName() string {
	return "vendor_stock"
}

// fromDomain converts a vendor aggregate to its database representation.
func fromDomain(aggregate *vendor.Vendor) VendorDTO {
	return VendorDTO{
		ID:              aggregate.ID().Bytes(),
		Name:            aggregate.Name(),
		City:            aggregate.City(),
		State:           aggregate.State(),
		Approved:        aggregate.IsApproved(),
		Active:          aggregate.IsActive(),
		WorkingFromHour: aggregate.WorkingFromHour(),
		WorkingToHour:   aggregate.WorkingToHour(),
	}
}

// toDomain converts a database DTO to a vendor aggregate.
func toDomain(dto VendorDTO) (*vendor.Vendor, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return vendor.RestoreVendor(
		id,
		dto.Name,
		dto.City,
		dto.State,
		dto.Approved,
		dto.Active,
		dto.WorkingFromHour,
		dto.WorkingToHour,
	)
}

// scoreFromDomain converts a score to its database representation.
func scoreFromDomain(score *vendor.Score) ScoreDTO {
	return ScoreDTO{
		VendorID:         score.VendorID().Bytes(),
		Availability:     score.Availability(),
		Proximity:        score.Proximity(),
		Workload:         score.Workload(),
		Price:            score.Price(),
		Reliability:      score.Reliability(),
		Overall:          score.Overall(),
		Assigned:         score.Assigned(),
		Accepted:         score.Accepted(),
		Rejected:         score.Rejected(),
		Delivered:        score.Delivered(),
		Cancelled:        score.Cancelled(),
		LastCalculatedAt: score.LastCalculatedAt(),
	}
}

// scoreToDomain converts a database DTO to a score.
func scoreToDomain(dto ScoreDTO) (*vendor.Score, error) {
	vendorID, err := kernel.UUIDFromBytes(dto.VendorID[:])
	if err != nil {
		return nil, err
	}

	return vendor.RestoreScore(
		vendorID,
		dto.Availability,
		dto.Proximity,
		dto.Workload,
		dto.Price,
		dto.Reliability,
		dto.Overall,
		dto.Assigned,
		dto.Accepted,
		dto.Rejected,
		dto.Delivered,
		dto.Cancelled,
		dto.LastCalculatedAt,
	)
}
