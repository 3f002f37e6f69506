// Package retailerrepo provides data transfer objects and mapping
// functions for retailer persistence.
package retailerrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/retailer"

	"github.com/google/uuid"
)

// RetailerDTO represents the database structure for persisting retailer
// aggregates. Monetary amounts are integer cents.
type RetailerDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string
	City            string
	State           string
	CreditLimit     int64
	OutstandingDebt int64
	Tier            string
	LedgerFrozen    bool
}

// TableName specifies the database table name for retailer entities.
func (RetailerDTO) TableName() string {
	return "retailers"
}

// fromDomain converts a retailer aggregate to its database representation.
func fromDomain(aggregate *retailer.Retailer) RetailerDTO {
	return RetailerDTO{
		ID:              aggregate.ID().Bytes(),
		Name:            aggregate.Name(),
		City:            aggregate.City(),
		State:           aggregate.State(),
		CreditLimit:     aggregate.CreditLimit().Cents(),
		OutstandingDebt: aggregate.OutstandingDebt().Cents(),
		Tier:            string(aggregate.Tier()),
		LedgerFrozen:    aggregate.IsLedgerFrozen(),
	}
}

// toDomain converts a database DTO to a retailer aggregate.
func toDomain(dto RetailerDTO) (*retailer.Retailer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return retailer.RestoreRetailer(
		id,
		dto.Name,
		dto.City,
		dto.State,
		kernel.NewMoney(dto.CreditLimit),
		kernel.NewMoney(dto.OutstandingDebt),
		retailer.Tier(dto.Tier),
		dto.LedgerFrozen,
	)
}
