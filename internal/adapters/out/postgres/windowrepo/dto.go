// Package windowrepo provides data transfer objects and mapping functions
// for acceptance-window persistence. Closing a window goes through
// conditional claim updates so a vendor response and a timeout scanner
// racing for the same window cannot both win.
package windowrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/assignment"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// WindowDTO represents the database structure for persisting acceptance
// windows.
type WindowDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;index"`
	VendorID      uuid.UUID `gorm:"type:uuid;index"`
	AttemptNumber int
	AssignedAt    time.Time
	Deadline      time.Time `gorm:"index"`
	Status        string    `gorm:"index"`
	RespondedAt   *time.Time
	Accepted      bool
	NextVendorID  *uuid.UUID `gorm:"type:uuid"`
}

// TableName specifies the database table name for acceptance windows.
func (WindowDTO) TableName() string {
	return "assignment_windows"
}

// fromDomain converts a window to its database representation.
func fromDomain(window *assignment.Window) WindowDTO {
	var nextVendorID *uuid.UUID
	if id := window.NextVendorID(); id != nil {
		raw := id.Bytes()
		nextVendorID = &raw
	}

	return WindowDTO{
		ID:            window.ID().Bytes(),
		OrderID:       window.OrderID().Bytes(),
		VendorID:      window.VendorID().Bytes(),
		AttemptNumber: window.AttemptNumber(),
		AssignedAt:    window.AssignedAt(),
		Deadline:      window.Deadline(),
		Status:        string(window.Status()),
		RespondedAt:   window.RespondedAt(),
		Accepted:      window.IsAccepted(),
		NextVendorID:  nextVendorID,
	}
}

// toDomain converts a database DTO to a window.
func toDomain(dto WindowDTO) (*assignment.Window, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	vendorID, err := kernel.UUIDFromBytes(dto.VendorID[:])
	if err != nil {
		return nil, err
	}

	var nextVendorID *kernel.UUID
	if dto.NextVendorID != nil {
		nID, nextErr := kernel.UUIDFromBytes((*dto.NextVendorID)[:])
		if nextErr != nil {
			return nil, nextErr
		}
		nextVendorID = &nID
	}

	return assignment.RestoreWindow(
		id,
		orderID,
		vendorID,
		dto.AttemptNumber,
		dto.AssignedAt,
		dto.Deadline,
		assignment.WindowStatus(dto.Status),
		dto.RespondedAt,
		dto.Accepted,
		nextVendorID,
	)
}
