// Package orderrepo provides data transfer objects and mapping functions
// for order persistence. This package implements the repository pattern
// for the order aggregate, handling the conversion between domain
// entities and database representations. The order row, its item rows,
// and its status-log rows are persisted together.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order
// aggregates. Indexed by status and vendor for the stall scanner and the
// workload counter.
type OrderDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RetailerID uuid.UUID  `gorm:"type:uuid;index"`
	VendorID   *uuid.UUID `gorm:"type:uuid;index"`
	Status     int        `gorm:"index"`
	Total      int64
	PaidAmount int64
	DueAmount  int64
	CreditUsed int64
	CreatedAt  time.Time
	UpdatedAt  time.Time `gorm:"index"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one order line. Lines are immutable once the order
// is created.
type ItemDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity  int
	UnitPrice int64
}

// TableName specifies the database table name for order lines.
func (ItemDTO) TableName() string {
	return "order_items"
}

// StatusLogDTO represents one row of the append-only transition audit
// trail. A row is inserted for every status change, in the same
// transaction as the order row update.
type StatusLogDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;index"`
	FromStatus int
	ToStatus   int
	Actor      string
	OccurredAt time.Time
}

// TableName specifies the database table name for the status log.
func (StatusLogDTO) TableName() string {
	return "order_status_log"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var vendorID *uuid.UUID
	if id := aggregate.VendorID(); id != nil {
		raw := id.Bytes()
		vendorID = &raw
	}

	return OrderDTO{
		ID:         aggregate.ID().Bytes(),
		RetailerID: aggregate.RetailerID().Bytes(),
		VendorID:   vendorID,
		Status:     int(aggregate.Status()),
		Total:      aggregate.Total().Cents(),
		PaidAmount: aggregate.PaidAmount().Cents(),
		DueAmount:  aggregate.DueAmount().Cents(),
		CreditUsed: aggregate.CreditUsed().Cents(),
		CreatedAt:  aggregate.CreatedAt(),
		UpdatedAt:  aggregate.UpdatedAt(),
	}
}

// itemsFromDomain converts the aggregate's order lines to row form.
func itemsFromDomain(aggregate *order.Order) []ItemDTO {
	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			OrderID:   aggregate.ID().Bytes(),
			ProductID: item.ProductID().Bytes(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Cents(),
		})
	}
	return items
}

// changesFromDomain converts the aggregate's uncommitted status changes to
// audit rows.
func changesFromDomain(aggregate *order.Order) []StatusLogDTO {
	changes := make([]StatusLogDTO, 0, len(aggregate.UncommittedChanges()))
	for _, change := range aggregate.UncommittedChanges() {
		changes = append(changes, StatusLogDTO{
			ID:         kernel.NewUUID().Bytes(),
			OrderID:    aggregate.ID().Bytes(),
			FromStatus: int(change.From()),
			ToStatus:   int(change.To()),
			Actor:      change.Actor(),
			OccurredAt: change.OccurredAt(),
		})
	}
	return changes
}

// toDomain converts database rows back to an order aggregate using
// RestoreOrder, which re-validates the stored invariants.
func toDomain(dto OrderDTO, itemDTOs []ItemDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	retailerID, err := kernel.UUIDFromBytes(dto.RetailerID[:])
	if err != nil {
		return nil, err
	}

	var vendorID *kernel.UUID
	if dto.VendorID != nil {
		vID, vendorErr := kernel.UUIDFromBytes((*dto.VendorID)[:])
		if vendorErr != nil {
			return nil, vendorErr
		}
		vendorID = &vID
	}

	items := make([]order.Item, 0, len(itemDTOs))
	for _, itemDTO := range itemDTOs {
		productID, itemErr := kernel.UUIDFromBytes(itemDTO.ProductID[:])
		if itemErr != nil {
			return nil, itemErr
		}
		item, itemErr := order.NewItem(productID, itemDTO.Quantity, kernel.NewMoney(itemDTO.UnitPrice))
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id,
		retailerID,
		vendorID,
		items,
		kernel.NewMoney(dto.PaidAmount),
		kernel.NewMoney(dto.CreditUsed),
		order.Status(dto.Status),
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
