// Package healingrepo provides data transfer objects and mapping
// functions for watchdog action persistence. A partial unique index on
// (order_id) WHERE status = 'IN_PROGRESS' backs the claim semantics: only
// one worker can hold an open action per order.
package healingrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/healing"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ActionDTO represents the database structure for persisting healing
// actions.
type ActionDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;index"`
	IssueType     string
	RecoveryKind  string
	AttemptNumber int
	Status        string
	Detail        string
	AdminNotified bool
	StartedAt     time.Time
	FinishedAt    *time.Time
}

// TableName specifies the database table name for healing actions.
func (ActionDTO) TableName() string {
	return "healing_actions"
}

// fromDomain converts a healing action to its database representation.
func fromDomain(action *healing.Action) ActionDTO {
	return ActionDTO{
		ID:            action.ID().Bytes(),
		OrderID:       action.OrderID().Bytes(),
		IssueType:     string(action.IssueType()),
		RecoveryKind:  string(action.Recovery()),
		AttemptNumber: action.AttemptNumber(),
		Status:        string(action.Status()),
		Detail:        action.Detail(),
		AdminNotified: action.IsAdminNotified(),
		StartedAt:     action.DetectedAt(),
		FinishedAt:    action.CompletedAt(),
	}
}

// toDomain converts a database DTO to a healing action.
func toDomain(dto ActionDTO) (*healing.Action, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	return healing.RestoreAction(
		id,
		orderID,
		healing.IssueType(dto.IssueType),
		healing.RecoveryKind(dto.RecoveryKind),
		healing.ActionStatus(dto.Status),
		dto.AttemptNumber,
		dto.Detail,
		dto.AdminNotified,
		dto.StartedAt,
		dto.FinishedAt,
	)
}
