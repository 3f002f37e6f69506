package queries

import (
	"context"
	"database/sql"
	"time"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetInterventionLogQueryHandler reads an order's healing actions from the
// database, oldest first.
type GetInterventionLogQueryHandler struct {
	db *gorm.DB
}

// NewGetInterventionLogQueryHandler creates a handler for intervention
// audit queries.
func NewGetInterventionLogQueryHandler(db *gorm.DB) GetInterventionLogQueryHandler {
	return GetInterventionLogQueryHandler{db: db}
}

// Handle executes the query.
func (h GetInterventionLogQueryHandler) Handle(
	ctx context.Context,
	query GetInterventionLogQuery,
) ([]GetInterventionLogQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	actions := make([]GetInterventionLogQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			issue_type,
			recovery_kind,
			attempt_number,
			status,
			detail,
			admin_notified,
			started_at,
			finished_at
		FROM healing_actions
		WHERE order_id = ?
		ORDER BY started_at, id
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetInterventionLogQueryResponse
		var id uuid.UUID
		var detail sql.NullString
		var startedAt time.Time
		var finishedAt sql.NullTime

		err = rows.Scan(
			&id,
			&resp.IssueType,
			&resp.RecoveryKind,
			&resp.AttemptNumber,
			&resp.Status,
			&detail,
			&resp.AdminNotified,
			&startedAt,
			&finishedAt,
		)
		if err != nil {
			return nil, err
		}

		actionID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = actionID
		resp.Detail = detail.String
		resp.StartedAt = startedAt
		if finishedAt.Valid {
			finished := finishedAt.Time
			resp.FinishedAt = &finished
		}

		actions = append(actions, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return actions, nil
}
