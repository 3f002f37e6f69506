package healingrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/healing"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// uniqueViolation is the Postgres error code for unique constraint
// violations, raised by the partial index when a second worker tries to
// claim an order that already has an IN_PROGRESS action.
const uniqueViolation = "23505"

// GormHealingRepository implements HealingRepository using GORM.
type GormHealingRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormHealingRepository creates a new GORM healing repository.
func NewGormHealingRepository(db *gorm.DB, tracker aggregateTracker) *GormHealingRepository {
	return &GormHealingRepository{
		db:      db,
		tracker: tracker,
	}
}

// TryClaim inserts an IN_PROGRESS action for an order. Returns false
// without error when another worker already holds the claim.
func (r *GormHealingRepository) TryClaim(ctx context.Context, action *healing.Action) (bool, error) {
	if err := action.Validate(); err != nil {
		return false, err
	}

	dto := fromDomain(action)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}

	r.tracker.TrackAggregate(action.ID(), action)
	return true, nil
}

// Update persists the resolution of a claimed action. Select("*") forces
// zero-valued columns through.
func (r *GormHealingRepository) Update(ctx context.Context, action *healing.Action) error {
	if err := action.Validate(); err != nil {
		return err
	}

	dto := fromDomain(action)
	result := r.db.WithContext(ctx).
		Model(&ActionDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(action.ID(), action)
	return nil
}

// Get retrieves an action by ID.
func (r *GormHealingRepository) Get(ctx context.Context, id kernel.UUID) (*healing.Action, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ActionDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("healingAction", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// CountByOrder counts all recorded actions for an order.
func (r *GormHealingRepository) CountByOrder(ctx context.Context, orderID kernel.UUID) (int, error) {
	if err := orderID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&ActionDTO{}).
		Where("order_id = ?", orderID.Bytes()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// GetByOrder retrieves an order's actions newest-first.
func (r *GormHealingRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*healing.Action, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ActionDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("started_at DESC, id DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	actions := make([]*healing.Action, 0, len(dtos))
	for _, dto := range dtos {
		action, toErr := toDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		actions = append(actions, action)
	}

	return actions, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
