package windowrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/assignment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWindowRepository implements WindowRepository using GORM.
type GormWindowRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormWindowRepository creates a new GORM window repository.
func NewGormWindowRepository(db *gorm.DB, tracker aggregateTracker) *GormWindowRepository {
	return &GormWindowRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new acceptance window.
func (r *GormWindowRepository) Add(ctx context.Context, window *assignment.Window) error {
	if err := window.Validate(); err != nil {
		return err
	}

	dto := fromDomain(window)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(window.ID(), window)
	return nil
}

// Update saves an already-claimed window. Select("*") forces zero-valued
// columns through, so a rejection's accepted=false persists.
func (r *GormWindowRepository) Update(ctx context.Context, window *assignment.Window) error {
	if err := window.Validate(); err != nil {
		return err
	}

	dto := fromDomain(window)
	result := r.db.WithContext(ctx).
		Model(&WindowDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(window.ID(), window)
	return nil
}

// Get retrieves a window by ID.
func (r *GormWindowRepository) Get(ctx context.Context, id kernel.UUID) (*assignment.Window, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto WindowDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("window", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetPendingByOrder retrieves the order's single PENDING window.
func (r *GormWindowRepository) GetPendingByOrder(
	ctx context.Context,
	orderID kernel.UUID,
) (*assignment.Window, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto WindowDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID.Bytes(), string(assignment.StatusPending)).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("pendingWindow", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrder retrieves all of an order's windows oldest-first.
func (r *GormWindowRepository) GetByOrder(
	ctx context.Context,
	orderID kernel.UUID,
) ([]*assignment.Window, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []WindowDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("attempt_number").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetExpiredPending retrieves PENDING windows whose deadline passed before
// now, most overdue first. Candidates only; each must still be claimed.
func (r *GormWindowRepository) GetExpiredPending(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*assignment.Window, error) {
	var dtos []WindowDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND deadline < ?", string(assignment.StatusPending), now).
		Order("deadline").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// ClaimTimedOut atomically moves a window PENDING -> TIMED_OUT. The status
// predicate makes the update a compare-and-swap: a window already claimed
// by a response or another scanner matches zero rows.
func (r *GormWindowRepository) ClaimTimedOut(ctx context.Context, windowID kernel.UUID) (bool, error) {
	if err := windowID.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Model(&WindowDTO{}).
		Where("id = ? AND status = ?", windowID.Bytes(), string(assignment.StatusPending)).
		Update("status", string(assignment.StatusTimedOut))
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// ClaimResponded atomically moves a window PENDING -> RESPONDED with the
// vendor's decision.
func (r *GormWindowRepository) ClaimResponded(
	ctx context.Context,
	windowID kernel.UUID,
	accepted bool,
	respondedAt time.Time,
) (bool, error) {
	if err := windowID.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Model(&WindowDTO{}).
		Where("id = ? AND status = ?", windowID.Bytes(), string(assignment.StatusPending)).
		Updates(map[string]any{
			"status":       string(assignment.StatusResponded),
			"accepted":     accepted,
			"responded_at": respondedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func toDomainSlice(dtos []WindowDTO) ([]*assignment.Window, error) {
	windows := make([]*assignment.Window, 0, len(dtos))
	for _, dto := range dtos {
		window, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		windows = append(windows, window)
	}
	return windows, nil
}
