package vendorrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientStock is returned when a reservation cannot be covered by
// the vendor's stock. The surrounding transaction rolls back, so a failed
// reservation leaves no partial decrement.
var ErrInsufficientStock = errors.New("insufficient vendor stock")

// GormVendorRepository implements VendorRepository using GORM.
type GormVendorRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormVendorRepository creates a new GORM vendor repository.
func NewGormVendorRepository(db *gorm.DB, tracker aggregateTracker) *GormVendorRepository {
	return &GormVendorRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new vendor with a neutral initial score row.
func (r *GormVendorRepository) Add(ctx context.Context, aggregate *vendor.Vendor) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	score, err := vendor.NewScore(aggregate.ID(), time.Now().UTC())
	if err != nil {
		return err
	}
	scoreDTO := scoreFromDomain(score)
	if err = r.db.WithContext(ctx).Create(&scoreDTO).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing vendor. Select("*") forces zero-valued columns
// through, so deactivation persists.
func (r *GormVendorRepository) Update(ctx context.Context, aggregate *vendor.Vendor) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&VendorDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a vendor by ID.
func (r *GormVendorRepository) Get(ctx context.Context, id kernel.UUID) (*vendor.Vendor, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto VendorDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("vendor", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllRoutable retrieves all approved, active vendors.
func (r *GormVendorRepository) GetAllRoutable(ctx context.Context) ([]*vendor.Vendor, error) {
	var dtos []VendorDTO
	err := r.db.WithContext(ctx).
		Where("approved AND active").
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	vendors := make([]*vendor.Vendor, 0, len(dtos))
	for _, dto := range dtos {
		v, toErr := toDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		vendors = append(vendors, v)
	}

	return vendors, nil
}

// GetScore retrieves the vendor's score row.
func (r *GormVendorRepository) GetScore(ctx context.Context, vendorID kernel.UUID) (*vendor.Score, error) {
	if err := vendorID.Validate(); err != nil {
		return nil, err
	}

	var dto ScoreDTO
	if err := r.db.WithContext(ctx).First(&dto, "vendor_id = ?", vendorID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("vendorScore", vendorID.String())
		}
		return nil, err
	}

	return scoreToDomain(dto)
}

// UpdateScore persists a recalculated score row. Select("*") forces
// zero-valued counters and components through.
func (r *GormVendorRepository) UpdateScore(ctx context.Context, score *vendor.Score) error {
	if err := score.Validate(); err != nil {
		return err
	}

	dto := scoreFromDomain(score)
	result := r.db.WithContext(ctx).
		Model(&ScoreDTO{}).
		Where("vendor_id = ?", dto.VendorID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// GetScoresIdleSince retrieves score rows not recalculated since the
// cutoff, most idle first.
func (r *GormVendorRepository) GetScoresIdleSince(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) ([]*vendor.Score, error) {
	var dtos []ScoreDTO
	err := r.db.WithContext(ctx).
		Where("last_calculated_at < ?", cutoff).
		Order("last_calculated_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	scores := make([]*vendor.Score, 0, len(dtos))
	for _, dto := range dtos {
		score, toErr := scoreToDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		scores = append(scores, score)
	}

	return scores, nil
}

// Quote prices the items against the vendor's stock. The bool reports
// whether the vendor stocks every item in sufficient quantity; the total
// uses the vendor's own unit prices. Lines for the same product are summed
// before the sufficiency check.
func (r *GormVendorRepository) Quote(
	ctx context.Context,
	vendorID kernel.UUID,
	items []order.Item,
) (kernel.Money, bool, error) {
	if err := vendorID.Validate(); err != nil {
		return kernel.Zero(), false, err
	}

	stock, err := r.stockFor(ctx, vendorID, items, false)
	if err != nil {
		return kernel.Zero(), false, err
	}

	for productID, quantity := range neededQuantities(items) {
		row, ok := stock[productID]
		if !ok || row.Quantity < quantity {
			return kernel.Zero(), false, nil
		}
	}

	total := kernel.Zero()
	for _, item := range items {
		row := stock[item.ProductID().Bytes()]
		total = total.Add(kernel.NewMoney(row.UnitPrice * int64(item.Quantity())))
	}

	return total, true, nil
}

// ReserveStock decrements the vendor's stock for every item. The stock
// rows are locked first so two reservations against the same vendor
// cannot both pass the sufficiency check. Lines for the same product are
// summed first, so an order cannot pass the check line by line and drive
// stock negative.
func (r *GormVendorRepository) ReserveStock(
	ctx context.Context,
	vendorID kernel.UUID,
	items []order.Item,
) error {
	if err := vendorID.Validate(); err != nil {
		return err
	}

	stock, err := r.stockFor(ctx, vendorID, items, true)
	if err != nil {
		return err
	}

	needed := neededQuantities(items)
	for productID, quantity := range needed {
		row, ok := stock[productID]
		if !ok || row.Quantity < quantity {
			return fmt.Errorf("%w: vendor %s, product %s", ErrInsufficientStock,
				vendorID, productID)
		}
	}

	for productID, quantity := range needed {
		err = r.db.WithContext(ctx).
			Model(&StockDTO{}).
			Where("vendor_id = ? AND product_id = ?", vendorID.Bytes(), productID).
			Update("quantity", gorm.Expr("quantity - ?", quantity)).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// ReleaseStock returns previously reserved stock.
func (r *GormVendorRepository) ReleaseStock(
	ctx context.Context,
	vendorID kernel.UUID,
	items []order.Item,
) error {
	if err := vendorID.Validate(); err != nil {
		return err
	}

	for productID, quantity := range neededQuantities(items) {
		err := r.db.WithContext(ctx).
			Model(&StockDTO{}).
			Where("vendor_id = ? AND product_id = ?", vendorID.Bytes(), productID).
			Update("quantity", gorm.Expr("quantity + ?", quantity)).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// neededQuantities sums line quantities per product.
func neededQuantities(items []order.Item) map[uuid.UUID]int {
	needed := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		needed[item.ProductID().Bytes()] += item.Quantity()
	}
	return needed
}

// stockFor loads the vendor's stock rows for the given items, keyed by
// product, optionally holding row locks.
func (r *GormVendorRepository) stockFor(
	ctx context.Context,
	vendorID kernel.UUID,
	items []order.Item,
	lock bool,
) (map[uuid.UUID]StockDTO, error) {
	productIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID().Bytes())
	}

	db := r.db.WithContext(ctx)
	if lock {
		db = db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}

	var rows []StockDTO
	err := db.
		Where("vendor_id = ? AND product_id IN ?", vendorID.Bytes(), productIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	stock := make(map[uuid.UUID]StockDTO, len(rows))
	for _, row := range rows {
		stock[row.ProductID] = row
	}
	return stock, nil
}
