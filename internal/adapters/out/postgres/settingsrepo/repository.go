// Package settingsrepo persists runtime-togglable operational flags in a
// single settings row.
package settingsrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// settingsRowID is the fixed primary key of the single settings row.
const settingsRowID = 1

// SettingsDTO represents the database structure for runtime settings.
type SettingsDTO struct {
	ID        int `gorm:"primaryKey"`
	SafeMode  bool
	UpdatedAt time.Time
}

// TableName specifies the database table name for runtime settings.
func (SettingsDTO) TableName() string {
	return "settings"
}

// GormSettingsRepository implements SettingsRepository using GORM.
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GORM settings repository.
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// IsSafeMode reports whether order intake is suspended. A missing
// settings row means safe mode is off.
func (r *GormSettingsRepository) IsSafeMode(ctx context.Context) (bool, error) {
	var dto SettingsDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", settingsRowID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return dto.SafeMode, nil
}

// SetSafeMode toggles intake suspension, creating the settings row on
// first use.
func (r *GormSettingsRepository) SetSafeMode(ctx context.Context, enabled bool) error {
	dto := SettingsDTO{
		ID:        settingsRowID,
		SafeMode:  enabled,
		UpdatedAt: time.Now().UTC(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"safe_mode", "updated_at"}),
		}).
		Create(&dto).Error
}
