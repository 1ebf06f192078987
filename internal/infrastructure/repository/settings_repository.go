package repository

import (
	"context"
	"errors"

	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	domainRepo "github.com/sangkips/posdelivery-api/internal/domain/repository"
	"gorm.io/gorm"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new business settings repository
func NewSettingsRepository(db *gorm.DB) domainRepo.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get retrieves the singleton settings row
func (r *settingsRepository) Get(ctx context.Context) (*entity.BusinessSettings, error) {
	var settings entity.BusinessSettings
	err := GetDB(ctx, r.db).First(&settings, "id = ?", entity.BusinessSettingsID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Save inserts or updates the singleton settings row
func (r *settingsRepository) Save(ctx context.Context, settings *entity.BusinessSettings) error {
	settings.ID = entity.BusinessSettingsID
	return GetDB(ctx, r.db).Save(settings).Error
}
