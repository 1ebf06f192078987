package repository

import (
	"context"

	"github.com/sangkips/posdelivery-api/internal/domain/entity"
)

// SettingsRepository stores the single business settings row
type SettingsRepository interface {
	// Get returns nil, nil when the row has not been created yet
	Get(ctx context.Context) (*entity.BusinessSettings, error)
	Save(ctx context.Context, settings *entity.BusinessSettings) error
}
