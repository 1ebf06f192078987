package service

import (
	"context"
	"strings"

	"github.com/sangkips/posdelivery-api/internal/domain/entity"
	"github.com/sangkips/posdelivery-api/internal/domain/repository"
	"github.com/sangkips/posdelivery-api/pkg/apperror"
)

// SettingsService handles the business settings printed on receipts
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
	}
}

// GetSettings retrieves the settings, creating defaults if none exist
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.BusinessSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if settings == nil {
		settings = entity.DefaultBusinessSettings()
		if err := s.settingsRepo.Save(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

// UpdateSettingsInput represents the input for updating settings.
// Nil fields are left unchanged; an empty string clears an optional field.
type UpdateSettingsInput struct {
	DisplayName   *string
	Address       *string
	ContactPhone  *string
	LogoURL       *string
	SignatureURL  *string
	ReceiptFooter *string
	Currency      *string
}

// UpdateSettings updates the business settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.BusinessSettings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" {
			return nil, apperror.NewFieldError("display_name", "display name cannot be empty")
		}
		settings.DisplayName = name
	}
	if input.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*input.Currency))
		if len(currency) != 3 {
			return nil, apperror.NewFieldError("currency", "currency must be a 3-letter ISO code")
		}
		settings.Currency = currency
	}
	if input.Address != nil {
		settings.Address = trimmed(input.Address)
	}
	if input.ContactPhone != nil {
		settings.ContactPhone = trimmed(input.ContactPhone)
	}
	if input.LogoURL != nil {
		settings.LogoURL = trimmed(input.LogoURL)
	}
	if input.SignatureURL != nil {
		settings.SignatureURL = trimmed(input.SignatureURL)
	}
	if input.ReceiptFooter != nil {
		settings.ReceiptFooter = trimmed(input.ReceiptFooter)
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}
