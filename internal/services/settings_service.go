// internal/services/settings_service.go
package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/boatchecker/boatchecker-backend/internal/models"
)

type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// GetSettings returns the singleton, creating it with defaults if a first
// run skipped the migration seed.
func (s *SettingsService) GetSettings() (*models.Settings, error) {
	var settings models.Settings
	err := s.db.Where("key = ?", models.SettingsKey).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		settings = *models.DefaultSettings()
		if err := s.db.Create(&settings).Error; err != nil {
			return nil, fmt.Errorf("failed to create default settings: %w", err)
		}
		return &settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &settings, nil
}

type UpdateSettingsRequest struct {
	Language       *string                   `json:"language,omitempty" validate:"omitempty,oneof=nb en"`
	ContributeData *bool                     `json:"contribute_data,omitempty"`
	CountryCode    *string                   `json:"country_code,omitempty" validate:"omitempty,country_code"`
	TypePrimary    *models.PrimaryBoatType   `json:"type_primary,omitempty" validate:"omitempty,oneof=Sailboat Motorboat"`
	TypeSecondary  *models.SecondaryBoatType `json:"type_secondary,omitempty" validate:"omitempty,oneof=Monohull Multihull"`
	EngineType     *models.EngineType        `json:"engine_type,omitempty" validate:"omitempty,oneof=inboard outboard both"`
	BoatModelID    *uint                     `json:"boat_model_id,omitempty"`
	CustomBoat     models.JSONMap            `json:"custom_boat,omitempty"`
}

// UpdateSettings applies a partial update; absent fields keep their value.
// The singleton is only ever overwritten, never deleted.
func (s *SettingsService) UpdateSettings(req *UpdateSettingsRequest) (*models.Settings, error) {
	settings, err := s.GetSettings()
	if err != nil {
		return nil, err
	}

	if req.Language != nil {
		settings.Language = *req.Language
	}
	if req.ContributeData != nil {
		settings.ContributeData = *req.ContributeData
	}
	if req.CountryCode != nil {
		settings.CountryCode = *req.CountryCode
	}
	if req.TypePrimary != nil {
		settings.TypePrimary = req.TypePrimary
	}
	if req.TypeSecondary != nil {
		settings.TypeSecondary = req.TypeSecondary
	}
	if req.EngineType != nil {
		settings.EngineType = req.EngineType
	}
	if req.BoatModelID != nil {
		settings.BoatModelID = req.BoatModelID
		settings.CustomBoat = nil
	}
	if req.CustomBoat != nil {
		settings.CustomBoat = req.CustomBoat
		settings.BoatModelID = nil
	}

	if err := s.db.Save(settings).Error; err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return settings, nil
}
