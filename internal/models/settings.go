// internal/models/settings.go
package models

import "github.com/google/uuid"

// SettingsKey is the fixed primary key of the settings singleton.
const SettingsKey = "settings"

// Settings is the key-addressed singleton holding user preferences, the
// cached subscription tier, the lifetime report counter and the in-progress
// picker selections. It is created on first run and only ever overwritten,
// never deleted.
type Settings struct {
	Key              string           `json:"key" gorm:"primaryKey;size:32"`
	Language         string           `json:"language" gorm:"size:8;default:'nb'"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier" gorm:"size:16;default:'free'"`
	ReportsGenerated int              `json:"reports_generated" gorm:"default:0"`
	ContributeData   bool             `json:"contribute_data" gorm:"default:true"`

	// InstallID anonymously identifies this install in contributed data.
	// Generated once, never tied to anything user-identifying.
	InstallID string `json:"install_id" gorm:"size:64"`

	// In-progress picker selections, reset when a new inspection starts.
	CountryCode   string             `json:"country_code,omitempty" gorm:"size:8"`
	TypePrimary   *PrimaryBoatType   `json:"type_primary,omitempty" gorm:"size:16"`
	TypeSecondary *SecondaryBoatType `json:"type_secondary,omitempty" gorm:"size:16"`
	EngineType    *EngineType        `json:"engine_type,omitempty" gorm:"size:16"`
	BoatModelID   *uint              `json:"boat_model_id,omitempty"`
	CustomBoat    JSONMap            `json:"custom_boat,omitempty" gorm:"type:text"`
}

// DefaultSettings returns the singleton row for a first run.
func DefaultSettings() *Settings {
	return &Settings{
		Key:              SettingsKey,
		Language:         "nb",
		SubscriptionTier: TierFree,
		ReportsGenerated: 0,
		ContributeData:   true,
		InstallID:        uuid.New().String(),
	}
}

func (s *Settings) IsPro() bool {
	return s.SubscriptionTier == TierPro
}
