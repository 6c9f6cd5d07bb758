// internal/services/entitlement_service.go
package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/boatchecker/boatchecker-backend/internal/models"
)

// EntitlementService caches the purchase provider's verdict into local
// settings so every access check reads a local boolean instead of calling
// out. The provider itself lives in the client app; this service only
// receives its result.
type EntitlementService struct {
	db *gorm.DB
}

func NewEntitlementService(db *gorm.DB) *EntitlementService {
	return &EntitlementService{db: db}
}

type Offering struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Tier        string `json:"tier"`
}

// Offerings lists the purchasable products. Static; prices are owned by the
// store frontends, not by us.
func (s *EntitlementService) Offerings() []Offering {
	return []Offering{
		{
			ID:          "pro_monthly",
			Title:       "Pro",
			Description: "Full checklist access, reports and workshop outreach",
			Tier:        string(models.TierPro),
		},
		{
			ID:          "single_inspection",
			Title:       "Single inspection",
			Description: "Unlock one inspection's full checklist and report",
			Tier:        string(models.UnlockLevelSinglePurchase),
		},
	}
}

// SetProStatus persists the provider's current entitlement verdict. Called
// on every app start and after purchase or restore, so the cached tier
// tracks the store within one launch.
func (s *EntitlementService) SetProStatus(isPro bool) (*models.Settings, error) {
	tier := models.TierFree
	if isPro {
		tier = models.TierPro
	}

	if err := s.db.Model(&models.Settings{}).Where("key = ?", models.SettingsKey).
		Update("subscription_tier", tier).Error; err != nil {
		return nil, fmt.Errorf("failed to update subscription tier: %w", err)
	}

	var settings models.Settings
	if err := s.db.Where("key = ?", models.SettingsKey).First(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	logrus.WithField("tier", tier).Info("Entitlement updated")
	return &settings, nil
}
