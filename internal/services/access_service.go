// internal/services/access_service.go
package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/boatchecker/boatchecker-backend/internal/models"
)

type AccessService struct {
	db *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{db: db}
}

// ResolveAccessLevel maps subscription state plus a per-inspection unlock
// flag to the access tier. A pro subscription overrides everything; a
// single-purchase unlock covers only its own inspection. Pure and stateless,
// re-evaluated on every read.
func ResolveAccessLevel(subscriptionIsPro bool, inspection *models.Inspection) models.AccessLevel {
	if subscriptionIsPro {
		return models.AccessLevelPro
	}
	if inspection != nil && inspection.UnlockLevel == models.UnlockLevelSinglePurchase {
		return models.AccessLevelSinglePurchase
	}
	return models.AccessLevelFree
}

// IsItemLocked reports whether a checkpoint is gated behind an elevated
// tier. The rank-1 checkpoint of each area stays visible to free users.
func IsItemLocked(level models.AccessLevel, itemCriticality int) bool {
	return level == models.AccessLevelFree && itemCriticality > 1
}

// CanDownloadReport: pro and single-purchase unlock the report.
func CanDownloadReport(level models.AccessLevel) bool {
	return level == models.AccessLevelPro || level == models.AccessLevelSinglePurchase
}

// CanSendToWorkshops: vendor outreach stays pro-only; a single purchase
// unlocks report contents but not the outreach workflow.
func CanSendToWorkshops(level models.AccessLevel) bool {
	return level == models.AccessLevelPro
}

// ActivateSinglePurchase flips one inspection's unlock flag. Idempotent, and
// a no-op for pro subscribers (who should never reach this flow). The flag
// never reverts.
func (s *AccessService) ActivateSinglePurchase(inspectionID uint) (*models.Inspection, error) {
	var settings models.Settings
	if err := s.db.Where("key = ?", models.SettingsKey).First(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	var inspection models.Inspection
	if err := s.db.First(&inspection, inspectionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("inspection not found")
		}
		return nil, fmt.Errorf("failed to load inspection: %w", err)
	}

	if settings.IsPro() {
		logrus.WithField("inspection_id", inspectionID).Warn("Single-purchase activation requested for pro subscriber, ignoring")
		return &inspection, nil
	}

	if inspection.UnlockLevel == models.UnlockLevelSinglePurchase {
		return &inspection, nil
	}

	inspection.UnlockLevel = models.UnlockLevelSinglePurchase
	if err := s.db.Model(&inspection).Update("unlock_level", models.UnlockLevelSinglePurchase).Error; err != nil {
		return nil, fmt.Errorf("failed to activate single purchase: %w", err)
	}

	logrus.WithField("inspection_id", inspectionID).Info("Single purchase activated")
	return &inspection, nil
}

// AccessLevelFor resolves the current tier for an inspection against the
// cached subscription state.
func (s *AccessService) AccessLevelFor(inspection *models.Inspection) (models.AccessLevel, error) {
	var settings models.Settings
	if err := s.db.Where("key = ?", models.SettingsKey).First(&settings).Error; err != nil {
		return models.AccessLevelFree, fmt.Errorf("failed to load settings: %w", err)
	}
	return ResolveAccessLevel(settings.IsPro(), inspection), nil
}
