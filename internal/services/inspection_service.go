// internal/services/inspection_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/boatchecker/boatchecker-backend/internal/database"
	"github.com/boatchecker/boatchecker-backend/internal/models"
)

var ErrInspectionNotFound = errors.New("inspection not found")

type InspectionService struct {
	db *gorm.DB
}

func NewInspectionService(db *gorm.DB) *InspectionService {
	return &InspectionService{db: db}
}

type CreateInspectionRequest struct {
	BoatModelID *uint                     `json:"boat_model_id,omitempty"`
	CustomBoat  *models.CustomBoatDetails `json:"custom_boat,omitempty"`
}

// CreateFromSettings starts a new inspection session from the current picker
// selections. The boat profile is snapshotted onto the inspection so later
// picker or catalog edits do not change an in-progress item set.
func (s *InspectionService) CreateFromSettings(req *CreateInspectionRequest) (*models.Inspection, error) {
	var settings models.Settings
	if err := s.db.Where("key = ?", models.SettingsKey).First(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	inspection := &models.Inspection{
		Status: models.InspectionStatusInProgress,
		Settings: models.InspectionSettings{
			CountryCode:   settings.CountryCode,
			TypePrimary:   settings.TypePrimary,
			TypeSecondary: settings.TypeSecondary,
			EngineType:    settings.EngineType,
		},
		Items: models.ItemSnapshot{},
	}

	boatModelID := req.BoatModelID
	if boatModelID == nil {
		boatModelID = settings.BoatModelID
	}

	switch {
	case req.CustomBoat != nil:
		inspection.CustomBoat = &models.CustomBoatJSON{CustomBoatDetails: *req.CustomBoat}
		inspection.BoatName = req.CustomBoat.Model
		inspection.BoatManufacturer = req.CustomBoat.Manufacturer
	case boatModelID != nil:
		inspection.BoatModelID = boatModelID
		var model models.BoatModel
		if err := s.db.First(&model, *boatModelID).Error; err == nil {
			inspection.BoatName = model.Name
			inspection.BoatManufacturer = model.Manufacturer
		} else if err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("failed to load boat model: %w", err)
		}
	}

	if inspection.BoatName == "" {
		inspection.BoatName = "Ukjent båt"
	}
	if inspection.BoatManufacturer == "" {
		inspection.BoatManufacturer = "Ukjent produsent"
	}
	inspection.Name = fmt.Sprintf("%s %s", inspection.BoatManufacturer, inspection.BoatName)

	if err := s.db.Create(inspection).Error; err != nil {
		return nil, fmt.Errorf("failed to create inspection: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"inspection_id": inspection.ID,
		"name":          inspection.Name,
	}).Info("Inspection created")
	return inspection, nil
}

func (s *InspectionService) GetInspection(id uint) (*models.Inspection, error) {
	var inspection models.Inspection
	if err := s.db.First(&inspection, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInspectionNotFound
		}
		return nil, fmt.Errorf("failed to load inspection: %w", err)
	}
	return &inspection, nil
}

func (s *InspectionService) ListInspections() ([]models.Inspection, error) {
	var inspections []models.Inspection
	if err := s.db.Order("created_at DESC").Find(&inspections).Error; err != nil {
		return nil, fmt.Errorf("failed to list inspections: %w", err)
	}
	return inspections, nil
}

func (s *InspectionService) DeleteInspection(id uint) error {
	result := s.db.Delete(&models.Inspection{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete inspection: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInspectionNotFound
	}
	return nil
}

// ActiveInspection returns the most recent in-progress inspection, or nil
// when none exists.
func (s *InspectionService) ActiveInspection() (*models.Inspection, error) {
	var inspection models.Inspection
	err := s.db.Where("status = ?", models.InspectionStatusInProgress).
		Order("id DESC").First(&inspection).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load active inspection: %w", err)
	}
	return &inspection, nil
}

// isActiveInspection reports whether the inspection owns the live item-state
// table. Only the newest in-progress inspection does; older in-progress
// sessions left behind by start-new keep their embedded snapshot and never
// see the current session's edits.
func isActiveInspection(db *gorm.DB, inspection *models.Inspection) (bool, error) {
	if inspection.Status != models.InspectionStatusInProgress {
		return false, nil
	}
	var newer int64
	err := db.Model(&models.Inspection{}).
		Where("status = ? AND id > ?", models.InspectionStatusInProgress, inspection.ID).
		Count(&newer).Error
	if err != nil {
		return false, fmt.Errorf("failed to resolve active inspection: %w", err)
	}
	return newer == 0, nil
}

// Complete merges the live item-state table into the inspection's embedded
// snapshot, stamps completion and flips the status. completedAt is set iff
// the status is completed. The live table is merged only when this is the
// active session; an abandoned in-progress inspection completes from its
// snapshot alone.
func (s *InspectionService) Complete(id uint) (*models.Inspection, error) {
	inspection, err := s.GetInspection(id)
	if err != nil {
		return nil, err
	}

	if inspection.Status == models.InspectionStatusCompleted {
		return inspection, nil
	}

	active, err := isActiveInspection(s.db, inspection)
	if err != nil {
		return nil, err
	}
	var live []models.ItemState
	if active {
		if err := s.db.Find(&live).Error; err != nil {
			return nil, fmt.Errorf("failed to load item states: %w", err)
		}
	}

	now := time.Now()
	inspection.Items = MergeItemStates(inspection.Items, live)
	inspection.Status = models.InspectionStatusCompleted
	inspection.CompletedAt = &now

	if err := s.db.Save(inspection).Error; err != nil {
		return nil, fmt.Errorf("failed to complete inspection: %w", err)
	}

	logrus.WithField("inspection_id", id).Info("Inspection completed")
	return inspection, nil
}

// UpdateMetadata replaces the optional inspection details.
func (s *InspectionService) UpdateMetadata(id uint, metadata models.InspectionMetadata) (*models.Inspection, error) {
	inspection, err := s.GetInspection(id)
	if err != nil {
		return nil, err
	}

	inspection.Metadata = metadata
	if err := s.db.Model(inspection).Update("metadata", metadata).Error; err != nil {
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}
	return inspection, nil
}

// StartNew clears the live item-state table and resets the in-progress
// picker selections in one transaction, preserving language, tier, report
// counter and the contribution opt-in. A crash mid-way leaves both tables
// untouched.
func (s *InspectionService) StartNew() error {
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ItemState{}).Error; err != nil {
			return fmt.Errorf("failed to clear item states: %w", err)
		}

		updates := map[string]interface{}{
			"country_code":   "",
			"type_primary":   nil,
			"type_secondary": nil,
			"engine_type":    nil,
			"boat_model_id":  nil,
			"custom_boat":    nil,
		}
		if err := tx.Model(&models.Settings{}).Where("key = ?", models.SettingsKey).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to reset picker selections: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.Info("New inspection session started")
	return nil
}
