// internal/services/boat_model_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/boatchecker/boatchecker-backend/internal/models"
)

var ErrBoatModelNotFound = errors.New("boat model not found")

// BoatModelService reads the seeded boat catalog. The catalog is replaced
// wholesale by the seeder; this service never writes.
type BoatModelService struct {
	db *gorm.DB
}

func NewBoatModelService(db *gorm.DB) *BoatModelService {
	return &BoatModelService{db: db}
}

type BoatModelSearchParams struct {
	Search       string
	Manufacturer string
	TypePrimary  *models.PrimaryBoatType
	Limit        int
}

// SearchBoatModels filters the catalog for the boat picker. The search term
// matches name and manufacturer, case-insensitively.
func (s *BoatModelService) SearchBoatModels(params BoatModelSearchParams) ([]models.BoatModel, error) {
	query := s.db.Model(&models.BoatModel{})

	if params.Search != "" {
		term := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(manufacturer) LIKE ?", term, term)
	}
	if params.Manufacturer != "" {
		query = query.Where("LOWER(manufacturer) = ?", strings.ToLower(params.Manufacturer))
	}
	if params.TypePrimary != nil {
		query = query.Where("type_primary = ?", *params.TypePrimary)
	}

	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var boatModels []models.BoatModel
	if err := query.Order("manufacturer, name").Limit(limit).Find(&boatModels).Error; err != nil {
		return nil, fmt.Errorf("failed to search boat models: %w", err)
	}
	return boatModels, nil
}

func (s *BoatModelService) GetBoatModel(id uint) (*models.BoatModel, error) {
	var model models.BoatModel
	if err := s.db.First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrBoatModelNotFound
		}
		return nil, fmt.Errorf("failed to load boat model: %w", err)
	}
	return &model, nil
}

// Manufacturers lists distinct manufacturers for the picker's first step.
func (s *BoatModelService) Manufacturers() ([]string, error) {
	var manufacturers []string
	if err := s.db.Model(&models.BoatModel{}).
		Distinct("manufacturer").Order("manufacturer").
		Pluck("manufacturer", &manufacturers).Error; err != nil {
		return nil, fmt.Errorf("failed to list manufacturers: %w", err)
	}
	return manufacturers, nil
}
