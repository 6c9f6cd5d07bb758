// internal/services/item_state_service.go
package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/boatchecker/boatchecker-backend/internal/models"
)

// ItemStateService owns the per-item records of the current session. A
// record exists only for items the user has touched; clearing the last piece
// of data on a record prunes it instead of keeping a tombstone.
type ItemStateService struct {
	db *gorm.DB
}

func NewItemStateService(db *gorm.DB) *ItemStateService {
	return &ItemStateService{db: db}
}

func (s *ItemStateService) Get(itemID string) (*models.ItemState, error) {
	var state models.ItemState
	err := s.db.Where("id = ?", itemID).First(&state).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load item state: %w", err)
	}
	return &state, nil
}

func (s *ItemStateService) List() ([]models.ItemState, error) {
	var states []models.ItemState
	if err := s.db.Find(&states).Error; err != nil {
		return nil, fmt.Errorf("failed to list item states: %w", err)
	}
	return states, nil
}

// SetState records a status choice. An empty state clears the choice:
// the record is pruned when nothing else is attached, otherwise it stays
// with its note/photo and renders as not assessed.
func (s *ItemStateService) SetState(itemID string, state models.ItemStateValue) (*models.ItemState, error) {
	existing, err := s.Get(itemID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if state == "" {
			// Nothing recorded, nothing to clear.
			return nil, nil
		}
		record := &models.ItemState{ID: itemID, State: state}
		if err := s.db.Create(record).Error; err != nil {
			return nil, fmt.Errorf("failed to create item state: %w", err)
		}
		return record, nil
	}

	existing.State = state
	return s.saveOrPrune(existing)
}

// SetNote attaches or updates the free-text note, creating the record on
// first attach.
func (s *ItemStateService) SetNote(itemID, note string) (*models.ItemState, error) {
	existing, err := s.Get(itemID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if note == "" {
			return nil, nil
		}
		record := &models.ItemState{ID: itemID, Note: note}
		if err := s.db.Create(record).Error; err != nil {
			return nil, fmt.Errorf("failed to create item state: %w", err)
		}
		return record, nil
	}

	existing.Note = note
	return s.saveOrPrune(existing)
}

// SetPhoto attaches the processed photo references, creating the record on
// first attach. Empty references clear the photo.
func (s *ItemStateService) SetPhoto(itemID, thumb, full string) (*models.ItemState, error) {
	existing, err := s.Get(itemID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if thumb == "" && full == "" {
			return nil, nil
		}
		record := &models.ItemState{ID: itemID, PhotoThumb: thumb, PhotoFull: full}
		if err := s.db.Create(record).Error; err != nil {
			return nil, fmt.Errorf("failed to create item state: %w", err)
		}
		return record, nil
	}

	existing.PhotoThumb = thumb
	existing.PhotoFull = full
	return s.saveOrPrune(existing)
}

// saveOrPrune persists the record, deleting it instead when every field has
// been cleared.
func (s *ItemStateService) saveOrPrune(state *models.ItemState) (*models.ItemState, error) {
	if state.Empty() {
		if err := s.db.Delete(&models.ItemState{}, "id = ?", state.ID).Error; err != nil {
			return nil, fmt.Errorf("failed to prune item state: %w", err)
		}
		return nil, nil
	}

	// Full-column save so cleared fields are written back as empty.
	if err := s.db.Model(&models.ItemState{}).Where("id = ?", state.ID).
		Select("state", "note", "photo_thumb", "photo_full").
		Updates(map[string]interface{}{
			"state":       state.State,
			"note":        state.Note,
			"photo_thumb": state.PhotoThumb,
			"photo_full":  state.PhotoFull,
		}).Error; err != nil {
		return nil, fmt.Errorf("failed to update item state: %w", err)
	}
	return state, nil
}
