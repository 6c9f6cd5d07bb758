// internal/models/inspection.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// ItemState is one record per checklist item touched during the current
// inspection session. Absence of a record means "not assessed"; records
// emptied of state, note and photo are pruned rather than kept as
// tombstones.
type ItemState struct {
	ID         string         `json:"id" gorm:"primaryKey;size:128"`
	State      ItemStateValue `json:"state" gorm:"size:16;not null"`
	Note       string         `json:"note,omitempty" gorm:"type:text"`
	PhotoThumb string         `json:"photo_thumb,omitempty" gorm:"size:512"`
	PhotoFull  string         `json:"photo_full,omitempty" gorm:"size:512"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Empty reports whether the record carries no data and should be pruned.
func (s *ItemState) Empty() bool {
	return s.State == "" && s.Note == "" && s.PhotoThumb == "" && s.PhotoFull == ""
}

// ItemSnapshot is the embedded item-state list persisted on an inspection at
// lifecycle checkpoints. The live item_states table overlays it for the
// active session.
type ItemSnapshot []ItemState

func (s ItemSnapshot) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *ItemSnapshot) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return nil
		}
	}

	return json.Unmarshal(bytes, s)
}

// InspectionMetadata holds the optional free-form details recorded around an
// inspection session.
type InspectionMetadata struct {
	InspectorName      string             `json:"inspector_name,omitempty"`
	InspectionLocation string             `json:"inspection_location,omitempty"`
	BoatLocation       *BoatLocation      `json:"boat_location,omitempty"`
	WeatherConditions  string             `json:"weather_conditions,omitempty"`
	OverallAssessment  *OverallAssessment `json:"overall_assessment,omitempty"`
	AssessmentNotes    string             `json:"assessment_notes,omitempty"`
}

func (m InspectionMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *InspectionMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = InspectionMetadata{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return nil
		}
	}

	return json.Unmarshal(bytes, m)
}

// InspectionSettings is the boat profile snapshotted at creation time, so
// later catalog or picker edits do not retroactively change an in-progress
// inspection's item set.
type InspectionSettings struct {
	CountryCode   string             `json:"country_code,omitempty"`
	TypePrimary   *PrimaryBoatType   `json:"type_primary,omitempty"`
	TypeSecondary *SecondaryBoatType `json:"type_secondary,omitempty"`
	EngineType    *EngineType        `json:"engine_type,omitempty"`
}

func (s InspectionSettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *InspectionSettings) Scan(value interface{}) error {
	if value == nil {
		*s = InspectionSettings{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return nil
		}
	}

	return json.Unmarshal(bytes, s)
}

// Inspection is the aggregate root of one inspection session.
type Inspection struct {
	BaseModel
	Name        string           `json:"name" gorm:"size:255;not null;index"`
	Status      InspectionStatus `json:"status" gorm:"size:16;not null;default:'in_progress';index"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`

	// Boat reference: a catalog model id XOR embedded custom details.
	BoatModelID      *uint              `json:"boat_model_id,omitempty" gorm:"index"`
	CustomBoat       *CustomBoatJSON    `json:"custom_boat,omitempty" gorm:"type:text"`
	BoatName         string             `json:"boat_name" gorm:"size:255"`
	BoatManufacturer string             `json:"boat_manufacturer" gorm:"size:255"`
	Settings         InspectionSettings `json:"settings" gorm:"type:text"`
	Metadata         InspectionMetadata `json:"metadata" gorm:"type:text"`
	Items            ItemSnapshot       `json:"items" gorm:"type:text"`

	UnlockLevel UnlockLevel `json:"unlock_level" gorm:"size:32;default:''"`

	// One-way flags, each may transition false -> true exactly once.
	ReportDownloaded bool `json:"report_downloaded" gorm:"default:false"`
	ReportCounted    bool `json:"report_counted" gorm:"default:false"`
}

// CustomBoatJSON wraps CustomBoatDetails as a serialized column.
type CustomBoatJSON struct {
	CustomBoatDetails
}

func (c CustomBoatJSON) Value() (driver.Value, error) {
	return json.Marshal(c.CustomBoatDetails)
}

func (c *CustomBoatJSON) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return nil
		}
	}

	return json.Unmarshal(bytes, &c.CustomBoatDetails)
}
