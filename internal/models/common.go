// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Base model with common fields
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JSONMap stores a free-form object as serialized JSON (sqlite has no
// native json column type).
type JSONMap map[string]interface{}

func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return nil
		}
	}

	return json.Unmarshal(bytes, j)
}

// StringSlice stores a list of strings as serialized JSON.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value interface{}) error {
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

// Enums
type PrimaryBoatType string

const (
	BoatTypeSailboat  PrimaryBoatType = "Sailboat"
	BoatTypeMotorboat PrimaryBoatType = "Motorboat"
)

type SecondaryBoatType string

const (
	BoatTypeMonohull  SecondaryBoatType = "Monohull"
	BoatTypeMultihull SecondaryBoatType = "Multihull"
)

type EngineType string

const (
	EngineTypeInboard  EngineType = "inboard"
	EngineTypeOutboard EngineType = "outboard"
	EngineTypeBoth     EngineType = "both"
)

type InspectionStatus string

const (
	InspectionStatusInProgress InspectionStatus = "in_progress"
	InspectionStatusCompleted  InspectionStatus = "completed"
)

type ItemStateValue string

const (
	ItemStateOK          ItemStateValue = "ok"
	ItemStateObs         ItemStateValue = "obs"
	ItemStateKritisk     ItemStateValue = "kritisk"
	ItemStateNotAssessed ItemStateValue = "not_assessed"
)

type SubscriptionTier string

const (
	TierFree SubscriptionTier = "free"
	TierPro  SubscriptionTier = "pro"
)

type UnlockLevel string

const (
	UnlockLevelNone           UnlockLevel = ""
	UnlockLevelSinglePurchase UnlockLevel = "single_purchase"
)

type AccessLevel string

const (
	AccessLevelPro            AccessLevel = "pro"
	AccessLevelSinglePurchase AccessLevel = "single_purchase"
	AccessLevelFree           AccessLevel = "free"
)

type BoatLocation string

const (
	BoatLocationLand  BoatLocation = "land"
	BoatLocationWater BoatLocation = "water"
)

type OverallAssessment string

const (
	AssessmentRecommended      OverallAssessment = "recommended"
	AssessmentWithReservations OverallAssessment = "with_reservations"
	AssessmentNotRecommended   OverallAssessment = "not_recommended"
)

// VerdictLevel is the computed overall-condition verdict for a finding set.
type VerdictLevel string

const (
	VerdictExcellent  VerdictLevel = "excellent"
	VerdictGood       VerdictLevel = "good"
	VerdictFair       VerdictLevel = "fair"
	VerdictConcerning VerdictLevel = "concerning"
	VerdictSerious    VerdictLevel = "serious"
)
