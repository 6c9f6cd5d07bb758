// internal/models/boat.go
package models

// BoatModel is an immutable catalog entry. The full set is bulk-replaced
// whenever the bundled catalog version differs from the persisted seed
// marker.
type BoatModel struct {
	BaseModel
	Name          string            `json:"name" gorm:"size:255;not null;index"`
	Manufacturer  string            `json:"manufacturer" gorm:"size:255;not null;index"`
	TypePrimary   PrimaryBoatType   `json:"type_primary" gorm:"size:16;not null;index"`
	TypeSecondary SecondaryBoatType `json:"type_secondary" gorm:"size:16;not null;index"`
	HullMaterial  string            `json:"hull_material" gorm:"size:32;not null"`
	EngineType    *EngineType       `json:"engine_type,omitempty" gorm:"size:16"`
	YearFrom      *int              `json:"year_from,omitempty"`
	YearTo        *int              `json:"year_to,omitempty"`
	LOA           *float64          `json:"loa,omitempty"`
	Beam          *float64          `json:"beam,omitempty"`
	Draft         *float64          `json:"draft,omitempty"`
	Displacement  *float64          `json:"displacement,omitempty"`
	ImageURL      string            `json:"image_url,omitempty" gorm:"size:512"`
	Designer      string            `json:"designer,omitempty" gorm:"size:255"`
	KnownIssues   StringSlice       `json:"known_issues,omitempty" gorm:"type:text"`
	MarketSegment string            `json:"market_segment,omitempty" gorm:"size:32"`
}

// CustomBoatDetails describes a boat entered by hand when the user's boat is
// not in the catalog. Embedded in the inspection as serialized JSON.
type CustomBoatDetails struct {
	Manufacturer       string      `json:"manufacturer"`
	Model              string      `json:"model"`
	Year               string      `json:"year,omitempty"`
	HullMaterial       string      `json:"hull_material,omitempty"`
	TypeSecondary      string      `json:"type_secondary,omitempty"`
	EngineType         *EngineType `json:"engine_type,omitempty"`
	LOA                *float64    `json:"loa,omitempty"`
	Beam               *float64    `json:"beam,omitempty"`
	Draft              *float64    `json:"draft,omitempty"`
	Displacement       *float64    `json:"displacement,omitempty"`
	EngineMake         string      `json:"engine_make,omitempty"`
	EnginePower        *float64    `json:"engine_power,omitempty"`
	EngineHours        *float64    `json:"engine_hours,omitempty"`
	FuelType           string      `json:"fuel_type,omitempty"`
	HIN                string      `json:"hin,omitempty"`
	RegistrationNumber string      `json:"registration_number,omitempty"`
	ListingURL         string      `json:"listing_url,omitempty"`
}

// SeedMarker tracks which bundled catalog version was last loaded into the
// boat_models table.
type SeedMarker struct {
	Key     string `json:"key" gorm:"primaryKey;size:64"`
	Version string `json:"version" gorm:"size:32"`
}

const SeedMarkerKey = "boat_catalog_seed_version"
