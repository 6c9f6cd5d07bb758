// internal/checklist/eligibility.go
package checklist

import (
	"strings"

	"github.com/boatchecker/boatchecker-backend/internal/models"
)

// WildcardTag marks items relevant to every boat.
const WildcardTag = "all"

// BoatProfile is the resolved boat description eligibility is computed
// against: type, hull and (optionally) engine.
type BoatProfile struct {
	Name          string
	Manufacturer  string
	TypePrimary   models.PrimaryBoatType
	TypeSecondary models.SecondaryBoatType
	HullMaterial  string
	EngineType    *models.EngineType
}

// profileTags builds the lowercased tag set an item must intersect:
// the wildcard plus primary type, secondary type and hull material when
// known.
func profileTags(profile BoatProfile) map[string]bool {
	tags := map[string]bool{WildcardTag: true}
	if profile.TypePrimary != "" {
		tags[strings.ToLower(string(profile.TypePrimary))] = true
	}
	if profile.TypeSecondary != "" {
		tags[strings.ToLower(string(profile.TypeSecondary))] = true
	}
	if profile.HullMaterial != "" {
		tags[strings.ToLower(profile.HullMaterial)] = true
	}
	return tags
}

// engineMatches reports whether the profile's engine type satisfies an
// item's applicable-engine-types restriction. A profile without an engine
// type never matches a restricted item; a "both" profile matches any.
func engineMatches(itemEngineTypes []string, engineType *models.EngineType) bool {
	if engineType == nil || *engineType == "" {
		return false
	}
	for _, et := range itemEngineTypes {
		if models.EngineType(et) == *engineType {
			return true
		}
		if *engineType == models.EngineTypeBoth &&
			(models.EngineType(et) == models.EngineTypeInboard || models.EngineType(et) == models.EngineTypeOutboard) {
			return true
		}
	}
	return false
}

// SelectApplicableItems computes the ordered subset of catalog items relevant
// to the boat profile. An item is eligible when at least one of its tags
// intersects the profile tag set (case-insensitively); items with an
// engine-type restriction additionally require a matching engine type.
// Output preserves catalog order flattened across areas.
func SelectApplicableItems(catalog *Catalog, profile BoatProfile) []Item {
	tags := profileTags(profile)

	var eligible []Item
	for _, item := range catalog.FlatItems() {
		matched := false
		for _, tag := range item.Tags {
			if tags[strings.ToLower(tag)] {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		if len(item.EngineTypes) > 0 && !engineMatches(item.EngineTypes, profile.EngineType) {
			continue
		}

		eligible = append(eligible, item)
	}
	return eligible
}
