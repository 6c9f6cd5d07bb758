// internal/services/summary_service.go
package services

import (
	"fmt"
	"strings"

	"github.com/boatchecker/boatchecker-backend/internal/i18n"
	"github.com/boatchecker/boatchecker-backend/internal/models"
)

type PrimaryFilter string

const (
	FilterAll      PrimaryFilter = "all"
	FilterObs      PrimaryFilter = "obs"
	FilterCritical PrimaryFilter = "critical"
)

type ExtraFilter string

const (
	ExtraFilterNone       ExtraFilter = "none"
	ExtraFilterWithImages ExtraFilter = "with_images"
	ExtraFilterWithNotes  ExtraFilter = "with_notes"
)

type GroupMode string

const (
	GroupBySeverity GroupMode = "severity"
	GroupByCost     GroupMode = "cost"
)

// Group is one presentation bucket of summary rows.
type Group struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Items []Row  `json:"items"`
}

// FindingStats counts the severity-relevant subset of a row set. Only rows
// in state obs or kritisk contribute.
type FindingStats struct {
	KritiskCount    int `json:"kritisk_count"`
	ObsCount        int `json:"obs_count"`
	HighCritCount   int `json:"high_crit_count"`
	Cost4Count      int `json:"cost4_count"`
	Cost3Count      int `json:"cost3_count"`
	TotalFindings   int `json:"total_findings"`
}

// FilterRows applies the primary and extra filters as independent AND
// predicates.
func FilterRows(rows []Row, primary PrimaryFilter, extra ExtraFilter) []Row {
	filtered := make([]Row, 0, len(rows))
	for _, row := range rows {
		switch primary {
		case FilterCritical:
			if row.State != models.ItemStateKritisk {
				continue
			}
		case FilterObs:
			if row.State != models.ItemStateObs {
				continue
			}
		}

		switch extra {
		case ExtraFilterWithImages:
			if !row.HasImage() {
				continue
			}
		case ExtraFilterWithNotes:
			if !row.HasNote() || strings.TrimSpace(row.Note) == "" {
				continue
			}
		}

		filtered = append(filtered, row)
	}
	return filtered
}

// GroupRows buckets rows for presentation. Severity mode orders by
// criticality rank 1/2/3/unclassified; cost mode orders by cost tier
// descending with 0-or-unset last. Only non-empty buckets are emitted, each
// with a count-annotated label.
func GroupRows(rows []Row, mode GroupMode, lang string) []Group {
	var groups []Group

	if mode == GroupByCost {
		buckets := map[string][]Row{"4": {}, "3": {}, "2": {}, "1": {}, "0": {}}
		for _, row := range rows {
			key := "0"
			if row.CostIndicator >= 1 && row.CostIndicator <= 4 {
				key = fmt.Sprintf("%d", row.CostIndicator)
			}
			buckets[key] = append(buckets[key], row)
		}

		order := []struct {
			key   string
			label string
		}{
			{"4", "$$$$"},
			{"3", "$$$"},
			{"2", "$$"},
			{"1", "$"},
			{"0", i18n.T(lang, i18n.KeySummaryGroupNoCost)},
		}
		for _, o := range order {
			if len(buckets[o.key]) > 0 {
				groups = append(groups, Group{
					Key:   o.key,
					Label: fmt.Sprintf("%s (%d)", o.label, len(buckets[o.key])),
					Items: buckets[o.key],
				})
			}
		}
		return groups
	}

	buckets := map[string][]Row{"1": {}, "2": {}, "3": {}, "other": {}}
	for _, row := range rows {
		key := "other"
		if row.Criticality >= 1 && row.Criticality <= 3 {
			key = fmt.Sprintf("%d", row.Criticality)
		}
		buckets[key] = append(buckets[key], row)
	}

	order := []struct {
		key   string
		label string
	}{
		{"1", i18n.T(lang, i18n.KeySummaryGroupHighSeverity)},
		{"2", i18n.T(lang, i18n.KeySummaryGroupMediumSeverity)},
		{"3", i18n.T(lang, i18n.KeySummaryGroupLowSeverity)},
		{"other", i18n.T(lang, i18n.KeySummaryGroupUngrouped)},
	}
	for _, o := range order {
		if len(buckets[o.key]) > 0 {
			groups = append(groups, Group{
				Key:   o.key,
				Label: fmt.Sprintf("%s (%d)", o.label, len(buckets[o.key])),
				Items: buckets[o.key],
			})
		}
	}
	return groups
}

// ComputeFindingStats counts over the finding subset (obs and kritisk rows
// only; ok and not-assessed rows never contribute to severity scoring).
func ComputeFindingStats(rows []Row) FindingStats {
	var stats FindingStats
	for _, row := range rows {
		if row.State != models.ItemStateObs && row.State != models.ItemStateKritisk {
			continue
		}
		stats.TotalFindings++
		if row.State == models.ItemStateKritisk {
			stats.KritiskCount++
		} else {
			stats.ObsCount++
		}
		if row.Criticality == 1 {
			stats.HighCritCount++
		}
		switch row.CostIndicator {
		case 4:
			stats.Cost4Count++
		case 3:
			stats.Cost3Count++
		}
	}
	return stats
}

// ComputeVerdict maps finding statistics to the overall-assessment verdict.
// Evaluated in strict priority order; a single confirmed-critical finding or
// three-plus high-criticality observations outrank pure finding counts.
func ComputeVerdict(stats FindingStats) models.VerdictLevel {
	switch {
	case stats.KritiskCount > 0 || stats.HighCritCount >= 3:
		return models.VerdictSerious
	case stats.HighCritCount > 0 || stats.Cost4Count > 0:
		return models.VerdictConcerning
	case stats.ObsCount > 5 || stats.Cost3Count > 2:
		return models.VerdictFair
	case stats.ObsCount > 0:
		return models.VerdictGood
	default:
		return models.VerdictExcellent
	}
}
