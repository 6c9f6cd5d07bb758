// internal/services/reconcile_service.go
package services

import (
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/boatchecker/boatchecker-backend/internal/checklist"
	"github.com/boatchecker/boatchecker-backend/internal/models"
)

// Row is the display-ready projection joining one item state (or its
// absence) with its checklist item definition.
type Row struct {
	ID            string                `json:"id"`
	Label         string                `json:"label"`
	State         models.ItemStateValue `json:"state"`
	Criticality   int                   `json:"criticality,omitempty"`
	CostIndicator int                   `json:"cost_indicator,omitempty"`
	Note          string                `json:"note,omitempty"`
	PhotoThumb    string                `json:"photo_thumb,omitempty"`
	PhotoFull     string                `json:"photo_full,omitempty"`
}

// HasImage reports whether the row carries any photo reference.
func (r Row) HasImage() bool {
	return r.PhotoThumb != "" || r.PhotoFull != ""
}

// HasNote reports whether the row carries a non-empty note.
func (r Row) HasNote() bool {
	return r.Note != ""
}

// ReconcileResult is the merged, sorted view of an inspection session.
type ReconcileResult struct {
	Rows      []Row                  `json:"rows"`
	Profile   checklist.BoatProfile  `json:"profile"`
	IsLoading bool                   `json:"is_loading"`
}

type ReconcileService struct {
	db     *gorm.DB
	loader *checklist.Loader
}

func NewReconcileService(db *gorm.DB, loader *checklist.Loader) *ReconcileService {
	return &ReconcileService{db: db, loader: loader}
}

// severityRank orders states most-severe first. Unranked states sort last.
func severityRank(state models.ItemStateValue) int {
	switch state {
	case models.ItemStateKritisk:
		return 1
	case models.ItemStateObs:
		return 2
	case models.ItemStateOK:
		return 3
	default:
		return 99
	}
}

// MergeItemStates builds the working item-id map: every entry of the
// persisted snapshot first, then every live entry on top. The live table
// reflects edits made after the inspection's last checkpoint, so live wins
// on collision.
func MergeItemStates(snapshot models.ItemSnapshot, live []models.ItemState) []models.ItemState {
	merged := make(map[string]models.ItemState, len(snapshot)+len(live))
	order := make([]string, 0, len(snapshot)+len(live))

	for _, s := range snapshot {
		if _, seen := merged[s.ID]; !seen {
			order = append(order, s.ID)
		}
		merged[s.ID] = s
	}
	for _, s := range live {
		if _, seen := merged[s.ID]; !seen {
			order = append(order, s.ID)
		}
		merged[s.ID] = s
	}

	result := make([]models.ItemState, 0, len(order))
	for _, id := range order {
		result = append(result, merged[id])
	}
	return result
}

// ProjectRows joins merged item states against the catalog item set. A state
// whose item definition is missing (catalog updated after the inspection was
// created) keeps its raw id as label.
func ProjectRows(states []models.ItemState, items []checklist.Item) []Row {
	defs := make(map[string]checklist.Item, len(items))
	for _, item := range items {
		defs[item.ID] = item
	}

	rows := make([]Row, 0, len(states))
	for _, s := range states {
		row := Row{
			ID:         s.ID,
			Label:      s.ID,
			State:      s.State,
			Note:       s.Note,
			PhotoThumb: s.PhotoThumb,
			PhotoFull:  s.PhotoFull,
		}
		if row.State == "" {
			row.State = models.ItemStateNotAssessed
		}
		if def, ok := defs[s.ID]; ok {
			row.Label = def.Title
			row.Criticality = def.Criticality
			row.CostIndicator = def.CostIndicator
		}
		rows = append(rows, row)
	}
	return rows
}

// SortRows orders rows for interactive display: worst state first, then most
// critical, then costliest, with catalog order breaking ties. Missing
// criticality counts as the least-critical rank and missing cost as the
// lowest tier.
func SortRows(rows []Row, items []checklist.Item) {
	catalogOrder := make(map[string]int, len(items))
	for i, item := range items {
		catalogOrder[item.ID] = i
	}
	orderOf := func(id string) int {
		if idx, ok := catalogOrder[id]; ok {
			return idx
		}
		return len(items)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]

		if sa, sb := severityRank(a.State), severityRank(b.State); sa != sb {
			return sa < sb
		}

		ca, cb := a.Criticality, b.Criticality
		if ca == 0 {
			ca = 3
		}
		if cb == 0 {
			cb = 3
		}
		if ca != cb {
			return ca < cb
		}

		costA, costB := a.CostIndicator, b.CostIndicator
		if costA == 0 {
			costA = 1
		}
		if costB == 0 {
			costB = 1
		}
		if costA != costB {
			return costA > costB
		}

		return orderOf(a.ID) < orderOf(b.ID)
	})
}

// Reconcile merges a persisted inspection snapshot with the live item-state
// table and projects sorted display rows against the given catalog items.
func Reconcile(snapshot models.ItemSnapshot, live []models.ItemState, items []checklist.Item) []Row {
	merged := MergeItemStates(snapshot, live)
	rows := ProjectRows(merged, items)
	SortRows(rows, items)
	return rows
}

// ResolveBoatProfile derives the boat profile an inspection's eligibility and
// report run against: the referenced catalog model when present, otherwise
// the embedded custom details, otherwise the snapshotted inspection settings
// with conservative defaults.
func (s *ReconcileService) ResolveBoatProfile(inspection *models.Inspection) (checklist.BoatProfile, error) {
	if inspection.BoatModelID != nil {
		var model models.BoatModel
		err := s.db.First(&model, *inspection.BoatModelID).Error
		if err == nil {
			return checklist.BoatProfile{
				Name:          model.Name,
				Manufacturer:  model.Manufacturer,
				TypePrimary:   model.TypePrimary,
				TypeSecondary: model.TypeSecondary,
				HullMaterial:  model.HullMaterial,
				EngineType:    engineTypeFor(inspection, model.EngineType),
			}, nil
		}
		if err != gorm.ErrRecordNotFound {
			return checklist.BoatProfile{}, fmt.Errorf("failed to load boat model: %w", err)
		}
		// Model deleted by a catalog reload; fall through to the snapshot.
	}

	if inspection.CustomBoat != nil {
		custom := inspection.CustomBoat.CustomBoatDetails
		profile := checklist.BoatProfile{
			Name:          custom.Model,
			Manufacturer:  custom.Manufacturer,
			TypePrimary:   models.BoatTypeMotorboat,
			TypeSecondary: models.BoatTypeMonohull,
			HullMaterial:  "Fiberglass",
			EngineType:    engineTypeFor(inspection, custom.EngineType),
		}
		if inspection.Settings.TypePrimary != nil {
			profile.TypePrimary = *inspection.Settings.TypePrimary
		}
		if custom.TypeSecondary != "" {
			profile.TypeSecondary = models.SecondaryBoatType(custom.TypeSecondary)
		} else if inspection.Settings.TypeSecondary != nil {
			profile.TypeSecondary = *inspection.Settings.TypeSecondary
		}
		if custom.HullMaterial != "" {
			profile.HullMaterial = custom.HullMaterial
		}
		return profile, nil
	}

	profile := checklist.BoatProfile{
		Name:          inspection.BoatName,
		Manufacturer:  inspection.BoatManufacturer,
		TypePrimary:   models.BoatTypeMotorboat,
		TypeSecondary: models.BoatTypeMonohull,
		HullMaterial:  "Fiberglass",
		EngineType:    inspection.Settings.EngineType,
	}
	if inspection.Settings.TypePrimary != nil {
		profile.TypePrimary = *inspection.Settings.TypePrimary
	}
	if inspection.Settings.TypeSecondary != nil {
		profile.TypeSecondary = *inspection.Settings.TypeSecondary
	}
	return profile, nil
}

// engineTypeFor prefers the engine type snapshotted on the inspection over
// the boat's own.
func engineTypeFor(inspection *models.Inspection, fallback *models.EngineType) *models.EngineType {
	if inspection.Settings.EngineType != nil && *inspection.Settings.EngineType != "" {
		return inspection.Settings.EngineType
	}
	return fallback
}

// RowsForInspection loads everything needed for the interactive view and
// reconciles it. IsLoading is true until both the catalog and the boat
// profile resolved; consumers must not render rows while loading.
func (s *ReconcileService) RowsForInspection(inspection *models.Inspection, lang string) (*ReconcileResult, error) {
	catalog := s.loader.Get(lang)
	if catalog == nil || len(catalog.Areas) == 0 {
		return &ReconcileResult{IsLoading: true}, nil
	}

	profile, err := s.ResolveBoatProfile(inspection)
	if err != nil {
		return &ReconcileResult{IsLoading: true}, err
	}

	// The live table belongs to the active session only; completed and
	// abandoned inspections render from their embedded snapshot.
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

	items := checklist.SelectApplicableItems(catalog, profile)
	rows := Reconcile(inspection.Items, live, items)

	return &ReconcileResult{
		Rows:    rows,
		Profile: profile,
	}, nil
}
