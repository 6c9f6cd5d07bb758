// internal/services/report_service.go
package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/boatchecker/boatchecker-backend/internal/checklist"
	"github.com/boatchecker/boatchecker-backend/internal/database"
	"github.com/boatchecker/boatchecker-backend/internal/models"
)

// ReportData is the read-only input handed to the external report renderer.
type ReportData struct {
	Profile         checklist.BoatProfile      `json:"profile"`
	CustomBoat      *models.CustomBoatDetails  `json:"custom_boat,omitempty"`
	Metadata        models.InspectionMetadata  `json:"metadata"`
	InspectionDate  string                     `json:"inspection_date"`
	Rows            []Row                      `json:"rows"`
	NotAssessedRows []Row                      `json:"not_assessed_rows"`
	HideCosts       bool                       `json:"hide_costs"`
	Stats           FindingStats               `json:"stats"`
	Verdict         models.VerdictLevel        `json:"verdict"`
}

type ReportService struct {
	db        *gorm.DB
	reconcile *ReconcileService
}

func NewReportService(db *gorm.DB, reconcile *ReconcileService) *ReportService {
	return &ReportService{db: db, reconcile: reconcile}
}

// BuildReport prepares the ordered report rows: ok and not-assessed rows are
// dropped from the findings table, not-assessed rows go to their own
// appendix section. The tender variant suppresses cost indicators for
// vendor-facing output.
func (s *ReportService) BuildReport(inspection *models.Inspection, lang string, tender bool) (*ReportData, error) {
	result, err := s.reconcile.RowsForInspection(inspection, lang)
	if err != nil {
		return nil, err
	}
	if result.IsLoading {
		return nil, fmt.Errorf("checklist data not available")
	}

	var findings, notAssessed []Row
	for _, row := range result.Rows {
		switch row.State {
		case models.ItemStateNotAssessed:
			notAssessed = append(notAssessed, row)
		case models.ItemStateOK:
			// Healthy checkpoints stay out of the report body.
		default:
			findings = append(findings, row)
		}
	}

	if tender {
		for i := range findings {
			findings[i].CostIndicator = 0
		}
	}

	stats := ComputeFindingStats(result.Rows)

	data := &ReportData{
		Profile:         result.Profile,
		Metadata:        inspection.Metadata,
		InspectionDate:  inspection.CreatedAt.Format("2006-01-02"),
		Rows:            findings,
		NotAssessedRows: notAssessed,
		HideCosts:       tender,
		Stats:           stats,
		Verdict:         ComputeVerdict(stats),
	}
	if inspection.CustomBoat != nil {
		custom := inspection.CustomBoat.CustomBoatDetails
		data.CustomBoat = &custom
	}
	return data, nil
}

// MarkReportDownloaded flips the one-way reportDownloaded flag and, for
// non-pro users, meters the report: the lifetime counter and the
// reportCounted flag move in one transaction so a crash cannot leave one
// without the other. Pro users are not metered.
func (s *ReportService) MarkReportDownloaded(inspectionID uint) (*models.Inspection, error) {
	var settings models.Settings
	if err := s.db.Where("key = ?", models.SettingsKey).First(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	var inspection models.Inspection
	if err := s.db.First(&inspection, inspectionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInspectionNotFound
		}
		return nil, fmt.Errorf("failed to load inspection: %w", err)
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if !inspection.ReportDownloaded {
			if err := tx.Model(&inspection).Update("report_downloaded", true).Error; err != nil {
				return fmt.Errorf("failed to mark report downloaded: %w", err)
			}
			inspection.ReportDownloaded = true
		}

		if settings.IsPro() || inspection.ReportCounted {
			return nil
		}

		if err := tx.Model(&inspection).Update("report_counted", true).Error; err != nil {
			return fmt.Errorf("failed to mark report counted: %w", err)
		}
		if err := tx.Model(&models.Settings{}).Where("key = ?", models.SettingsKey).
			Update("reports_generated", gorm.Expr("reports_generated + 1")).Error; err != nil {
			return fmt.Errorf("failed to increment report counter: %w", err)
		}
		inspection.ReportCounted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"inspection_id": inspectionID,
		"counted":       inspection.ReportCounted,
	}).Info("Report download recorded")
	return &inspection, nil
}
