// internal/services/inspection_service_test.go
package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/boatchecker/boatchecker-backend/internal/checklist"
	"github.com/boatchecker/boatchecker-backend/internal/config"
	"github.com/boatchecker/boatchecker-backend/internal/database"
	"github.com/boatchecker/boatchecker-backend/internal/models"
)

type ServiceTestSuite struct {
	suite.Suite
	db                *gorm.DB
	loader            *checklist.Loader
	settingsService   *SettingsService
	inspectionService *InspectionService
	itemStateService  *ItemStateService
	reconcileService  *ReconcileService
	accessService     *AccessService
	reportService     *ReportService
}

func (suite *ServiceTestSuite) SetupTest() {
	dir := suite.T().TempDir()

	db, err := database.Initialize(config.DatabaseConfig{
		Path:     filepath.Join(dir, "test.db"),
		LogLevel: "silent",
	})
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), database.RunMigrations(db))

	catalogJSON := `{"areas":[
		{"id":"hull","title":"Skrog","items":[
			{"id":"hull_general","title":"Generell tilstand","tags":["all"],"criticality":2,"costIndicator":2},
			{"id":"hull_osmosis","title":"Osmose","tags":["fiberglass"],"criticality":1,"costIndicator":4}
		]},
		{"id":"engine","title":"Motor","items":[
			{"id":"engine_oil","title":"Motorolje","tags":["all"],"engineTypes":["inboard"],"criticality":1,"costIndicator":3}
		]}
	]}`
	require.NoError(suite.T(), os.WriteFile(filepath.Join(dir, "checklist_nb.json"), []byte(catalogJSON), 0o644))

	loader, err := checklist.NewLoader(dir, "nb")
	require.NoError(suite.T(), err)

	suite.db = db
	suite.loader = loader
	suite.settingsService = NewSettingsService(db)
	suite.inspectionService = NewInspectionService(db)
	suite.itemStateService = NewItemStateService(db)
	suite.reconcileService = NewReconcileService(db, loader)
	suite.accessService = NewAccessService(db)
	suite.reportService = NewReportService(db, suite.reconcileService)
}

func (suite *ServiceTestSuite) TearDownTest() {
	database.Close(suite.db)
}

func (suite *ServiceTestSuite) setPickerProfile() {
	sailboat := models.BoatTypeSailboat
	monohull := models.BoatTypeMonohull
	inboard := models.EngineTypeInboard
	country := "NO"
	_, err := suite.settingsService.UpdateSettings(&UpdateSettingsRequest{
		CountryCode:   &country,
		TypePrimary:   &sailboat,
		TypeSecondary: &monohull,
		EngineType:    &inboard,
	})
	require.NoError(suite.T(), err)
}

func (suite *ServiceTestSuite) TestCreateFromSettings_SnapshotsProfile() {
	suite.setPickerProfile()

	inspection, err := suite.inspectionService.CreateFromSettings(&CreateInspectionRequest{
		CustomBoat: &models.CustomBoatDetails{Manufacturer: "Maxi Yachts", Model: "Maxi 77"},
	})
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "Maxi Yachts Maxi 77", inspection.Name)
	assert.Equal(suite.T(), models.InspectionStatusInProgress, inspection.Status)
	assert.Equal(suite.T(), "NO", inspection.Settings.CountryCode)
	require.NotNil(suite.T(), inspection.Settings.EngineType)
	assert.Equal(suite.T(), models.EngineTypeInboard, *inspection.Settings.EngineType)
}

func (suite *ServiceTestSuite) TestCreateFromSettings_UnknownBoatFallbacks() {
	inspection, err := suite.inspectionService.CreateFromSettings(&CreateInspectionRequest{})
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "Ukjent båt", inspection.BoatName)
	assert.Equal(suite.T(), "Ukjent produsent", inspection.BoatManufacturer)
}

func (suite *ServiceTestSuite) TestComplete_MergesLiveAndIsIdempotent() {
	inspection, err := suite.inspectionService.CreateFromSettings(&CreateInspectionRequest{})
	require.NoError(suite.T(), err)

	_, err = suite.itemStateService.SetState("hull_general", models.ItemStateObs)
	require.NoError(suite.T(), err)
	_, err = suite.itemStateService.SetNote("hull_osmosis", "check below waterline")
	require.NoError(suite.T(), err)

	completed, err := suite.inspectionService.Complete(inspection.ID)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), models.InspectionStatusCompleted, completed.Status)
	require.NotNil(suite.T(), completed.CompletedAt)
	assert.Len(suite.T(), completed.Items, 2)

	// A second completion must not change anything.
	again, err := suite.inspectionService.Complete(inspection.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), completed.CompletedAt.Unix(), again.CompletedAt.Unix())
	assert.Len(suite.T(), again.Items, 2)
}

func (suite *ServiceTestSuite) TestCompletedInspectionIgnoresLiveTable() {
	inspection, err := suite.inspectionService.CreateFromSettings(&CreateInspectionRequest{})
	require.NoError(suite.T(), err)

	_, err = suite.itemStateService.SetState("hull_general", models.ItemStateObs)
	require.NoError(suite.T(), err)

	completed, err := suite.inspectionService.Complete(inspection.ID)
	require.NoError(suite.T(), err)

	// Edits after completion belong to the next session, not this one.
	_, err = suite.itemStateService.SetState("hull_general", models.ItemStateKritisk)
	require.NoError(suite.T(), err)

	result, err := suite.reconcileService.RowsForInspection(completed, "nb")
	require.NoError(suite.T(), err)
	require.False(suite.T(), result.IsLoading)

	for _, row := range result.Rows {
		if row.ID == "hull_general" {
			assert.Equal(suite.T(), models.ItemStateObs, row.State)
			return
		}
	}
	suite.T().Fatal("hull_general row missing")
}

func (suite *ServiceTestSuite) TestLiveTableBelongsToActiveInspectionOnly() {
	abandoned, err := suite.inspectionService.CreateFromSettings(&CreateInspectionRequest{})
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.inspectionService.StartNew())

	current, err := suite.inspectionService.CreateFromSettings(&CreateInspectionRequest{})
	require.NoError(suite.T(), err)

	_, err = suite.itemStateService.SetState("hull_general", models.ItemStateKritisk)
	require.NoError(suite.T(), err)

	// The abandoned session renders from its own (empty) snapshot; the
	// current session's edits must not bleed into it.
	result, err := suite.reconcileService.RowsForInspection(abandoned, "nb")
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), result.Rows)

	result, err = suite.reconcileService.RowsForInspection(current, "nb")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), result.Rows, 1)
	assert.Equal(suite.T(), "hull_general", result.Rows[0].ID)
	assert.Equal(suite.T(), models.ItemStateKritisk, result.Rows[0].State)

	active, err := suite.inspectionService.ActiveInspection()
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), active)
	assert.Equal(suite.T(), current.ID, active.ID)
}

func (suite *ServiceTestSuite) TestComplete_AbandonedInspectionIgnoresLiveTable() {
	abandoned, err := suite.inspectionService.CreateFromSettings(&CreateInspectionRequest{})
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.inspectionService.StartNew())

	current, err := suite.inspectionService.CreateFromSettings(&CreateInspectionRequest{})
	require.NoError(suite.T(), err)

	_, err = suite.itemStateService.SetState("hull_general", models.ItemStateKritisk)
	require.NoError(suite.T(), err)

	// Completing the abandoned session must not snapshot the current
	// session's live edits.
	completed, err := suite.inspectionService.Complete(abandoned.ID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), completed.Items)

	completed, err = suite.inspectionService.Complete(current.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), completed.Items, 1)
	assert.Equal(suite.T(), models.ItemStateKritisk, completed.Items[0].State)
}

func (suite *ServiceTestSuite) TestStartNew_ResetsPickerButKeepsProfile() {
	suite.setPickerProfile()

	settings, err := suite.settingsService.GetSettings()
	require.NoError(suite.T(), err)
	settings.ReportsGenerated = 3
	settings.SubscriptionTier = models.TierPro
	require.NoError(suite.T(), suite.db.Save(settings).Error)

	_, err = suite.itemStateService.SetState("hull_general", models.ItemStateObs)
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.inspectionService.StartNew())

	settings, err = suite.settingsService.GetSettings()
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), settings.CountryCode)
	assert.Nil(suite.T(), settings.TypePrimary)
	assert.Nil(suite.T(), settings.EngineType)
	assert.Nil(suite.T(), settings.BoatModelID)

	// Durable profile fields survive the reset.
	assert.Equal(suite.T(), "nb", settings.Language)
	assert.Equal(suite.T(), models.TierPro, settings.SubscriptionTier)
	assert.Equal(suite.T(), 3, settings.ReportsGenerated)
	assert.True(suite.T(), settings.ContributeData)

	states, err := suite.itemStateService.List()
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), states)
}

func (suite *ServiceTestSuite) TestItemStatePruning() {
	_, err := suite.itemStateService.SetState("hull_general", models.ItemStateObs)
	require.NoError(suite.T(), err)

	// Clearing the only piece of data removes the record.
	state, err := suite.itemStateService.SetState("hull_general", "")
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), state)

	got, err := suite.itemStateService.Get("hull_general")
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), got)

	// With a note attached, clearing the state keeps the record.
	_, err = suite.itemStateService.SetState("hull_osmosis", models.ItemStateKritisk)
	require.NoError(suite.T(), err)
	_, err = suite.itemStateService.SetNote("hull_osmosis", "blisters")
	require.NoError(suite.T(), err)

	state, err = suite.itemStateService.SetState("hull_osmosis", "")
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), state)
	assert.Equal(suite.T(), "blisters", state.Note)

	// Clearing the note too prunes it.
	state, err = suite.itemStateService.SetNote("hull_osmosis", "")
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), state)
}

func (suite *ServiceTestSuite) TestItemStateClearOnMissingRecordIsNoop() {
	state, err := suite.itemStateService.SetState("hull_general", "")
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), state)

	states, err := suite.itemStateService.List()
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), states)
}

func (suite *ServiceTestSuite) TestMarkReportDownloaded_MetersFreeUsersOnce() {
	inspection, err := suite.inspectionService.CreateFromSettings(&CreateInspectionRequest{})
	require.NoError(suite.T(), err)

	updated, err := suite.reportService.MarkReportDownloaded(inspection.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), updated.ReportDownloaded)
	assert.True(suite.T(), updated.ReportCounted)

	settings, err := suite.settingsService.GetSettings()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, settings.ReportsGenerated)

	// Re-downloading the same report never meters again.
	_, err = suite.reportService.MarkReportDownloaded(inspection.ID)
	require.NoError(suite.T(), err)

	settings, err = suite.settingsService.GetSettings()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, settings.ReportsGenerated)
}

func (suite *ServiceTestSuite) TestMarkReportDownloaded_ProNotMetered() {
	require.NoError(suite.T(), suite.db.Model(&models.Settings{}).
		Where("key = ?", models.SettingsKey).
		Update("subscription_tier", models.TierPro).Error)

	inspection, err := suite.inspectionService.CreateFromSettings(&CreateInspectionRequest{})
	require.NoError(suite.T(), err)

	updated, err := suite.reportService.MarkReportDownloaded(inspection.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), updated.ReportDownloaded)
	assert.False(suite.T(), updated.ReportCounted)

	settings, err := suite.settingsService.GetSettings()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, settings.ReportsGenerated)
}

func (suite *ServiceTestSuite) TestActivateSinglePurchase() {
	inspection, err := suite.inspectionService.CreateFromSettings(&CreateInspectionRequest{})
	require.NoError(suite.T(), err)

	unlocked, err := suite.accessService.ActivateSinglePurchase(inspection.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.UnlockLevelSinglePurchase, unlocked.UnlockLevel)

	// Idempotent.
	again, err := suite.accessService.ActivateSinglePurchase(inspection.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.UnlockLevelSinglePurchase, again.UnlockLevel)

	level, err := suite.accessService.AccessLevelFor(again)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.AccessLevelSinglePurchase, level)
}

func (suite *ServiceTestSuite) TestActivateSinglePurchase_ProNoop() {
	require.NoError(suite.T(), suite.db.Model(&models.Settings{}).
		Where("key = ?", models.SettingsKey).
		Update("subscription_tier", models.TierPro).Error)

	inspection, err := suite.inspectionService.CreateFromSettings(&CreateInspectionRequest{})
	require.NoError(suite.T(), err)

	unchanged, err := suite.accessService.ActivateSinglePurchase(inspection.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.UnlockLevelNone, unchanged.UnlockLevel)
}

func (suite *ServiceTestSuite) TestDeleteInspection_NotFound() {
	err := suite.inspectionService.DeleteInspection(9999)
	assert.ErrorIs(suite.T(), err, ErrInspectionNotFound)
}

func (suite *ServiceTestSuite) TestBuildReport_SplitsFindingsAndAppendix() {
	suite.setPickerProfile()

	inspection, err := suite.inspectionService.CreateFromSettings(&CreateInspectionRequest{
		CustomBoat: &models.CustomBoatDetails{
			Manufacturer: "Maxi Yachts",
			Model:        "Maxi 77",
			HullMaterial: "Fiberglass",
		},
	})
	require.NoError(suite.T(), err)

	_, err = suite.itemStateService.SetState("hull_osmosis", models.ItemStateKritisk)
	require.NoError(suite.T(), err)
	_, err = suite.itemStateService.SetState("hull_general", models.ItemStateOK)
	require.NoError(suite.T(), err)
	_, err = suite.itemStateService.SetNote("engine_oil", "dark oil")
	require.NoError(suite.T(), err)

	report, err := suite.reportService.BuildReport(inspection, "nb", false)
	require.NoError(suite.T(), err)

	require.Len(suite.T(), report.Rows, 1)
	assert.Equal(suite.T(), "hull_osmosis", report.Rows[0].ID)
	require.Len(suite.T(), report.NotAssessedRows, 1)
	assert.Equal(suite.T(), "engine_oil", report.NotAssessedRows[0].ID)
	assert.Equal(suite.T(), models.VerdictSerious, report.Verdict)
	assert.False(suite.T(), report.HideCosts)
}

func (suite *ServiceTestSuite) TestBuildReport_TenderHidesCosts() {
	inspection, err := suite.inspectionService.CreateFromSettings(&CreateInspectionRequest{
		CustomBoat: &models.CustomBoatDetails{
			Manufacturer: "Maxi Yachts",
			Model:        "Maxi 77",
			HullMaterial: "Fiberglass",
		},
	})
	require.NoError(suite.T(), err)

	_, err = suite.itemStateService.SetState("hull_osmosis", models.ItemStateObs)
	require.NoError(suite.T(), err)

	report, err := suite.reportService.BuildReport(inspection, "nb", true)
	require.NoError(suite.T(), err)

	assert.True(suite.T(), report.HideCosts)
	require.Len(suite.T(), report.Rows, 1)
	assert.Zero(suite.T(), report.Rows[0].CostIndicator)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
