// internal/services/analytics_service_test.go
package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/boatchecker/boatchecker-backend/internal/checklist"
	"github.com/boatchecker/boatchecker-backend/internal/config"
	"github.com/boatchecker/boatchecker-backend/internal/database"
	"github.com/boatchecker/boatchecker-backend/internal/models"
)

func analyticsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Initialize(config.DatabaseConfig{
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	t.Cleanup(func() { database.Close(db) })
	return db
}

func TestBuildFindings(t *testing.T) {
	states := []models.ItemState{
		{ID: "hull_osmosis", State: models.ItemStateKritisk},
		{ID: "engine_oil", State: models.ItemStateOK},
		{ID: "rig_standing", Note: "note only, no state"},
		{ID: "deck_fittings", State: models.ItemStateNotAssessed},
	}

	findings := BuildFindings(states)
	require.Len(t, findings, 2)

	assert.Equal(t, "hull_osmosis", findings[0].ID)
	assert.Equal(t, "hull", findings[0].Area)
	assert.Equal(t, models.ItemStateKritisk, findings[0].State)
	assert.Equal(t, "engine", findings[1].Area)
}

func TestSubmitFindings_PostsAnonymousPayload(t *testing.T) {
	db := analyticsTestDB(t)

	var received SubmitPayload
	var apiKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/findings", r.URL.Path)
		apiKey = r.Header.Get("X-API-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	service := NewAnalyticsService(db, config.AnalyticsConfig{
		BaseURL:         server.URL,
		APIKey:          "test-key",
		SubmitPerMinute: 10,
	}, "1.2.3")

	inboard := models.EngineTypeInboard
	inspection := &models.Inspection{
		Items: models.ItemSnapshot{
			{ID: "hull_osmosis", State: models.ItemStateKritisk},
		},
	}
	profile := checklist.BoatProfile{
		Name:          "Maxi 77",
		Manufacturer:  "Maxi Yachts",
		TypePrimary:   models.BoatTypeSailboat,
		TypeSecondary: models.BoatTypeMonohull,
		HullMaterial:  "Fiberglass",
		EngineType:    &inboard,
	}

	ok := service.SubmitFindings(inspection, profile)
	assert.True(t, ok)
	assert.Equal(t, "test-key", apiKey)
	assert.NotEmpty(t, received.InstallID)
	assert.Equal(t, "Maxi Yachts", received.BoatManufacturer)
	assert.Equal(t, "Maxi 77", received.BoatModel)
	assert.Equal(t, "inboard", received.EngineType)
	assert.Equal(t, "1.2.3", received.AppVersion)
	require.Len(t, received.Findings, 1)
	assert.Equal(t, "hull", received.Findings[0].Area)
}

func TestSubmitFindings_RespectsOptOut(t *testing.T) {
	db := analyticsTestDB(t)
	require.NoError(t, db.Model(&models.Settings{}).
		Where("key = ?", models.SettingsKey).
		Update("contribute_data", false).Error)

	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	service := NewAnalyticsService(db, config.AnalyticsConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
	}, "1.0.0")

	inspection := &models.Inspection{
		Items: models.ItemSnapshot{{ID: "hull_osmosis", State: models.ItemStateObs}},
	}
	ok := service.SubmitFindings(inspection, checklist.BoatProfile{Manufacturer: "X"})

	assert.False(t, ok)
	assert.False(t, called)
}

func TestSubmitFindings_NothingToSend(t *testing.T) {
	db := analyticsTestDB(t)

	service := NewAnalyticsService(db, config.AnalyticsConfig{
		BaseURL: "http://localhost:1",
		APIKey:  "test-key",
	}, "1.0.0")

	// Only a note, no assessed states: nothing leaves the device.
	inspection := &models.Inspection{
		Items: models.ItemSnapshot{{ID: "hull_osmosis", Note: "check later"}},
	}
	ok := service.SubmitFindings(inspection, checklist.BoatProfile{Manufacturer: "X"})
	assert.False(t, ok)
}

func TestGetStats(t *testing.T) {
	db := analyticsTestDB(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Maxi Yachts", r.URL.Query().Get("manufacturer"))
		json.NewEncoder(w).Encode(StatsResponse{
			Success:      true,
			Manufacturer: "Maxi Yachts",
			Statistics: []ItemStatistics{
				{ChecklistItemID: "hull_osmosis", TotalInspections: 42, PctKritisk: 12.5},
			},
		})
	}))
	defer server.Close()

	service := NewAnalyticsService(db, config.AnalyticsConfig{BaseURL: server.URL}, "1.0.0")

	stats := service.GetStats("Maxi Yachts", "Maxi 77")
	require.NotNil(t, stats)
	require.Len(t, stats.Statistics, 1)
	assert.Equal(t, 42, stats.Statistics[0].TotalInspections)
}

func TestGetStats_FailuresYieldNil(t *testing.T) {
	db := analyticsTestDB(t)

	rejecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer rejecting.Close()

	service := NewAnalyticsService(db, config.AnalyticsConfig{BaseURL: rejecting.URL}, "1.0.0")
	assert.Nil(t, service.GetStats("Maxi Yachts", ""))

	unsuccessful := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(StatsResponse{Success: false})
	}))
	defer unsuccessful.Close()

	service = NewAnalyticsService(db, config.AnalyticsConfig{BaseURL: unsuccessful.URL}, "1.0.0")
	assert.Nil(t, service.GetStats("Maxi Yachts", ""))

	// Unconfigured service degrades silently.
	service = NewAnalyticsService(db, config.AnalyticsConfig{}, "1.0.0")
	assert.Nil(t, service.GetStats("Maxi Yachts", ""))
}
