// internal/services/analytics_service.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/boatchecker/boatchecker-backend/internal/checklist"
	"github.com/boatchecker/boatchecker-backend/internal/config"
	"github.com/boatchecker/boatchecker-backend/internal/models"
)

// AnalyticsService submits anonymous inspection findings to the remote
// statistics service and fetches per-model insight data. Every call is
// best-effort: a network failure or an unsuccessful response degrades to
// "no insight available" and is never surfaced as a user-facing error.
type AnalyticsService struct {
	db      *gorm.DB
	cfg     config.AnalyticsConfig
	version string
	client  *http.Client
	limiter *rate.Limiter
}

func NewAnalyticsService(db *gorm.DB, cfg config.AnalyticsConfig, appVersion string) *AnalyticsService {
	perMinute := cfg.SubmitPerMinute
	if perMinute <= 0 {
		perMinute = 6
	}
	return &AnalyticsService{
		db:      db,
		cfg:     cfg,
		version: appVersion,
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
}

type AnonymousFinding struct {
	ID    string                `json:"id"`
	Area  string                `json:"area,omitempty"`
	State models.ItemStateValue `json:"state"`
}

type SubmitPayload struct {
	InstallID         string                 `json:"install_id"`
	BoatManufacturer  string                 `json:"boat_manufacturer"`
	BoatModel         string                 `json:"boat_model,omitempty"`
	BoatType          models.PrimaryBoatType `json:"boat_type"`
	BoatTypeSecondary string                 `json:"boat_type_secondary,omitempty"`
	HullMaterial      string                 `json:"hull_material,omitempty"`
	EngineType        string                 `json:"engine_type,omitempty"`
	CountryCode       string                 `json:"country_code,omitempty"`
	AppVersion        string                 `json:"app_version"`
	Findings          []AnonymousFinding     `json:"findings"`
}

type ItemStatistics struct {
	ChecklistItemID  string  `json:"checklist_item_id"`
	TotalInspections int     `json:"total_inspections"`
	PctOK            float64 `json:"pct_ok"`
	PctObs           float64 `json:"pct_obs"`
	PctKritisk       float64 `json:"pct_kritisk"`
}

type CommonIssue struct {
	ChecklistItemID  string  `json:"checklist_item_id"`
	TotalInspections int     `json:"total_inspections"`
	PctKritisk       float64 `json:"pct_kritisk"`
	PctObs           float64 `json:"pct_obs"`
}

type StatsResponse struct {
	Success      bool             `json:"success"`
	Manufacturer string           `json:"manufacturer"`
	Model        string           `json:"model,omitempty"`
	Statistics   []ItemStatistics `json:"statistics"`
	CommonIssues []CommonIssue    `json:"common_issues"`
}

// contributionSettings loads the opt-in flag and the anonymous install id,
// lazily generating the id for installs migrated from a schema without one.
func (s *AnalyticsService) contributionSettings() (*models.Settings, error) {
	var settings models.Settings
	if err := s.db.Where("key = ?", models.SettingsKey).First(&settings).Error; err != nil {
		return nil, err
	}

	if settings.InstallID == "" {
		settings.InstallID = uuid.New().String()
		if err := s.db.Model(&settings).Update("install_id", settings.InstallID).Error; err != nil {
			return nil, err
		}
	}
	return &settings, nil
}

// BuildFindings converts a merged item-state set into the anonymous wire
// form. Items without an assessed state are excluded; the area is derived
// from the id prefix before the first underscore.
func BuildFindings(states []models.ItemState) []AnonymousFinding {
	findings := make([]AnonymousFinding, 0, len(states))
	for _, state := range states {
		switch state.State {
		case models.ItemStateOK, models.ItemStateObs, models.ItemStateKritisk:
		default:
			continue
		}
		area := ""
		if idx := strings.Index(state.ID, "_"); idx > 0 {
			area = state.ID[:idx]
		}
		findings = append(findings, AnonymousFinding{
			ID:    state.ID,
			Area:  area,
			State: state.State,
		})
	}
	return findings
}

// SubmitFindings posts an inspection's anonymized findings. Returns whether
// a submission actually went out; all failure modes are silent.
func (s *AnalyticsService) SubmitFindings(inspection *models.Inspection, profile checklist.BoatProfile) bool {
	settings, err := s.contributionSettings()
	if err != nil || !settings.ContributeData {
		return false
	}
	if s.cfg.BaseURL == "" || s.cfg.APIKey == "" {
		logrus.Debug("Analytics not configured, skipping submission")
		return false
	}

	states := []models.ItemState(inspection.Items)
	if active, err := isActiveInspection(s.db, inspection); err == nil && active {
		var live []models.ItemState
		if err := s.db.Find(&live).Error; err == nil {
			states = MergeItemStates(inspection.Items, live)
		}
	}

	findings := BuildFindings(states)
	if len(findings) == 0 {
		return false
	}

	if !s.limiter.Allow() {
		logrus.Warn("Findings submission throttled")
		return false
	}

	engineType := ""
	if profile.EngineType != nil {
		engineType = string(*profile.EngineType)
	}
	countryCode := inspection.Settings.CountryCode
	if countryCode == "" {
		countryCode = "NO"
	}

	payload := SubmitPayload{
		InstallID:         settings.InstallID,
		BoatManufacturer:  profile.Manufacturer,
		BoatModel:         profile.Name,
		BoatType:          profile.TypePrimary,
		BoatTypeSecondary: string(profile.TypeSecondary),
		HullMaterial:      profile.HullMaterial,
		EngineType:        engineType,
		CountryCode:       countryCode,
		AppVersion:        s.version,
		Findings:          findings,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal findings payload")
		return false
	}

	req, err := http.NewRequest(http.MethodPost, s.cfg.BaseURL+"/findings", bytes.NewReader(body))
	if err != nil {
		logrus.WithError(err).Error("Failed to build findings request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		logrus.WithError(err).Warn("Findings submission failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		logrus.WithField("status", resp.StatusCode).Warn("Findings submission rejected")
		return false
	}

	logrus.WithField("findings", len(findings)).Info("Anonymous findings submitted")
	return true
}

// GetStats fetches insight statistics for a boat model. Any failure,
// including success=false in the body, yields nil: absence of a response is
// identical to an explicit "no data".
func (s *AnalyticsService) GetStats(manufacturer, model string) *StatsResponse {
	if s.cfg.BaseURL == "" || manufacturer == "" {
		return nil
	}

	params := url.Values{"manufacturer": {manufacturer}}
	if model != "" {
		params.Set("model", model)
	}

	resp, err := s.client.Get(fmt.Sprintf("%s/stats?%s", s.cfg.BaseURL, params.Encode()))
	if err != nil {
		logrus.WithError(err).Debug("Stats fetch failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logrus.WithField("status", resp.StatusCode).Debug("Stats fetch rejected")
		return nil
	}

	var stats StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		logrus.WithError(err).Debug("Stats response malformed")
		return nil
	}
	if !stats.Success {
		return nil
	}
	return &stats
}
