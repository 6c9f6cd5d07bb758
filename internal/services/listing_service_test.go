// internal/services/listing_service_test.go
package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boatchecker/boatchecker-backend/internal/config"
)

func TestParseListingTitle_KnownManufacturer(t *testing.T) {
	meta := parseListingTitle("Bavaria 37 Cruiser 2008 - FINN.no")

	assert.Equal(t, "Bavaria", meta.Manufacturer)
	assert.Equal(t, "37 Cruiser", meta.Model)
	assert.Equal(t, "2008", meta.Year)
	assert.Equal(t, "high", meta.Confidence)
	assert.Equal(t, "meta", meta.Source)
}

func TestParseListingTitle_UnknownManufacturerFallsBack(t *testing.T) {
	meta := parseListingTitle("Skibsplast 605 for sale")

	assert.Equal(t, "Skibsplast", meta.Manufacturer)
	assert.Equal(t, "605", meta.Model)
	assert.Equal(t, "low", meta.Confidence)
}

func TestParseListingTitle_StripsPriceAndPrefix(t *testing.T) {
	meta := parseListingTitle("Til salgs: Jeanneau Sun Odyssey 1999 450 000 kr | Yachting.no")

	assert.Equal(t, "Jeanneau", meta.Manufacturer)
	assert.Equal(t, "Sun Odyssey", meta.Model)
	assert.Equal(t, "1999", meta.Year)
}

func TestParseListingURL(t *testing.T) {
	meta := parseListingURL("https://www.finn.no/boat/bavaria-37-cruiser-2008")
	require.NotNil(t, meta)

	assert.Equal(t, "Bavaria", meta.Manufacturer)
	assert.Equal(t, "2008", meta.Year)
	assert.Equal(t, "url", meta.Source)
	assert.Equal(t, "medium", meta.Confidence)
}

func TestGetListingMetadata_PrefersProxyTitle(t *testing.T) {
	db := analyticsTestDB(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/fetch-metadata", r.URL.Path)
		require.NotEmpty(t, r.URL.Query().Get("url"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":  true,
			"metadata": map[string]string{"title": "Windy 25 Mirage 1995 - FINN.no"},
		})
	}))
	defer server.Close()

	service := NewAnalyticsService(db, config.AnalyticsConfig{BaseURL: server.URL}, "1.0.0")

	meta := service.GetListingMetadata("https://www.finn.no/boat/some-listing")
	require.NotNil(t, meta)
	assert.Equal(t, "Windy 25 Mirage 1995 - FINN.no", meta.Title)
	assert.Equal(t, "Windy", meta.Manufacturer)
	assert.Equal(t, "25 Mirage", meta.Model)
	assert.Equal(t, "1995", meta.Year)
	assert.Equal(t, "meta", meta.Source)
}

func TestGetListingMetadata_ProxyFailureFallsBackToURL(t *testing.T) {
	db := analyticsTestDB(t)

	rejecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer rejecting.Close()

	service := NewAnalyticsService(db, config.AnalyticsConfig{BaseURL: rejecting.URL}, "1.0.0")

	meta := service.GetListingMetadata("https://www.finn.no/boat/askeladden-525-2010")
	require.NotNil(t, meta)
	assert.Equal(t, "url", meta.Source)
	assert.Equal(t, "Askeladden", meta.Manufacturer)
	assert.Equal(t, "2010", meta.Year)
}

func TestGetListingMetadata_UnconfiguredUsesURLOnly(t *testing.T) {
	db := analyticsTestDB(t)
	service := NewAnalyticsService(db, config.AnalyticsConfig{}, "1.0.0")

	meta := service.GetListingMetadata("https://www.finn.no/boat/nimbus-26-epoca")
	require.NotNil(t, meta)
	assert.Equal(t, "url", meta.Source)
	assert.Equal(t, "Nimbus", meta.Manufacturer)
}

func TestGetListingMetadata_RejectsNonHTTPURL(t *testing.T) {
	db := analyticsTestDB(t)
	service := NewAnalyticsService(db, config.AnalyticsConfig{}, "1.0.0")

	assert.Nil(t, service.GetListingMetadata("ftp://example.com/listing"))
	assert.Nil(t, service.GetListingMetadata("not a url"))
}
