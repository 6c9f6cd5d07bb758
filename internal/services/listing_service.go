// internal/services/listing_service.go
package services

import (
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ListingMetadata is boat info extracted from a sales-listing URL, used to
// prefill the custom-boat form. Source records where the data came from: the
// page's public meta tags or the URL path itself. Only public metadata is
// ever consulted, never page content.
type ListingMetadata struct {
	Title        string `json:"title,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	Year         string `json:"year,omitempty"`
	Source       string `json:"source"`
	Confidence   string `json:"confidence"`
}

// knownManufacturers drives the title and URL matching. Unknown brands fall
// back to first-word splitting with low confidence.
var knownManufacturers = []string{
	"Bavaria", "Beneteau", "Jeanneau", "Hallberg-Rassy", "Najad", "Dehler",
	"Hanse", "Dufour", "Lagoon", "Fountaine Pajot", "Catana", "Leopard",
	"Nauticat", "Nordship", "Marex", "Windy", "Nimbus", "Yamarin", "Yamaha",
	"Mercury", "Buster", "Askeladden", "Ryds", "Uttern", "Crescent", "Flipper",
	"Ørnvik", "Selfa", "Ibiza", "Princess", "Fairline", "Sunseeker", "Azimut",
	"Ferretti", "Riva", "Sea Ray", "Boston Whaler", "Grady-White", "Chaparral",
	"Cobalt", "Four Winns", "Monterey", "Regal", "Rinker", "Wellcraft",
	"Quicksilver", "Zodiac", "Brig", "Grand", "Parker", "Finnmaster",
	"Bella", "AMT", "Falcon", "Draco", "Alukin", "Arronet", "Viknes",
	"Skorgenes", "Saga", "Scand", "Nord Star", "Aquador", "Linssen",
	"Sealine", "Rodman", "Starfisher", "Astondoa", "Galeon", "Greenline",
	"Maxi", "Albin",
}

var (
	listingYearPattern   = regexp.MustCompile(`\b(19[7-9]\d|20[0-4]\d)\b`)
	listingPricePattern  = regexp.MustCompile(`(?i)\d{1,3}[\s.,]?\d{3}[\s.,]?\d{0,3}\s*(kr|nok|eur|€|\$|usd)?`)
	listingParenPattern  = regexp.MustCompile(`\([^)]*\)`)
	listingSuffixPattern = regexp.MustCompile(`(?i)\s*[-–|]\s*(finn\.no|yachting|boats|yachtworld|blocket).*$`)
	listingForSale       = regexp.MustCompile(`(?i)\s*for\s+sale.*$`)
	listingSalePrefix    = regexp.MustCompile(`(?i)^(til salgs|for sale|selges|säljes)[\s:]+`)
	listingModelPattern  = regexp.MustCompile(`^[\p{L}\d.\-]+( [\p{L}\d.\-]+)?`)
)

// parseListingTitle extracts boat info from a listing page title, e.g.
// "Bavaria 37 Cruiser 2008 - FINN.no". Year is stripped before price-like
// number runs so it never gets eaten as a price.
func parseListingTitle(title string) *ListingMetadata {
	meta := &ListingMetadata{Source: "meta", Confidence: "medium"}

	clean := listingSuffixPattern.ReplaceAllString(title, "")
	clean = listingForSale.ReplaceAllString(clean, "")
	clean = listingSalePrefix.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(clean)

	if match := listingYearPattern.FindString(clean); match != "" {
		if year, err := strconv.Atoi(match); err == nil && year >= 1970 && year <= time.Now().Year()+1 {
			meta.Year = match
			clean = strings.Replace(clean, match, " ", 1)
		}
	}

	clean = listingPricePattern.ReplaceAllString(clean, " ")
	clean = listingParenPattern.ReplaceAllString(clean, " ")
	clean = strings.Join(strings.Fields(clean), " ")

	lower := strings.ToLower(clean)
	for _, manufacturer := range knownManufacturers {
		idx := strings.Index(lower, strings.ToLower(manufacturer))
		if idx < 0 {
			continue
		}
		meta.Manufacturer = manufacturer
		after := strings.TrimLeft(clean[idx+len(manufacturer):], " -–")
		if model := listingModelPattern.FindString(after); model != "" {
			meta.Model = strings.TrimSpace(model)
		}
		meta.Confidence = "high"
		return meta
	}

	// No known brand: first word as manufacturer, the rest as model.
	words := strings.Fields(clean)
	if len(words) >= 2 {
		meta.Manufacturer = words[0]
		model := strings.Join(words[1:], " ")
		if len(model) > 50 {
			model = model[:50]
		}
		meta.Model = model
		meta.Confidence = "low"
	}
	return meta
}

// parseListingURL pulls what the URL path itself gives away, e.g.
// finn.no/båt/bavaria-37-cruiser-2008. Used as the fallback when the
// metadata proxy is unreachable.
func parseListingURL(raw string) *ListingMetadata {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	path := strings.ToLower(parsed.Path)

	meta := &ListingMetadata{Source: "url", Confidence: "low"}
	if match := listingYearPattern.FindString(path); match != "" {
		meta.Year = match
	}
	for _, manufacturer := range knownManufacturers {
		slug := strings.ReplaceAll(strings.ToLower(manufacturer), " ", "-")
		if strings.Contains(path, slug) {
			meta.Manufacturer = manufacturer
			meta.Confidence = "medium"
			break
		}
	}
	return meta
}

type listingProxyResponse struct {
	Success  bool `json:"success"`
	Metadata struct {
		Title string `json:"title"`
	} `json:"metadata"`
}

// GetListingMetadata resolves boat info for a sales-listing URL, preferring
// the page title fetched through the remote metadata proxy over what the URL
// path alone gives away. Every failure degrades to the URL-derived data, or
// nil for an unusable URL; nothing here surfaces as an error.
func (s *AnalyticsService) GetListingMetadata(rawURL string) *ListingMetadata {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil
	}

	fromURL := parseListingURL(rawURL)
	if s.cfg.BaseURL == "" {
		return fromURL
	}

	resp, err := s.client.Get(s.cfg.BaseURL + "/fetch-metadata?url=" + url.QueryEscape(rawURL))
	if err != nil {
		logrus.WithError(err).Debug("Listing metadata fetch failed")
		return fromURL
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logrus.WithField("status", resp.StatusCode).Debug("Listing metadata fetch rejected")
		return fromURL
	}

	var proxy listingProxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&proxy); err != nil || !proxy.Success || proxy.Metadata.Title == "" {
		return fromURL
	}

	meta := parseListingTitle(proxy.Metadata.Title)
	meta.Title = proxy.Metadata.Title
	if fromURL != nil {
		if meta.Manufacturer == "" {
			meta.Manufacturer = fromURL.Manufacturer
		}
		if meta.Year == "" {
			meta.Year = fromURL.Year
		}
	}
	return meta
}
