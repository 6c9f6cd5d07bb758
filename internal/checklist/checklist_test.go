// internal/checklist/checklist_test.go
package checklist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogFile(t *testing.T, dir, lang, title string) {
	t.Helper()
	content := `{"areas":[{"id":"hull","title":"` + title + `","items":[{"id":"hull_general","title":"` + title + `","tags":["all"]}]}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "checklist_"+lang+".json"), []byte(content), 0o644))
}

func TestNewLoader_RequiresDefaultLanguage(t *testing.T) {
	dir := t.TempDir()
	writeCatalogFile(t, dir, "en", "Hull")

	_, err := NewLoader(dir, "nb")
	assert.Error(t, err)
}

func TestLoaderGet_FallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	writeCatalogFile(t, dir, "nb", "Skrog")
	writeCatalogFile(t, dir, "en", "Hull")

	loader, err := NewLoader(dir, "nb")
	require.NoError(t, err)

	assert.Equal(t, "Hull", loader.Get("en").Areas[0].Title)
	assert.Equal(t, "Skrog", loader.Get("nb").Areas[0].Title)
	// Unknown language falls back to the default catalog.
	assert.Equal(t, "Skrog", loader.Get("de").Areas[0].Title)
}

func TestLoaderGet_NormalizesRegionedCodes(t *testing.T) {
	dir := t.TempDir()
	writeCatalogFile(t, dir, "nb", "Skrog")
	writeCatalogFile(t, dir, "en", "Hull")

	loader, err := NewLoader(dir, "nb")
	require.NoError(t, err)

	assert.Equal(t, "Hull", loader.Get("en-US").Areas[0].Title)
	assert.Equal(t, "Skrog", loader.Get("nb_NO").Areas[0].Title)
}

func TestLoaderLanguages(t *testing.T) {
	dir := t.TempDir()
	writeCatalogFile(t, dir, "nb", "Skrog")
	writeCatalogFile(t, dir, "en", "Hull")

	loader, err := NewLoader(dir, "nb")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"nb", "en"}, loader.Languages())
}

func TestCatalogLookups(t *testing.T) {
	catalog := testCatalog()

	item, ok := catalog.Item("hull_osmosis")
	require.True(t, ok)
	assert.Equal(t, 1, item.Criticality)
	assert.Equal(t, 4, item.CostIndicator)

	area, ok := catalog.AreaOf("rig_standing")
	require.True(t, ok)
	assert.Equal(t, "rig", area)

	_, ok = catalog.Item("missing_item")
	assert.False(t, ok)
}

func TestBundledCatalogsParse(t *testing.T) {
	loader, err := NewLoader("./locales", "nb")
	require.NoError(t, err)

	for _, lang := range []string{"nb", "en"} {
		catalog := loader.Get(lang)
		require.NotNil(t, catalog)
		assert.NotEmpty(t, catalog.Areas, "catalog %s has no areas", lang)

		// Both catalogs must describe the same item set so a language
		// switch never changes eligibility.
		assert.Equal(t, len(loader.Get("nb").FlatItems()), len(catalog.FlatItems()))
	}
}
