// internal/checklist/checklist.go
package checklist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Item is one checkpoint of the bundled checklist definition. Criticality
// rank 1 is the most critical (and the only rank visible to free users);
// zero means unclassified. CostIndicator is a coarse 0-4 cost-of-repair
// signal.
type Item struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	EngineTypes   []string `json:"engineTypes,omitempty"`
	Criticality   int      `json:"criticality,omitempty"`
	CostIndicator int      `json:"costIndicator,omitempty"`
}

// Area groups items under one section of the checklist.
type Area struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Catalog is the full area -> item checklist definition for one language.
type Catalog struct {
	Areas []Area `json:"areas"`
}

// FlatItems returns all items in catalog order, areas flattened in order.
func (c *Catalog) FlatItems() []Item {
	var items []Item
	for _, area := range c.Areas {
		items = append(items, area.Items...)
	}
	return items
}

// Item looks up an item definition by id.
func (c *Catalog) Item(id string) (Item, bool) {
	for _, area := range c.Areas {
		for _, item := range area.Items {
			if item.ID == id {
				return item, true
			}
		}
	}
	return Item{}, false
}

// AreaOf returns the id of the area containing the given item.
func (c *Catalog) AreaOf(id string) (string, bool) {
	for _, area := range c.Areas {
		for _, item := range area.Items {
			if item.ID == id {
				return area.ID, true
			}
		}
	}
	return "", false
}

// Loader serves localized checklist catalogs, cached per language for the
// process lifetime. A language without a catalog file falls back to the
// default language; the default catalog itself is mandatory.
type Loader struct {
	mu          sync.RWMutex
	catalogs    map[string]*Catalog
	defaultLang string
}

var instance *Loader
var once sync.Once

func Initialize(localesPath, defaultLang string) error {
	var err error
	once.Do(func() {
		instance, err = NewLoader(localesPath, defaultLang)
	})
	return err
}

// NewLoader reads every checklist_<lang>.json under localesPath.
func NewLoader(localesPath, defaultLang string) (*Loader, error) {
	l := &Loader{
		catalogs:    make(map[string]*Catalog),
		defaultLang: defaultLang,
	}

	matches, err := filepath.Glob(filepath.Join(localesPath, "checklist_*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan checklist locales: %w", err)
	}

	for _, path := range matches {
		lang := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), "checklist_"), ".json")

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read checklist file %s: %w", path, err)
		}

		var catalog Catalog
		if err := json.Unmarshal(data, &catalog); err != nil {
			return nil, fmt.Errorf("failed to unmarshal checklist file %s: %w", path, err)
		}

		l.catalogs[lang] = &catalog
	}

	if _, ok := l.catalogs[defaultLang]; !ok {
		return nil, fmt.Errorf("checklist catalog for default language %q not found in %s", defaultLang, localesPath)
	}

	return l, nil
}

// Get returns the catalog for the requested language, falling back to the
// default language. Never returns an empty catalog for an unknown language.
func (l *Loader) Get(lang string) *Catalog {
	l.mu.RLock()
	defer l.mu.RUnlock()

	// Normalize regioned codes like "en-US".
	if idx := strings.IndexAny(lang, "-_"); idx > 0 {
		lang = lang[:idx]
	}

	if catalog, exists := l.catalogs[lang]; exists {
		return catalog
	}
	return l.catalogs[l.defaultLang]
}

// Languages lists the loaded catalog languages.
func (l *Loader) Languages() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	langs := make([]string, 0, len(l.catalogs))
	for lang := range l.catalogs {
		langs = append(langs, lang)
	}
	return langs
}

// Global accessors
func Get(lang string) *Catalog {
	if instance != nil {
		return instance.Get(lang)
	}
	return &Catalog{}
}
