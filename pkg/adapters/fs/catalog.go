package fs

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/butler/pkg/core"
)

// CatalogEntry is one title of a metadata catalog file.
type CatalogEntry struct {
	Title  string `yaml:"title"`
	Year   string `yaml:"year,omitempty"`
	Genre  string `yaml:"genre,omitempty"`
	Cast   string `yaml:"cast,omitempty"`
	Plot   string `yaml:"plot,omitempty"`
	Poster string `yaml:"poster,omitempty"`
}

// Catalog implements core.MetadataLookup from a local YAML list of entries.
type Catalog struct {
	entries []CatalogEntry
}

var _ core.MetadataLookup = (*Catalog)(nil)

// LoadCatalog reads a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML sequence of entries.
func ParseCatalog(data []byte) (*Catalog, error) {
	var entries []CatalogEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &Catalog{entries: entries}, nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Lookup matches title case-insensitively. A non-empty year must match too.
func (c *Catalog) Lookup(ctx context.Context, title, year string) (core.Metadata, error) {
	for _, e := range c.entries {
		if !strings.EqualFold(strings.TrimSpace(e.Title), strings.TrimSpace(title)) {
			continue
		}
		if year != "" && e.Year != "" && e.Year != year {
			continue
		}
		return core.Metadata{
			Genre:     e.Genre,
			Cast:      e.Cast,
			Plot:      e.Plot,
			PosterURL: e.Poster,
		}, nil
	}
	return core.Metadata{}, fmt.Errorf("%w: %s (%s)", core.ErrNoMetadata, title, year)
}
