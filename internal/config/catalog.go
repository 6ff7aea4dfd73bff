package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// CatalogFile is the name of the source catalog inside the config directory.
const CatalogFile = "sources.yaml"

// Catalog is the descriptive list of known package sources shown by
// `pkghub sources`.
type Catalog struct {
	Sources     []Source  `yaml:"sources"`
	LastUpdated time.Time `yaml:"last_updated"`
}

// DefaultCatalog returns the catalog written on first run.
func DefaultCatalog(now time.Time) Catalog {
	return Catalog{
		Sources: []Source{
			{
				ID:          "winget",
				Name:        "Windows Package Manager",
				URL:         "https://cdn.winget.microsoft.com/cache",
				Type:        "official",
				Priority:    1,
				Enabled:     true,
				Description: "Official community repository",
			},
			{
				ID:          "msstore",
				Name:        "Microsoft Store",
				URL:         "https://storeedgefd.dsx.mp.microsoft.com/v9.0",
				Type:        "store",
				Priority:    2,
				Enabled:     false,
				Description: "Microsoft Store catalog",
			},
		},
		LastUpdated: now.UTC(),
	}
}

// EnsureCatalog writes the default catalog to dir unless one already exists.
func EnsureCatalog(dir string, now time.Time) error {
	path := filepath.Join(dir, CatalogFile)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return writeYAML(path, DefaultCatalog(now))
}

// LoadCatalog reads the catalog from dir.
func LoadCatalog(dir string) (Catalog, error) {
	path := filepath.Join(dir, CatalogFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return c, nil
}
