// Package config provides configuration loading and persistence for pkghub.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Dir returns the pkghub config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/pkghub if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "pkghub"), nil
}

// Path returns the config file location. PKGHUB_CONFIG overrides the
// default of {Dir}/config.yaml.
func Path() (string, error) {
	if p := os.Getenv("PKGHUB_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

const (
	DefaultDownloadSource      = "winget"
	DefaultBatchSize           = 3
	DefaultCategorySearchLimit = 40
)

// Source describes a package source winget can query or install from.
type Source struct {
	ID          string `mapstructure:"id" yaml:"id"`
	Name        string `mapstructure:"name" yaml:"name"`
	Priority    int    `mapstructure:"priority" yaml:"priority"`
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	URL         string `mapstructure:"url" yaml:"url,omitempty"`
	Type        string `mapstructure:"type" yaml:"type,omitempty"`
	Description string `mapstructure:"description" yaml:"description,omitempty"`
}

// Config is the user-facing configuration.
type Config struct {
	DownloadSource          string   `mapstructure:"download_source" yaml:"download_source"`
	Sources                 []Source `mapstructure:"sources" yaml:"sources"`
	BatchSize               int      `mapstructure:"batch_size" yaml:"batch_size"`
	CategorySearchLimit     int      `mapstructure:"category_search_limit" yaml:"category_search_limit"`
	AutoSource              bool     `mapstructure:"auto_source" yaml:"auto_source"`
	EnableSearchSuggestions bool     `mapstructure:"enable_search_suggestions" yaml:"enable_search_suggestions"`
	SilentInstall           bool     `mapstructure:"silent_install" yaml:"silent_install"`
	InstallNotifications    bool     `mapstructure:"install_notifications" yaml:"install_notifications"`
}

// DefaultSources returns the built-in source list: the community repository
// enabled, the Microsoft Store disabled.
func DefaultSources() []Source {
	return []Source{
		{ID: "winget", Name: "Windows Package Manager", Priority: 1, Enabled: true, Type: "official"},
		{ID: "msstore", Name: "Microsoft Store", Priority: 2, Enabled: false, Type: "store"},
	}
}

// Defaults returns the configuration used when no file or env override exists.
func Defaults() Config {
	return Config{
		DownloadSource:          DefaultDownloadSource,
		Sources:                 DefaultSources(),
		BatchSize:               DefaultBatchSize,
		CategorySearchLimit:     DefaultCategorySearchLimit,
		AutoSource:              false,
		EnableSearchSuggestions: true,
		SilentInstall:           true,
		InstallNotifications:    true,
	}
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := c
	out.Sources = append([]Source(nil), c.Sources...)
	return out
}

// Normalize fills in zero or out-of-range fields with defaults.
func (c Config) Normalize() Config {
	c = c.Clone()
	c.DownloadSource = strings.TrimSpace(c.DownloadSource)
	if c.DownloadSource == "" {
		c.DownloadSource = DefaultDownloadSource
	}
	if c.CategorySearchLimit <= 0 {
		c.CategorySearchLimit = DefaultCategorySearchLimit
	}
	if c.BatchSize < 0 {
		c.BatchSize = 0
	}
	if len(c.Sources) == 0 {
		c.Sources = DefaultSources()
	}
	return c
}

// EnabledSources returns the sources that take part in selection.
func (c Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// Source looks up a source by id.
func (c Config) Source(id string) (Source, bool) {
	for _, s := range c.Sources {
		if strings.EqualFold(s.ID, id) {
			return s, true
		}
	}
	return Source{}, false
}

// Provider supplies the current configuration. Consumers call Current on
// every operation so edits take effect on the next call.
type Provider interface {
	Current() Config
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func() Config

func (f ProviderFunc) Current() Config { return f() }

// Static returns a Provider that always yields c.
func Static(c Config) Provider {
	c = c.Normalize()
	return ProviderFunc(func() Config { return c.Clone() })
}
