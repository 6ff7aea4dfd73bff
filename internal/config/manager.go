package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Manager loads configuration from defaults, the config file and PKGHUB_*
// environment variables, and persists edits back to the file.
type Manager struct {
	mu     sync.RWMutex
	path   string
	cfg    Config
	logger *log.Logger
}

// NewManager creates a Manager for the file at path and loads it. A missing
// file is not an error; defaults apply until Save is called.
func NewManager(path string, logger *log.Logger) (*Manager, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	m := &Manager{path: path, cfg: Defaults(), logger: logger}
	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Path returns the config file the Manager reads and writes.
func (m *Manager) Path() string {
	return m.path
}

// Current returns a copy of the active configuration.
func (m *Manager) Current() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.Clone()
}

// Reload re-reads the config file and environment.
func (m *Manager) Reload() error {
	v := newViper()
	if m.path != "" {
		v.SetConfigFile(m.path)
		if _, err := os.Stat(m.path); err == nil {
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read config %s: %w", m.path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to stat config %s: %w", m.path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	cfg = cfg.Normalize()

	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()
	m.logger.Printf("config: loaded %s (download_source=%s auto_source=%t)", m.path, cfg.DownloadSource, cfg.AutoSource)
	return nil
}

// Update applies fn to a copy of the current config, stores the result and
// saves it.
func (m *Manager) Update(fn func(*Config)) error {
	m.mu.Lock()
	cfg := m.cfg.Clone()
	fn(&cfg)
	m.cfg = cfg.Normalize()
	m.mu.Unlock()
	return m.Save()
}

// Save writes the current config to the config file.
func (m *Manager) Save() error {
	if m.path == "" {
		return nil
	}
	return writeYAML(m.path, m.Current())
}

// Reset restores the defaults and saves them.
func (m *Manager) Reset() error {
	m.mu.Lock()
	m.cfg = Defaults()
	m.mu.Unlock()
	return m.Save()
}

// Export writes the current config to path.
func (m *Manager) Export(path string) error {
	return writeYAML(path, m.Current())
}

// Import replaces the current config with the one at path and saves it.
func (m *Manager) Import(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	m.mu.Lock()
	m.cfg = cfg.Normalize()
	m.mu.Unlock()
	return m.Save()
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PKGHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("download_source", d.DownloadSource)
	v.SetDefault("batch_size", d.BatchSize)
	v.SetDefault("category_search_limit", d.CategorySearchLimit)
	v.SetDefault("auto_source", d.AutoSource)
	v.SetDefault("enable_search_suggestions", d.EnableSearchSuggestions)
	v.SetDefault("silent_install", d.SilentInstall)
	v.SetDefault("install_notifications", d.InstallNotifications)
	return v
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
