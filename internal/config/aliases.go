package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// AliasConfig maps short names typed on the command line to winget package
// identifiers, e.g. "vlc=VideoLAN.VLC".
type AliasConfig struct {
	Aliases map[string]string
}

// LoadAliases reads the aliases file at {dir}/aliases. If the file does not
// exist, an empty config is returned without an error. Malformed lines are
// skipped. Alias names are matched case-insensitively.
func LoadAliases(dir string) (*AliasConfig, error) {
	cfg := &AliasConfig{
		Aliases: make(map[string]string),
	}

	f, err := os.Open(filepath.Join(dir, "aliases"))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}
		alias := strings.ToLower(strings.TrimSpace(line[:idx]))
		id := strings.TrimSpace(line[idx+1:])
		if alias == "" || id == "" {
			continue
		}
		cfg.Aliases[alias] = id
	}

	return cfg, scanner.Err()
}

// Resolve returns the package id for name, or name itself when it is not an
// alias.
func (c *AliasConfig) Resolve(name string) string {
	if c == nil {
		return name
	}
	if id, ok := c.Aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return id
	}
	return name
}
