// Package config loads termkit settings from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/termkit/logging"
	"github.com/lixenwraith/termkit/terminal"
)

// Config holds the application settings
type Config struct {
	Keys  Keymap         `toml:"keys" yaml:"keys"`
	Mouse bool           `toml:"mouse" yaml:"mouse"`
	Bell  bool           `toml:"bell" yaml:"bell"`
	Log   logging.Config `toml:"log" yaml:"log"`
}

// Keymap binds toplevel commands to keys, in terminal.ParseKey syntax
type Keymap struct {
	Quit     string `toml:"quit" yaml:"quit"`
	NextView string `toml:"next_view" yaml:"next_view"`
	PrevView string `toml:"prev_view" yaml:"prev_view"`
	Suspend  string `toml:"suspend" yaml:"suspend"`
	Refresh  string `toml:"refresh" yaml:"refresh"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Keys: Keymap{
			Quit:     "ctrl+q",
			NextView: "tab",
			PrevView: "shift+tab",
			Suspend:  "ctrl+z",
			Refresh:  "ctrl+l",
		},
		Mouse: true,
		Bell:  true,
		Log:   logging.Config{Level: "info"},
	}
}

// DefaultPath is the per-user config file location
func DefaultPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("termkit", "config.toml"))
}

// Load reads path over the defaults; a missing file yields the defaults.
// The format follows the extension: .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	if _, err := cfg.Keys.Resolve(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as TOML, creating the directory
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Resolve parses every binding, keyed by command name; empty entries are skipped
func (k Keymap) Resolve() (map[string]terminal.Key, error) {
	entries := []struct{ cmd, name string }{
		{"quit", k.Quit},
		{"next_view", k.NextView},
		{"prev_view", k.PrevView},
		{"suspend", k.Suspend},
		{"refresh", k.Refresh},
	}

	out := make(map[string]terminal.Key, len(entries))
	for _, e := range entries {
		if e.name == "" {
			continue
		}
		key, err := terminal.ParseKey(e.name)
		if err != nil {
			return nil, fmt.Errorf("key for %s: %w", e.cmd, err)
		}
		out[e.cmd] = key
	}
	return out, nil
}
