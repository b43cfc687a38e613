package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type settingsFile struct {
	Prefix    string   `toml:"prefix"`
	Option    string   `toml:"option"`
	Sentinel  string   `toml:"sentinel"`
	Self      string   `toml:"self"`
	Manifests []string `toml:"manifests"`
	LogLevel  string   `toml:"log_level"`
	LogFormat string   `toml:"log_format"`
}

// LoadSettings applies the keys defined in the TOML file at path to cfg.
// Keys the file does not define leave cfg untouched. Relative manifest
// paths are resolved against the directory of the file.
func LoadSettings(path string, cfg *Config) error {
	var raw settingsFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load settings %s: unknown keys %v", path, undecoded)
	}

	if meta.IsDefined("prefix") {
		cfg.Prefix = raw.Prefix
	}
	if meta.IsDefined("option") {
		cfg.OptionName = strings.TrimSpace(raw.Option)
	}
	if meta.IsDefined("sentinel") {
		cfg.Sentinel = strings.TrimSpace(raw.Sentinel)
	}
	if meta.IsDefined("self") {
		cfg.Self = strings.TrimSpace(raw.Self)
	}
	if meta.IsDefined("manifests") {
		base := filepath.Dir(path)
		var manifests []string
		for _, m := range raw.Manifests {
			m = strings.TrimSpace(m)
			if m == "" {
				continue
			}
			if !filepath.IsAbs(m) {
				m = filepath.Join(base, m)
			}
			manifests = append(manifests, m)
		}
		cfg.Manifests = manifests
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = raw.LogLevel
	}
	if meta.IsDefined("log_format") {
		cfg.LogFormat = raw.LogFormat
	}
	return nil
}
