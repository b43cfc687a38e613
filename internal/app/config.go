package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/cmdinspect/internal/inspect"
)

// Default values used when neither the settings file nor a flag sets them.
const (
	DefaultPrefix    = "plesk-ext-laravel:"
	DefaultSelf      = "plesk-ext-laravel:debug"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Manifests []string // hcl files or directories; empty inspects the built-in tree
	Prefix    string
	// OptionName is the option whose duplicates are reported.
	OptionName string
	Sentinel   string
	Self       string
	TraceQuiet bool

	LogLevel  string
	LogFormat string
	Quiet     bool
}

// DefaultConfig returns the configuration used before any settings or flags
// are applied.
func DefaultConfig() Config {
	return Config{
		Prefix:     DefaultPrefix,
		OptionName: inspect.DefaultOptionName,
		Self:       DefaultSelf,
		LogLevel:   DefaultLogLevel,
		LogFormat:  DefaultLogFormat,
	}
}

// NewConfig validates cfg and returns a normalized copy.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	var errs []error
	if cfg.Prefix == "" {
		errs = append(errs, errors.New("prefix must not be empty"))
	}
	if strings.TrimSpace(cfg.OptionName) == "" {
		errs = append(errs, errors.New("option name must not be empty"))
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel))
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
