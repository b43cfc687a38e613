package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/vk/cmdinspect/internal/ctxlog"
	"github.com/vk/cmdinspect/internal/registry"
	"github.com/vk/cmdinspect/internal/report"
)

// Loader builds a registry snapshot from manifest paths.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*registry.Snapshot, error)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger  *slog.Logger
	printer *report.Printer
	config  *Config
	loader  Loader
	self    registry.Registry
}

// NewApp is the constructor for the main application. Report text goes to
// outW; warnings, errors and log records go to errW. self is the registry
// inspected when no manifests are configured and may be nil.
func NewApp(outW, errW io.Writer, cfg *Config, loader Loader, self registry.Registry) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, cfg.Quiet, errW)
	logger.Debug("Logger configured successfully.")

	return &App{
		logger:  logger,
		printer: report.NewPrinter(outW, errW),
		config:  cfg,
		loader:  loader,
		self:    self,
	}
}

// Logger returns the application's logger. This is primarily for testing.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// WithLogger returns ctx carrying the application's logger.
func (a *App) WithLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
