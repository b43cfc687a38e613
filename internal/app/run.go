package app

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
	"github.com/vk/cmdinspect/internal/ctxlog"
	"github.com/vk/cmdinspect/internal/inspect"
	"github.com/vk/cmdinspect/internal/option"
	"github.com/vk/cmdinspect/internal/registry"
	"github.com/vk/cmdinspect/internal/report"
)

// ErrNoRegistry is returned by Run when there are no manifests and no
// built-in registry to inspect.
var ErrNoRegistry = errors.New("no manifests given and no built-in registry to inspect")

// Run executes one debug invocation: inspect the registry and print the
// report, or print the quiet trace when TraceQuiet is set.
//
// Definition conflicts and unexpected failures during the inspection are
// explained on the printer and end the run cleanly, panics included. Only
// failures to obtain the registry at all are returned.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = a.WithLogger(ctx)
	a.logger.Debug("App.Run method started.", "trace", a.config.TraceQuiet, "manifests", len(a.config.Manifests))

	report.Header(a.printer)

	reg, err := a.resolveRegistry(ctx)
	if err != nil {
		var conflict *option.DefinitionConflictError
		if errors.As(err, &conflict) {
			report.ExplainConflict(a.printer, conflict)
			return nil
		}
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Inspection panicked.", "panic", r)
			report.Explain(a.printer, panicError(r))
			err = nil
		}
	}()

	if err := a.inspect(ctx, reg); err != nil {
		a.logger.Debug("Inspection failed.", "error", err)
		report.Explain(a.printer, err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) resolveRegistry(ctx context.Context) (registry.Registry, error) {
	logger := ctxlog.FromContext(ctx)
	if len(a.config.Manifests) > 0 {
		snap, err := a.loader.Load(ctx, a.config.Manifests...)
		if err != nil {
			return nil, fmt.Errorf("failed to load manifests: %w", err)
		}
		logger.Debug("Inspecting manifest registry.", "application", snap.Name())
		return snap, nil
	}
	if a.self == nil {
		return nil, ErrNoRegistry
	}
	logger.Debug("Inspecting built-in command tree.", "application", a.self.Name())
	return a.self, nil
}

func (a *App) inspect(ctx context.Context, reg registry.Registry) error {
	in := inspect.New(inspect.Config{
		OptionName: a.config.OptionName,
		Sentinel:   a.config.Sentinel,
		Self:       a.config.Self,
	})

	if a.config.TraceQuiet {
		res, err := in.Trace(ctx, reg)
		if err != nil {
			return pkgerrors.WithStack(err)
		}
		report.RenderTrace(a.printer, res)
		return nil
	}

	res, err := in.Inspect(ctx, reg, a.config.Prefix)
	if err != nil {
		return pkgerrors.WithStack(err)
	}
	report.RenderInspection(a.printer, res, in.OptionName())
	return nil
}

// panicError turns a recovered value into an error carrying the stack of
// the panic.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return pkgerrors.WithStack(err)
	}
	return pkgerrors.Errorf("panic: %v", r)
}
